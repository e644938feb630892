package schema

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateProfile checks the profile against the input limits.
// Empty fields are accepted; only lengths and the level are checked.
func ValidateProfile(p *Profile) error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "max":
		return fmt.Errorf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Errorf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Errorf("%s is invalid", fe.Field())
	}
}

// ValidateAnswer checks a chat answer against the answer length limit.
func ValidateAnswer(answer string) error {
	if err := validate.Var(answer, fmt.Sprintf("max=%d", AnswerMax)); err != nil {
		return fmt.Errorf("answer must be at most %d characters", AnswerMax)
	}
	return nil
}

// ParseLevel returns the level matching s.
func ParseLevel(s string) (Level, error) {
	for _, l := range Levels {
		if string(l) == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("invalid level: %s", s)
}
