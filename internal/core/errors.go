package core

import "fmt"

// Generation stages.
const (
	StageInterviewTurn = "interview turn"
	StageFeedback      = "feedback"
)

// ValidationError represents input rejected by the input surface.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// GenerationError represents a failed call to the generation service.
// The state passed to the failing operation is left unchanged.
type GenerationError struct {
	Stage string
	Turn  int // 1-based user turn; zero for feedback
	Err   error
}

func (e *GenerationError) Error() string {
	if e.Turn > 0 {
		return fmt.Sprintf("generation failed during %s %d: %v", e.Stage, e.Turn, e.Err)
	}
	return fmt.Sprintf("generation failed during %s: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
