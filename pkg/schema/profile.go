package schema

// Profile is the candidate and target-role information captured during setup.
type Profile struct {
	Name       string `json:"name" yaml:"name" validate:"max=40"`
	Experience string `json:"experience" yaml:"experience" validate:"max=200"`
	Skills     string `json:"skills" yaml:"skills" validate:"max=200"`
	Level      Level  `json:"level" yaml:"level" validate:"oneof=Junior Mid-level Senior"`
	Position   string `json:"position" yaml:"position"`
	Company    string `json:"company" yaml:"company"`
}

// DefaultProfile returns the profile shown when setup starts.
func DefaultProfile() Profile {
	return Profile{
		Level:    LevelJunior,
		Position: "Data Scientist",
		Company:  "Amazon",
	}
}

// Role returns the target role as "{level} {position}".
func (p Profile) Role() string {
	return string(p.Level) + " " + p.Position
}
