package schema

// Level represents the seniority of the target role.
type Level string

const (
	LevelJunior Level = "Junior"
	LevelMid    Level = "Mid-level"
	LevelSenior Level = "Senior"
)

// Levels lists the selectable levels in display order.
var Levels = []Level{LevelJunior, LevelMid, LevelSenior}

// Positions lists the selectable target positions in display order.
var Positions = []string{
	"Data Scientist",
	"Data Engineer",
	"ML Engineer",
	"BI Analyst",
	"Financial Analyst",
}

// Companies lists the selectable target companies in display order.
var Companies = []string{
	"Amazon",
	"Meta",
	"Udemy",
	"365 Company",
	"Nestle",
	"LinkedIn",
	"Spotify",
}

// Role values used in conversation messages.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Input limits enforced by the input surface.
const (
	NameMax       = 40
	ExperienceMax = 200
	SkillsMax     = 200
	AnswerMax     = 1000
)
