package schema

import "time"

// Transcript is the exported record of a finished interview.
type Transcript struct {
	ID          string              `json:"id" yaml:"id"`
	Profile     Profile             `json:"profile" yaml:"profile"`
	Messages    []TranscriptMessage `json:"messages" yaml:"messages"`
	Feedback    string              `json:"feedback" yaml:"feedback"`
	StartedAt   time.Time           `json:"started_at" yaml:"started_at"`
	CompletedAt time.Time           `json:"completed_at" yaml:"completed_at"`
}

// TranscriptMessage is a single conversation entry in a transcript.
type TranscriptMessage struct {
	Role      string    `json:"role" yaml:"role"`
	Content   string    `json:"content" yaml:"content"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Visible returns the messages a candidate saw, skipping the system instruction.
func (t *Transcript) Visible() []TranscriptMessage {
	visible := make([]TranscriptMessage, 0, len(t.Messages))
	for _, m := range t.Messages {
		if m.Role == RoleSystem {
			continue
		}
		visible = append(visible, m)
	}
	return visible
}
