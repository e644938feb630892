package core

import (
	"fmt"
	"strings"
	"time"

	"interviewer/pkg/schema"
)

// Phase is a stage of the interview lifecycle. Phases only move forward.
type Phase int

const (
	PhaseSetup Phase = iota
	PhaseInterviewing
	PhaseAwaitingFeedbackRequest
	PhaseFeedbackShown
)

func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "Setup"
	case PhaseInterviewing:
		return "Interviewing"
	case PhaseAwaitingFeedbackRequest:
		return "AwaitingFeedbackRequest"
	case PhaseFeedbackShown:
		return "FeedbackShown"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Message represents a conversation message.
type Message struct {
	Role      string // "system", "user", "assistant"
	Content   string
	CreatedAt time.Time
}

// InterviewState represents the in-memory state of one interview session.
type InterviewState struct {
	ID            string
	Profile       schema.Profile
	Phase         Phase
	UserTurnCount int
	Messages      []Message
	Feedback      string
	StartedAt     time.Time
}

// NewInterviewState creates a session in the Setup phase with the default profile.
func NewInterviewState() *InterviewState {
	id, err := schema.NewSessionID()
	if err != nil {
		// nanoid only fails when the system random source does
		id = fmt.Sprintf("INT-%d", time.Now().UnixNano())
	}

	return &InterviewState{
		ID:        id,
		Profile:   schema.DefaultProfile(),
		Phase:     PhaseSetup,
		Messages:  make([]Message, 0),
		StartedAt: time.Now(),
	}
}

// SetProfile replaces the profile. It has no effect once setup is complete.
func (s *InterviewState) SetProfile(p schema.Profile) bool {
	if s.Phase != PhaseSetup {
		return false
	}
	s.Profile = p
	return true
}

// AddMessage adds a message to the conversation history.
func (s *InterviewState) AddMessage(role, content string) {
	s.Messages = append(s.Messages, Message{
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	})
}

// VisibleMessages returns the messages shown to the candidate, without the system instruction.
func (s *InterviewState) VisibleMessages() []Message {
	visible := make([]Message, 0, len(s.Messages))
	for _, m := range s.Messages {
		if m.Role == schema.RoleSystem {
			continue
		}
		visible = append(visible, m)
	}
	return visible
}

// History renders every message, system instruction included, as "role: content" lines.
func (s *InterviewState) History() string {
	lines := make([]string, len(s.Messages))
	for i, m := range s.Messages {
		lines[i] = m.Role + ": " + m.Content
	}
	return strings.Join(lines, "\n")
}

// Transcript converts the session into its exported form.
func (s *InterviewState) Transcript(completedAt time.Time) *schema.Transcript {
	messages := make([]schema.TranscriptMessage, len(s.Messages))
	for i, m := range s.Messages {
		messages[i] = schema.TranscriptMessage{
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		}
	}

	return &schema.Transcript{
		ID:          s.ID,
		Profile:     s.Profile,
		Messages:    messages,
		Feedback:    s.Feedback,
		StartedAt:   s.StartedAt,
		CompletedAt: completedAt,
	}
}

// Clone creates a deep copy of the session state.
func (s *InterviewState) Clone() *InterviewState {
	clone := *s
	clone.Messages = make([]Message, len(s.Messages))
	copy(clone.Messages, s.Messages)
	return &clone
}
