package core

import (
	"context"
	"strings"

	"interviewer/internal/llm"
	"interviewer/pkg/schema"
)

// DefaultMaxTurns is the number of candidate answers in one interview.
const DefaultMaxTurns = 5

// Interviewer owns the interview phase transitions.
//
// Every transition works on a clone of the given state and returns the clone
// only on success, so a failed generation call never leaves a half-applied
// turn behind. Calls made in the wrong phase are no-ops that return the
// state unchanged.
type Interviewer struct {
	generator Generator
	logger    Logger
	maxTurns  int
}

// NewInterviewer creates an interviewer with the default turn limit.
func NewInterviewer(generator Generator, logger Logger) *Interviewer {
	return &Interviewer{
		generator: generator,
		logger:    logger,
		maxTurns:  DefaultMaxTurns,
	}
}

// WithMaxTurns returns the interviewer with a different turn limit.
// Values below one are ignored.
func (iv *Interviewer) WithMaxTurns(n int) *Interviewer {
	if n >= 1 {
		iv.maxTurns = n
	}
	return iv
}

// MaxTurns returns the number of candidate answers per interview.
func (iv *Interviewer) MaxTurns() int {
	return iv.maxTurns
}

// CompleteSetup ends the setup phase and seeds the interviewer persona.
// Calling it again after setup has no effect.
func (iv *Interviewer) CompleteSetup(state *InterviewState) *InterviewState {
	if state.Phase != PhaseSetup {
		iv.logger.Debug("setup already complete", "session", state.ID, "phase", state.Phase.String())
		return state
	}

	next := state.Clone()
	next.Phase = PhaseInterviewing
	iv.enterInterviewing(next)

	iv.logger.Info("interview started",
		"session", next.ID,
		"role", next.Profile.Role(),
		"company", next.Profile.Company,
	)
	return next
}

// enterInterviewing synthesizes the system instruction on first entry only.
func (iv *Interviewer) enterInterviewing(state *InterviewState) {
	if len(state.Messages) > 0 {
		return
	}
	state.AddMessage(schema.RoleSystem, llm.BuildInterviewerPrompt(state.Profile))
}

// SubmitAnswer runs one interview turn: it records the answer and, unless this
// is the last turn, streams the interviewer's reply. Each reply fragment is
// passed to onChunk as it arrives; the reply is committed as one message only
// once the stream completes. Blank answers are ignored.
//
// If the reply fails, the error is returned and the turn is not counted.
func (iv *Interviewer) SubmitAnswer(ctx context.Context, state *InterviewState, answer string, onChunk func(string)) (*InterviewState, error) {
	if state.Phase != PhaseInterviewing || state.UserTurnCount >= iv.maxTurns {
		iv.logger.Warn("answer ignored outside interview",
			"session", state.ID,
			"phase", state.Phase.String(),
			"turns", state.UserTurnCount,
		)
		return state, nil
	}

	if strings.TrimSpace(answer) == "" {
		return state, nil
	}

	next := state.Clone()
	iv.enterInterviewing(next)
	next.AddMessage(schema.RoleUser, answer)

	turn := state.UserTurnCount + 1
	if state.UserTurnCount < iv.maxTurns-1 {
		reply, err := iv.streamReply(ctx, next.Messages, onChunk)
		if err != nil {
			iv.logger.Error("interview turn failed",
				"session", state.ID,
				"turn", turn,
				"error", err.Error(),
			)
			return nil, &GenerationError{Stage: StageInterviewTurn, Turn: turn, Err: err}
		}
		next.AddMessage(schema.RoleAssistant, reply)
	}

	next.UserTurnCount++
	if next.UserTurnCount >= iv.maxTurns {
		next.Phase = PhaseAwaitingFeedbackRequest
		iv.logger.Info("interview complete", "session", next.ID, "turns", next.UserTurnCount)
	} else {
		iv.logger.Debug("turn complete", "session", next.ID, "turn", turn)
	}

	return next, nil
}

// streamReply accumulates the streamed reply into a single string.
func (iv *Interviewer) streamReply(ctx context.Context, messages []Message, onChunk func(string)) (string, error) {
	var sb strings.Builder
	for fragment, err := range iv.generator.StreamReply(ctx, messages) {
		if err != nil {
			return "", err
		}
		sb.WriteString(fragment)
		if onChunk != nil {
			onChunk(fragment)
		}
	}
	return sb.String(), nil
}

// RequestFeedback evaluates the finished interview. The evaluation is
// generated once; later calls return the state with the stored feedback.
// If the evaluation fails, the phase stays at AwaitingFeedbackRequest.
func (iv *Interviewer) RequestFeedback(ctx context.Context, state *InterviewState) (*InterviewState, error) {
	if state.Phase != PhaseAwaitingFeedbackRequest {
		if state.Phase != PhaseFeedbackShown {
			iv.logger.Warn("feedback requested before interview end",
				"session", state.ID,
				"phase", state.Phase.String(),
			)
		}
		return state, nil
	}

	request := []Message{
		{Role: schema.RoleSystem, Content: llm.FeedbackSystemPrompt},
		{Role: schema.RoleUser, Content: llm.BuildFeedbackRequest(state.History())},
	}

	feedback, err := iv.generator.Evaluate(ctx, request)
	if err != nil {
		iv.logger.Error("feedback generation failed", "session", state.ID, "error", err.Error())
		return nil, &GenerationError{Stage: StageFeedback, Err: err}
	}

	next := state.Clone()
	next.Feedback = feedback
	next.Phase = PhaseFeedbackShown

	iv.logger.Info("feedback generated", "session", next.ID, "length", len(feedback))
	return next, nil
}
