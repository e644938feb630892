package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"interviewer/internal/llm"
	"interviewer/pkg/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func danaProfile() schema.Profile {
	return schema.Profile{
		Name:       "Dana",
		Experience: "3y backend",
		Skills:     "Go, SQL",
		Level:      schema.LevelSenior,
		Position:   "Data Engineer",
		Company:    "Meta",
	}
}

func newTestInterviewer(backend *llm.MockBackend) *Interviewer {
	return NewInterviewer(NewLLMGenerator(backend, "interview-model", "feedback-model"), NopLogger())
}

// startedState returns a state that has completed setup with Dana's profile.
func startedState(t *testing.T, iv *Interviewer) *InterviewState {
	t.Helper()

	state := NewInterviewState()
	require.True(t, state.SetProfile(danaProfile()))
	state = iv.CompleteSetup(state)
	require.Equal(t, PhaseInterviewing, state.Phase)
	return state
}

// answerAll submits n answers and fails the test on any error.
func answerAll(t *testing.T, iv *Interviewer, state *InterviewState, n int) *InterviewState {
	t.Helper()

	for i := 1; i <= n; i++ {
		next, err := iv.SubmitAnswer(context.Background(), state, fmt.Sprintf("answer %d", i), nil)
		require.NoError(t, err)
		state = next
	}
	return state
}

func TestInterviewer_CompleteSetup(t *testing.T) {
	t.Run("seeds interviewer persona", func(t *testing.T) {
		iv := newTestInterviewer(llm.NewMockBackend())
		state := startedState(t, iv)

		expected := "You are an HR executive that interviews an interviewee called Dana " +
			"with experience 3y backend and skills Go, SQL. " +
			"You should interview them for the position Senior Data Engineer at the company Meta."

		require.Len(t, state.Messages, 1)
		assert.Equal(t, schema.RoleSystem, state.Messages[0].Role)
		assert.Equal(t, expected, state.Messages[0].Content)
		assert.Equal(t, 0, state.UserTurnCount)
	})

	t.Run("does not mutate input state", func(t *testing.T) {
		iv := newTestInterviewer(llm.NewMockBackend())
		state := NewInterviewState()

		next := iv.CompleteSetup(state)

		assert.Equal(t, PhaseSetup, state.Phase)
		assert.Empty(t, state.Messages)
		assert.Equal(t, PhaseInterviewing, next.Phase)
	})

	t.Run("repeated setup adds no second system message", func(t *testing.T) {
		iv := newTestInterviewer(llm.NewMockBackend())
		state := startedState(t, iv)

		again := iv.CompleteSetup(state)

		assert.Same(t, state, again)
		assert.Len(t, again.Messages, 1)
	})

	t.Run("profile is frozen after setup", func(t *testing.T) {
		iv := newTestInterviewer(llm.NewMockBackend())
		state := startedState(t, iv)

		changed := danaProfile()
		changed.Name = "Eve"
		assert.False(t, state.SetProfile(changed))
		assert.Equal(t, "Dana", state.Profile.Name)
	})
}

func TestInterviewer_SubmitAnswer(t *testing.T) {
	t.Run("full interview reaches feedback request", func(t *testing.T) {
		backend := llm.NewMockBackend("q1", "q2", "q3", "q4")
		iv := newTestInterviewer(backend)
		state := startedState(t, iv)

		state = answerAll(t, iv, state, 5)

		assert.Equal(t, PhaseAwaitingFeedbackRequest, state.Phase)
		assert.Equal(t, 5, state.UserTurnCount)
		// system + 5 answers + 4 replies
		require.Len(t, state.Messages, 10)
		assert.Len(t, backend.Calls, 4, "last turn makes no generation call")

		assistant := 0
		for _, m := range state.Messages {
			if m.Role == schema.RoleAssistant {
				assistant++
			}
		}
		assert.Equal(t, 4, assistant)
		assert.Equal(t, schema.RoleUser, state.Messages[9].Role)
		assert.Equal(t, "answer 5", state.Messages[9].Content)
		assert.Equal(t, "q4", state.Messages[8].Content)
	})

	t.Run("generator receives full history with persona", func(t *testing.T) {
		backend := llm.NewMockBackend("Tell me about yourself.", "Why Meta?")
		iv := newTestInterviewer(backend)
		state := startedState(t, iv)

		state = answerAll(t, iv, state, 2)

		require.Len(t, backend.Calls, 2)
		second := backend.Calls[1]
		assert.True(t, second.Stream)
		assert.Equal(t, "interview-model", second.Model)
		assert.Equal(t, []llm.ChatMessage{
			{Role: "system", Content: llm.BuildInterviewerPrompt(danaProfile())},
			{Role: "user", Content: "answer 1"},
			{Role: "assistant", Content: "Tell me about yourself."},
			{Role: "user", Content: "answer 2"},
		}, second.Messages)
	})

	t.Run("fragments are forwarded and committed as one message", func(t *testing.T) {
		backend := llm.NewMockBackend("Hello Dana, welcome.")
		iv := newTestInterviewer(backend)
		state := startedState(t, iv)

		var fragments []string
		state, err := iv.SubmitAnswer(context.Background(), state, "Hi, I'm Dana.", func(f string) {
			fragments = append(fragments, f)
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"Hello ", "Dana, ", "welcome."}, fragments)
		require.Len(t, state.Messages, 3)
		assert.Equal(t, "Hello Dana, welcome.", state.Messages[2].Content)
		assert.Equal(t, 1, state.UserTurnCount)
	})

	t.Run("failed turn is rolled back", func(t *testing.T) {
		backend := llm.NewMockBackend("first reply", "broken reply here", "retry reply")
		backend.FailOn(2, errors.New("connection reset"))
		backend.FailAfter = 1
		iv := newTestInterviewer(backend)
		state := startedState(t, iv)

		state = answerAll(t, iv, state, 1)
		before := len(state.Messages)

		var fragments []string
		next, err := iv.SubmitAnswer(context.Background(), state, "second answer", func(f string) {
			fragments = append(fragments, f)
		})

		require.Error(t, err)
		assert.Nil(t, next)
		assert.Equal(t, []string{"broken "}, fragments)

		var genErr *GenerationError
		require.True(t, errors.As(err, &genErr))
		assert.Equal(t, StageInterviewTurn, genErr.Stage)
		assert.Equal(t, 2, genErr.Turn)
		assert.Contains(t, err.Error(), "connection reset")

		assert.Equal(t, 1, state.UserTurnCount)
		assert.Equal(t, PhaseInterviewing, state.Phase)
		assert.Len(t, state.Messages, before, "no user or partial assistant message is kept")

		next, err = iv.SubmitAnswer(context.Background(), state, "second answer", nil)
		require.NoError(t, err)
		assert.Equal(t, 2, next.UserTurnCount)
		assert.Equal(t, "retry reply", next.Messages[len(next.Messages)-1].Content)
	})

	t.Run("blank answer is ignored", func(t *testing.T) {
		backend := llm.NewMockBackend()
		iv := newTestInterviewer(backend)
		state := startedState(t, iv)

		for _, blank := range []string{"", "   ", "\t\n"} {
			next, err := iv.SubmitAnswer(context.Background(), state, blank, nil)
			require.NoError(t, err)
			assert.Same(t, state, next)
		}
		assert.Empty(t, backend.Calls)
		assert.Equal(t, 0, state.UserTurnCount)
	})

	t.Run("answer outside interview is a no-op", func(t *testing.T) {
		backend := llm.NewMockBackend()
		iv := newTestInterviewer(backend)

		setup := NewInterviewState()
		next, err := iv.SubmitAnswer(context.Background(), setup, "too early", nil)
		require.NoError(t, err)
		assert.Same(t, setup, next)
		assert.Empty(t, setup.Messages)

		done := answerAll(t, iv, startedState(t, iv), 5)
		calls := len(backend.Calls)
		next, err = iv.SubmitAnswer(context.Background(), done, "one more", nil)
		require.NoError(t, err)
		assert.Same(t, done, next)
		assert.Equal(t, 5, done.UserTurnCount)
		assert.Len(t, done.Messages, 10)
		assert.Len(t, backend.Calls, calls)
	})

	t.Run("input state is never mutated", func(t *testing.T) {
		iv := newTestInterviewer(llm.NewMockBackend("reply"))
		state := startedState(t, iv)

		next, err := iv.SubmitAnswer(context.Background(), state, "hello", nil)

		require.NoError(t, err)
		assert.Len(t, state.Messages, 1)
		assert.Equal(t, 0, state.UserTurnCount)
		assert.Len(t, next.Messages, 3)
	})

	t.Run("cancelled context fails the turn", func(t *testing.T) {
		iv := newTestInterviewer(llm.NewMockBackend("a long reply"))
		state := startedState(t, iv)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := iv.SubmitAnswer(ctx, state, "hello", nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, state.UserTurnCount)
	})
}

func TestInterviewer_WithMaxTurns(t *testing.T) {
	t.Run("custom limit", func(t *testing.T) {
		backend := llm.NewMockBackend()
		iv := newTestInterviewer(backend).WithMaxTurns(2)
		state := startedState(t, iv)

		state = answerAll(t, iv, state, 2)

		assert.Equal(t, 2, iv.MaxTurns())
		assert.Equal(t, PhaseAwaitingFeedbackRequest, state.Phase)
		assert.Len(t, backend.Calls, 1)
		assert.Len(t, state.Messages, 4)
	})

	t.Run("single turn makes no interview call", func(t *testing.T) {
		backend := llm.NewMockBackend()
		iv := newTestInterviewer(backend).WithMaxTurns(1)
		state := answerAll(t, iv, startedState(t, iv), 1)

		assert.Equal(t, PhaseAwaitingFeedbackRequest, state.Phase)
		assert.Empty(t, backend.Calls)
	})

	t.Run("non-positive limit is ignored", func(t *testing.T) {
		iv := newTestInterviewer(llm.NewMockBackend()).WithMaxTurns(0)
		assert.Equal(t, DefaultMaxTurns, iv.MaxTurns())
	})
}

func TestInterviewer_RequestFeedback(t *testing.T) {
	const feedback = "Overall Score: 7\nFeedback: Clear answers, expand on SQL tuning."

	t.Run("evaluates full history once", func(t *testing.T) {
		backend := llm.NewMockBackend("q1", "q2", "q3", "q4", feedback)
		iv := newTestInterviewer(backend)
		state := answerAll(t, iv, startedState(t, iv), 5)
		history := state.History()

		shown, err := iv.RequestFeedback(context.Background(), state)

		require.NoError(t, err)
		assert.Equal(t, PhaseFeedbackShown, shown.Phase)
		assert.Equal(t, feedback, shown.Feedback)
		assert.Equal(t, PhaseAwaitingFeedbackRequest, state.Phase, "input state is not mutated")

		require.Len(t, backend.Calls, 5)
		call := backend.Calls[4]
		assert.False(t, call.Stream)
		assert.Equal(t, "feedback-model", call.Model)
		require.Len(t, call.Messages, 2)
		assert.Equal(t, "system", call.Messages[0].Role)
		assert.Equal(t, llm.FeedbackSystemPrompt, call.Messages[0].Content)
		assert.Equal(t, "user", call.Messages[1].Role)
		assert.True(t, strings.HasSuffix(call.Messages[1].Content, history))
		assert.Contains(t, call.Messages[1].Content, "user: answer 5")
		assert.Contains(t, call.Messages[1].Content, "system: You are an HR executive")

		again, err := iv.RequestFeedback(context.Background(), shown)
		require.NoError(t, err)
		assert.Same(t, shown, again)
		assert.Len(t, backend.Calls, 5, "feedback is generated only once")
	})

	t.Run("failure keeps awaiting phase", func(t *testing.T) {
		backend := llm.NewMockBackend("q1", "q2", "q3", "q4", feedback)
		backend.FailOn(5, errors.New("quota exceeded"))
		iv := newTestInterviewer(backend)
		state := answerAll(t, iv, startedState(t, iv), 5)

		next, err := iv.RequestFeedback(context.Background(), state)

		require.Error(t, err)
		assert.Nil(t, next)
		var genErr *GenerationError
		require.True(t, errors.As(err, &genErr))
		assert.Equal(t, StageFeedback, genErr.Stage)
		assert.Equal(t, PhaseAwaitingFeedbackRequest, state.Phase)
		assert.Empty(t, state.Feedback)

		next, err = iv.RequestFeedback(context.Background(), state)
		require.NoError(t, err)
		assert.Equal(t, PhaseFeedbackShown, next.Phase)
		assert.Equal(t, feedback, next.Feedback)
	})

	t.Run("before interview end is a no-op", func(t *testing.T) {
		backend := llm.NewMockBackend()
		iv := newTestInterviewer(backend)
		state := answerAll(t, iv, startedState(t, iv), 2)
		calls := len(backend.Calls)

		next, err := iv.RequestFeedback(context.Background(), state)

		require.NoError(t, err)
		assert.Same(t, state, next)
		assert.Equal(t, PhaseInterviewing, next.Phase)
		assert.Len(t, backend.Calls, calls)
	})
}
