package core

import (
	"errors"
	"testing"

	"interviewer/internal/llm"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	baseErr := errors.New("base error")

	tests := []struct {
		name     string
		err      *ValidationError
		expected string
	}{
		{
			name: "with field",
			err: &ValidationError{
				Field:   "name",
				Message: "must be at most 40 characters",
				Err:     baseErr,
			},
			expected: "name: must be at most 40 characters",
		},
		{
			name: "without field",
			err: &ValidationError{
				Message: "invalid input",
				Err:     baseErr,
			},
			expected: "invalid input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
			assert.ErrorIs(t, tt.err, baseErr)
		})
	}
}

func TestGenerationError(t *testing.T) {
	apiErr := llm.NewAPIError(429, "quota exceeded")

	turnErr := &GenerationError{Stage: StageInterviewTurn, Turn: 2, Err: apiErr}
	assert.Equal(t, "generation failed during interview turn 2: LLM api error (code 429): generation service error: quota exceeded", turnErr.Error())

	feedbackErr := &GenerationError{Stage: StageFeedback, Err: apiErr}
	assert.Equal(t, "generation failed during feedback: LLM api error (code 429): generation service error: quota exceeded", feedbackErr.Error())

	var llmErr *llm.LLMError
	assert.True(t, errors.As(turnErr, &llmErr))
	assert.Equal(t, 429, llmErr.Code)
}
