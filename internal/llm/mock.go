package llm

import (
	"context"
	"iter"
	"slices"
	"strings"
)

// MockCall records a single call made against a MockBackend.
type MockCall struct {
	Model    string
	Messages []ChatMessage
	Stream   bool
}

// MockBackend is a scripted Backend for testing.
type MockBackend struct {
	Replies []string      // Returned in call order; the last one repeats once exhausted
	Errors  map[int]error // Error to return, keyed by 1-based call number

	// FailAfter is the number of fragments a failing Stream call yields before its
	// error, to simulate a stream breaking off midway.
	FailAfter int

	Calls []MockCall
}

// NewMockBackend creates a mock that answers with the given replies.
func NewMockBackend(replies ...string) *MockBackend {
	return &MockBackend{
		Replies: replies,
		Errors:  make(map[int]error),
	}
}

// FailOn makes the given 1-based call return err.
func (m *MockBackend) FailOn(call int, err error) *MockBackend {
	if m.Errors == nil {
		m.Errors = make(map[int]error)
	}
	m.Errors[call] = err
	return m
}

// Complete mocks a non-streaming completion.
func (m *MockBackend) Complete(ctx context.Context, model string, messages []ChatMessage) (string, error) {
	n := m.record(model, messages, false)
	if err := m.Errors[n]; err != nil {
		return "", err
	}
	return m.reply(n), nil
}

// Stream mocks a streamed completion, yielding the reply word by word.
func (m *MockBackend) Stream(ctx context.Context, model string, messages []ChatMessage) iter.Seq2[string, error] {
	n := m.record(model, messages, true)

	return func(yield func(string, error) bool) {
		chunks := strings.SplitAfter(m.reply(n), " ")

		if err := m.Errors[n]; err != nil {
			for i := 0; i < m.FailAfter && i < len(chunks); i++ {
				if !yield(chunks[i], nil) {
					return
				}
			}
			yield("", err)
			return
		}

		for _, chunk := range chunks {
			if err := ctx.Err(); err != nil {
				yield("", err)
				return
			}
			if !yield(chunk, nil) {
				return
			}
		}
	}
}

func (m *MockBackend) record(model string, messages []ChatMessage, stream bool) int {
	m.Calls = append(m.Calls, MockCall{
		Model:    model,
		Messages: slices.Clone(messages),
		Stream:   stream,
	})
	return len(m.Calls)
}

func (m *MockBackend) reply(n int) string {
	if len(m.Replies) == 0 {
		return "mock reply"
	}
	return m.Replies[min(n, len(m.Replies))-1]
}
