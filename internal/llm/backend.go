package llm

import (
	"context"
	"iter"
)

// ChatMessage is a role-tagged message sent to the generation service.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Backend generates chat replies, either in one piece or as a stream of fragments.
// The concatenation of all streamed fragments is the full reply.
type Backend interface {
	Complete(ctx context.Context, model string, messages []ChatMessage) (string, error)
	Stream(ctx context.Context, model string, messages []ChatMessage) iter.Seq2[string, error]
}

var (
	_ Backend = (*Client)(nil)
	_ Backend = (*MockBackend)(nil)
	_ Backend = (*GenkitBackend)(nil)
)
