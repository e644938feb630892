package core

import (
	"context"
	"iter"

	"interviewer/internal/llm"
)

// Generator abstracts the text-generation service for testability.
type Generator interface {
	// StreamReply streams the interviewer's next reply to the conversation so far.
	StreamReply(ctx context.Context, messages []Message) iter.Seq2[string, error]
	// Evaluate returns the evaluator's reply to a feedback request in one piece.
	Evaluate(ctx context.Context, messages []Message) (string, error)
}

// LLMGenerator implements Generator on top of an llm.Backend.
type LLMGenerator struct {
	backend        llm.Backend
	interviewModel string
	feedbackModel  string
}

// NewLLMGenerator creates a Generator that uses separate models for the
// interview turns and the final evaluation. Empty model names fall back to
// the backend's default model.
func NewLLMGenerator(backend llm.Backend, interviewModel, feedbackModel string) *LLMGenerator {
	return &LLMGenerator{
		backend:        backend,
		interviewModel: interviewModel,
		feedbackModel:  feedbackModel,
	}
}

func (g *LLMGenerator) StreamReply(ctx context.Context, messages []Message) iter.Seq2[string, error] {
	return g.backend.Stream(ctx, g.interviewModel, toChatMessages(messages))
}

func (g *LLMGenerator) Evaluate(ctx context.Context, messages []Message) (string, error) {
	return g.backend.Complete(ctx, g.feedbackModel, toChatMessages(messages))
}

// toChatMessages keeps only role and content.
func toChatMessages(messages []Message) []llm.ChatMessage {
	out := make([]llm.ChatMessage, len(messages))
	for i, m := range messages {
		out[i] = llm.ChatMessage{Role: m.Role, Content: m.Content}
	}
	return out
}
