package llm

import (
	"context"
	"errors"
	"iter"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
)

// GenkitProvider is the provider prefix of models registered by GenkitBackend.
const GenkitProvider = "openrouter"

var errStreamStopped = errors.New("stream consumer stopped")

// GenkitBackend routes chat calls through Genkit. Each model name is registered
// once as a Genkit model backed by the upstream Backend.
type GenkitBackend struct {
	g        *genkit.Genkit
	upstream Backend
	models   map[string]ai.Model
}

// NewGenkitBackend initializes Genkit with models served by upstream.
func NewGenkitBackend(ctx context.Context, upstream Backend) *GenkitBackend {
	return &GenkitBackend{
		g:        genkit.Init(ctx),
		upstream: upstream,
		models:   make(map[string]ai.Model),
	}
}

// Complete generates a reply through Genkit without streaming.
func (b *GenkitBackend) Complete(ctx context.Context, model string, messages []ChatMessage) (string, error) {
	resp, err := genkit.Generate(ctx, b.g,
		ai.WithModel(b.model(model)),
		ai.WithMessages(toGenkitMessages(messages)...),
	)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// Stream generates a reply through Genkit, yielding the streamed fragments.
func (b *GenkitBackend) Stream(ctx context.Context, model string, messages []ChatMessage) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		stopped := false

		_, err := genkit.Generate(ctx, b.g,
			ai.WithModel(b.model(model)),
			ai.WithMessages(toGenkitMessages(messages)...),
			ai.WithStreaming(func(ctx context.Context, chunk *ai.ModelResponseChunk) error {
				text := chunk.Text()
				if text == "" {
					return nil
				}
				if !yield(text, nil) {
					stopped = true
					return errStreamStopped
				}
				return nil
			}),
		)

		if err != nil && !stopped {
			yield("", err)
		}
	}
}

// ModelName returns the Genkit model name registered for an upstream model.
func (b *GenkitBackend) ModelName(model string) string {
	return GenkitProvider + "/" + model
}

func (b *GenkitBackend) model(name string) ai.Model {
	if m, ok := b.models[name]; ok {
		return m
	}

	m := genkit.DefineModel(
		b.g,
		b.ModelName(name),
		&ai.ModelOptions{
			Label: name + " (via OpenRouter)",
			Supports: &ai.ModelSupports{
				Multiturn:  true,
				SystemRole: true,
			},
		},
		func(ctx context.Context, req *ai.ModelRequest, cb ai.ModelStreamCallback) (*ai.ModelResponse, error) {
			return b.serve(ctx, name, req, cb)
		},
	)
	b.models[name] = m
	return m
}

// serve answers a Genkit model request using the upstream backend.
func (b *GenkitBackend) serve(ctx context.Context, model string, req *ai.ModelRequest, cb ai.ModelStreamCallback) (*ai.ModelResponse, error) {
	messages := fromGenkitMessages(req.Messages)

	if cb == nil {
		text, err := b.upstream.Complete(ctx, model, messages)
		if err != nil {
			return nil, err
		}
		return &ai.ModelResponse{Request: req, Message: ai.NewModelTextMessage(text)}, nil
	}

	var sb strings.Builder
	for fragment, err := range b.upstream.Stream(ctx, model, messages) {
		if err != nil {
			return nil, err
		}
		sb.WriteString(fragment)
		if err := cb(ctx, &ai.ModelResponseChunk{Content: []*ai.Part{ai.NewTextPart(fragment)}}); err != nil {
			return nil, err
		}
	}

	return &ai.ModelResponse{Request: req, Message: ai.NewModelTextMessage(sb.String())}, nil
}

func toGenkitMessages(messages []ChatMessage) []*ai.Message {
	out := make([]*ai.Message, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case "system":
			out = append(out, ai.NewSystemTextMessage(m.Content))
		case "assistant":
			out = append(out, ai.NewModelTextMessage(m.Content))
		default:
			out = append(out, ai.NewUserTextMessage(m.Content))
		}
	}
	return out
}

func fromGenkitMessages(messages []*ai.Message) []ChatMessage {
	out := make([]ChatMessage, 0, len(messages))
	for _, m := range messages {
		role := "user"
		switch m.Role {
		case ai.RoleSystem:
			role = "system"
		case ai.RoleModel:
			role = "assistant"
		}
		out = append(out, ChatMessage{Role: role, Content: m.Text()})
	}
	return out
}
