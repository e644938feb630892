package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"
)

// Client is the LLM client for an OpenAI-compatible chat completions API.
type Client struct {
	config *Config
	http   *http.Client
}

// NewClient creates a new LLM client.
func NewClient(config *Config) (*Client, error) {
	config.SetDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Client{
		config: config,
		http: &http.Client{
			Timeout: config.Timeout,
		},
	}, nil
}

// ChatRequest represents a chat completions request.
type ChatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
	Stream   bool          `json:"stream,omitempty"`
}

// ChatChoice is a single completion candidate.
type ChatChoice struct {
	Message ChatMessage `json:"message"`
}

// ChatResponse represents a non-streaming chat completions response.
type ChatResponse struct {
	Choices []ChatChoice  `json:"choices"`
	Error   *APIErrorBody `json:"error,omitempty"`
}

// StreamChunk is one server-sent event payload of a streamed response.
type StreamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
	Error *APIErrorBody `json:"error,omitempty"`
}

// APIErrorBody is the error object some providers embed in a 200 response.
type APIErrorBody struct {
	Message string `json:"message"`
	Code    any    `json:"code,omitempty"`
}

// Complete sends the messages and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, model string, messages []ChatMessage) (string, error) {
	if model == "" {
		model = c.config.DefaultModel
	}

	resp, err := c.post(ctx, ChatRequest{Model: model, Messages: messages})
	if err != nil {
		return "", err
	}
	defer closeBody(resp)

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", NewParseError("chat completion body", err)
	}

	if chatResp.Error != nil {
		return "", NewAPIError(0, chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return "", NewAPIError(0, "no choices in response")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// Stream sends the messages with streaming enabled and yields each text fragment.
// The request is issued when iteration starts. A stream that ends without the
// [DONE] terminator yields a stream error after the fragments received so far.
func (c *Client) Stream(ctx context.Context, model string, messages []ChatMessage) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if model == "" {
			model = c.config.DefaultModel
		}

		resp, err := c.post(ctx, ChatRequest{Model: model, Messages: messages, Stream: true})
		if err != nil {
			yield("", err)
			return
		}
		defer closeBody(resp)

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			// Blank lines separate events; lines starting with ':' are keep-alive comments.
			if !strings.HasPrefix(line, "data:") {
				continue
			}

			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data == "[DONE]" {
				return
			}

			var chunk StreamChunk
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				yield("", NewParseError(data, err))
				return
			}

			if chunk.Error != nil {
				yield("", NewStreamError(chunk.Error.Message, nil))
				return
			}

			if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
				continue
			}

			if !yield(chunk.Choices[0].Delta.Content, nil) {
				return
			}
		}

		if err := scanner.Err(); err != nil {
			if isTimeout(err) {
				yield("", NewTimeoutError(err))
				return
			}
			yield("", NewStreamError("read stream", err))
			return
		}

		yield("", NewStreamError("stream ended before [DONE]", nil))
	}
}

// post makes a single HTTP call to the chat completions endpoint.
// The caller owns the returned response body.
func (c *Client) post(ctx context.Context, chatReq ChatRequest) (*http.Response, error) {
	body, err := json.Marshal(chatReq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := c.config.BaseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")
	if chatReq.Stream {
		req.Header.Set("Accept", "text/event-stream")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)

	if err != nil {
		slog.Error("LLM HTTP request failed",
			"model", chatReq.Model,
			"stream", chatReq.Stream,
			"error", err.Error(),
			"duration", duration,
		)
		if isTimeout(err) {
			return nil, NewTimeoutError(err)
		}
		return nil, NewNetworkError(err)
	}

	slog.Info("LLM HTTP request completed",
		"model", chatReq.Model,
		"stream", chatReq.Stream,
		"messages", len(chatReq.Messages),
		"status_code", resp.StatusCode,
		"duration", duration,
	)

	if resp.StatusCode != http.StatusOK {
		defer closeBody(resp)
		var errBody bytes.Buffer
		if _, err := errBody.ReadFrom(resp.Body); err != nil {
			slog.Warn("Failed to read error response body", "error", err)
			return nil, NewAPIError(resp.StatusCode, fmt.Sprintf("status %d (failed to read error body)", resp.StatusCode))
		}
		return nil, NewAPIError(resp.StatusCode, errBody.String())
	}

	return resp, nil
}

func closeBody(resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		slog.Warn("Failed to close response body", "error", err)
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
