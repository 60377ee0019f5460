package chat

import (
	"context"
	"net/http"

	"github.com/cecil-the-coder/chat-stream-kit/pkg/config"
	httpkit "github.com/cecil-the-coder/chat-stream-kit/pkg/http"
	"github.com/cecil-the-coder/chat-stream-kit/pkg/streaming"
)

// wireMessage is the shape a message takes in the request body.
type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the JSON body sent to the endpoint.
type chatRequest struct {
	Messages []wireMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

// composeRequest builds the outgoing HTTP request from endpoint
// configuration and the conversation history accumulated so far. The
// in-flight assistant message is excluded; only completed turns are sent.
func composeRequest(ctx context.Context, cfg *config.Config, history []Message) (*http.Request, error) {
	body := chatRequest{
		Messages: make([]wireMessage, 0, len(history)),
		Stream:   cfg.Stream != streaming.StreamModeNone,
	}
	for _, m := range history {
		body.Messages = append(body.Messages, wireMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	req, err := httpkit.NewJSONRequest(ctx, cfg.Endpoint.Method, cfg.Endpoint.URL, body)
	if err != nil {
		return nil, err
	}
	for key, value := range cfg.Endpoint.Headers {
		req.Header.Set(key, value)
	}
	if cfg.Stream != streaming.StreamModeNone {
		req.Header.Set("Accept", "text/event-stream, application/json")
	}
	return req, nil
}
