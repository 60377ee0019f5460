package chat

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/cecil-the-coder/chat-stream-kit/pkg/config"
	httpkit "github.com/cecil-the-coder/chat-stream-kit/pkg/http"
	"github.com/cecil-the-coder/chat-stream-kit/pkg/ratelimit"
	"github.com/cecil-the-coder/chat-stream-kit/pkg/streaming"
)

// ErrorReplyText is the fixed assistant content substituted when a
// request cannot be completed. The failure is local to the one request;
// prior history is never touched.
const ErrorReplyText = "Error contacting endpoint"

var (
	// ErrBusy is returned while a previous request is still in flight:
	// exactly one request may be outstanding at a time.
	ErrBusy = errors.New("a request is already in flight")

	// ErrEmptyInput is returned when the input trims to nothing.
	ErrEmptyInput = errors.New("input is empty")

	// ErrNoEndpoint is returned when no endpoint URL is configured.
	ErrNoEndpoint = errors.New("no endpoint configured")

	// ErrRateLimited is returned when the client-side limiter denies the
	// send.
	ErrRateLimited = errors.New("rate limit exceeded")
)

const deltaBufferSize = 64

// Session owns one conversation: the ordered message history and the
// in-flight state of at most one outstanding request. All mutation of the
// history goes through the session; deltas reach the UI through the
// channel returned by Send, in extraction order.
type Session struct {
	cfg     *config.Config
	client  *httpkit.Client
	limiter *ratelimit.Limiter
	log     zerolog.Logger

	mu      sync.Mutex
	history []Message
	sending bool
}

// NewSession creates a session over cfg and client. limiter may be nil to
// disable client-side pacing.
func NewSession(cfg *config.Config, client *httpkit.Client, limiter *ratelimit.Limiter, log zerolog.Logger) *Session {
	return &Session{
		cfg:     cfg,
		client:  client,
		limiter: limiter,
		log:     log,
	}
}

// Send submits user input. It appends the user message and an empty
// assistant message to the history, issues the request, and returns a
// channel that delivers content deltas in the exact order they are
// decoded; the channel closes when the response ends.
//
// Send is a no-op returning a sentinel error when a request is already in
// flight, the input trims to empty, no endpoint is configured, or the
// rate limiter denies the send: no message is appended and no request is
// issued.
func (s *Session) Send(ctx context.Context, input string) (<-chan Delta, error) {
	input = strings.TrimSpace(input)

	s.mu.Lock()
	if s.sending {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	if input == "" {
		s.mu.Unlock()
		return nil, ErrEmptyInput
	}
	if s.cfg.Endpoint.URL == "" {
		s.mu.Unlock()
		return nil, ErrNoEndpoint
	}
	if s.limiter != nil && !s.limiter.Allow(s.cfg.Endpoint.URL) {
		s.mu.Unlock()
		return nil, ErrRateLimited
	}

	s.sending = true
	s.history = append(s.history, NewMessage(RoleUser, input))

	// The assistant message exists before the first byte arrives so the
	// UI can show an in-progress bubble immediately.
	reply := NewMessage(RoleAssistant, "")
	s.history = append(s.history, reply)
	index := len(s.history) - 1
	snapshot := make([]Message, index)
	copy(snapshot, s.history[:index])
	s.mu.Unlock()

	deltas := make(chan Delta, deltaBufferSize)
	go s.run(ctx, index, reply.ID, snapshot, deltas)
	return deltas, nil
}

// Sending reports whether a request is currently in flight.
func (s *Session) Sending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sending
}

// History returns a snapshot of the conversation in insertion order.
func (s *Session) History() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.history))
	copy(out, s.history)
	return out
}

// run drives one request to completion. Every exit path clears the
// sending flag and closes the delta channel so the UI stays usable.
func (s *Session) run(ctx context.Context, index int, id string, snapshot []Message, deltas chan<- Delta) {
	defer close(deltas)
	defer func() {
		s.mu.Lock()
		s.sending = false
		s.mu.Unlock()
	}()

	cancel := func() {}
	if s.cfg.Stream == streaming.StreamModeNone {
		if timeout := s.cfg.Endpoint.TimeoutSeconds; timeout > 0 {
			ctx, cancel = context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
		}
	}
	defer cancel()

	req, err := composeRequest(ctx, s.cfg, snapshot)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to compose chat request")
		s.fail(index, id, deltas)
		return
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Error().Err(err).Str("url", s.cfg.Endpoint.URL).Msg("chat request failed")
		s.fail(index, id, deltas)
		return
	}
	if err := httpkit.CheckResponse(resp); err != nil {
		s.log.Error().Err(err).Msg("chat endpoint returned an error")
		s.fail(index, id, deltas)
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if s.cfg.Stream == streaming.StreamModeNone {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			s.log.Error().Err(err).Msg("failed to read response body")
			s.fail(index, id, deltas)
			return
		}
		text := streaming.DecodeResponse(body, resp.Header.Get("Content-Type"), s.cfg.ResponseKey)
		s.apply(index, id, text, deltas)
		return
	}

	format := streaming.DetectFormat(resp.Header.Get("Content-Type"), resp.Body != nil)
	stream := streaming.NewStream(resp.Body, format)

	for {
		text, err := stream.Next()
		if err == io.EOF {
			return
		}
		if err != nil {
			// Content already appended stays; the message is finalized
			// rather than rolled back.
			s.log.Warn().Err(err).Msg("stream ended with a read error")
			if s.contentOf(index) == "" {
				s.fail(index, id, deltas)
			}
			return
		}
		if text == "" {
			continue
		}
		s.apply(index, id, text, deltas)
	}
}

// apply concatenates text onto the assistant message (always append,
// never replace) and forwards the delta to the consumer.
func (s *Session) apply(index int, id, text string, deltas chan<- Delta) {
	s.mu.Lock()
	s.history[index].Content += text
	s.mu.Unlock()

	deltas <- Delta{MessageID: id, Text: text}
}

// fail finalizes the in-progress bubble with the fixed error text when
// nothing was appended yet.
func (s *Session) fail(index int, id string, deltas chan<- Delta) {
	if s.contentOf(index) != "" {
		return
	}
	s.apply(index, id, ErrorReplyText, deltas)
}

func (s *Session) contentOf(index int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history[index].Content
}
