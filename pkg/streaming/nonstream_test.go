package streaming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeResponse(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		contentType string
		replyKey    string
		want        string
	}{
		{
			name:        "json with reply field",
			body:        `{"reply": "hi"}`,
			contentType: "application/json",
			replyKey:    "reply",
			want:        "hi",
		},
		{
			name:        "json missing field",
			body:        `{}`,
			contentType: "application/json",
			replyKey:    "reply",
			want:        NoReplyText,
		},
		{
			name:        "json non-string field",
			body:        `{"reply": 42}`,
			contentType: "application/json",
			replyKey:    "reply",
			want:        NoReplyText,
		},
		{
			name:        "custom key",
			body:        `{"answer": "sure"}`,
			contentType: "application/json; charset=utf-8",
			replyKey:    "answer",
			want:        "sure",
		},
		{
			name:        "default key when unset",
			body:        `{"reply": "default"}`,
			contentType: "application/json",
			want:        "default",
		},
		{
			name:        "malformed json treated as empty",
			body:        `{"reply": `,
			contentType: "application/json",
			replyKey:    "reply",
			want:        NoReplyText,
		},
		{
			name:        "non-json raw text",
			body:        "just text",
			contentType: "text/plain",
			want:        "just text",
		},
		{
			name:        "empty non-json body",
			body:        "",
			contentType: "text/plain",
			want:        NoReplyText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeResponse([]byte(tt.body), tt.contentType, tt.replyKey)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, StreamFormatSSE, DetectFormat("text/event-stream", true))
	assert.Equal(t, StreamFormatSSE, DetectFormat("text/event-stream; charset=utf-8", true))
	assert.Equal(t, StreamFormatJSONFramed, DetectFormat("application/json", true))
	assert.Equal(t, StreamFormatJSONFramed, DetectFormat("", true))
	assert.Equal(t, StreamFormatPlainText, DetectFormat("text/event-stream", false))
}
