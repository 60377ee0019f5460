package streaming

import (
	"strings"
)

// StreamFormat represents the wire convention of a streaming response
// body. It is resolved once per response, before the first read, and is
// immutable for the lifetime of that response.
type StreamFormat string

const (
	// StreamFormatSSE decodes Server-Sent Events: blank-line separated
	// blocks of "field: value" lines, most commonly "data:".
	StreamFormatSSE StreamFormat = "sse"

	// StreamFormatJSONFramed decodes back-to-back self-delimiting JSON
	// objects with no outer envelope. Bytes outside any recognized object
	// pass through as raw text.
	StreamFormatJSONFramed StreamFormat = "json-framed"

	// StreamFormatPlainText treats the entire body as literal content.
	StreamFormatPlainText StreamFormat = "plain-text"
)

// StreamMode is the caller's configured streaming preference.
type StreamMode string

const (
	// StreamModeNone disables streaming; the response is decoded in one
	// piece by DecodeResponse.
	StreamModeNone StreamMode = "none"

	// StreamModeSSE requests streaming and expects SSE where the server
	// advertises it.
	StreamModeSSE StreamMode = "sse"

	// StreamModeAuto requests streaming and lets the response
	// content-type pick the decode strategy.
	StreamModeAuto StreamMode = "auto"
)

// DetectFormat selects the decode strategy for a streaming response from
// its content-type header. hasBody reports whether an incrementally
// readable body is present; without one the whole body is read once and
// emitted as a single delta.
func DetectFormat(contentType string, hasBody bool) StreamFormat {
	if !hasBody {
		return StreamFormatPlainText
	}
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if strings.Contains(ct, "text/event-stream") {
		return StreamFormatSSE
	}
	return StreamFormatJSONFramed
}
