package streaming

import (
	"encoding/json"
	"strings"
)

// DefaultReplyKey is the top-level field read from a non-streaming JSON
// response when the caller has not configured one.
const DefaultReplyKey = "reply"

// NoReplyText is the placeholder substituted when a response decodes to
// nothing, so the user always sees a terminal assistant bubble.
const NoReplyText = "No reply"

// DecodeResponse decodes a fully buffered, non-streaming response body.
//
// When the content-type indicates JSON the body is parsed and the
// configured top-level field (replyKey, defaulting to "reply") is read; a
// parse failure or a missing/non-string field yields an empty result
// rather than an error. Any other content-type uses the raw body text
// unmodified. An empty result is replaced with the NoReplyText
// placeholder.
func DecodeResponse(body []byte, contentType, replyKey string) string {
	if replyKey == "" {
		replyKey = DefaultReplyKey
	}

	var text string
	if isJSONContentType(contentType) {
		var parsed map[string]interface{}
		if err := json.Unmarshal(body, &parsed); err == nil {
			if value, ok := parsed[replyKey].(string); ok {
				text = value
			}
		}
	} else {
		text = string(body)
	}

	if text == "" {
		return NoReplyText
	}
	return text
}

func isJSONContentType(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	return strings.Contains(ct, "json")
}
