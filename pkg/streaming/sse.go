package streaming

import (
	"strings"
)

// DoneSentinel is the reserved SSE payload that signals logical
// end-of-content without itself being content.
const DoneSentinel = "[DONE]"

const dataFieldPrefix = "data:"

// ScanSSEEvents splits buf on blank-line event boundaries and extracts the
// "data:" payloads of every complete event, in order. The unconsumed tail
// (no blank-line separator seen yet) is returned as the remainder so the
// caller can re-invoke once more text arrives.
//
// Within an event, lines that do not carry a data field (comments, other
// SSE fields, blanks) are ignored, and a payload equal to the [DONE]
// sentinel is discarded rather than emitted.
func ScanSSEEvents(buf string) ([]string, string) {
	var data []string

	for {
		sep := strings.Index(buf, "\n\n")
		if sep < 0 {
			return data, buf
		}

		event := buf[:sep]
		buf = buf[sep+2:]

		data = append(data, parseSSEEvent(event)...)
	}
}

// parseSSEEvent extracts the data payloads of a single complete event.
func parseSSEEvent(event string) []string {
	var data []string
	for _, line := range strings.Split(event, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, dataFieldPrefix) {
			continue
		}
		value := strings.TrimSpace(line[len(dataFieldPrefix):])
		if value == "" || value == DoneSentinel {
			continue
		}
		data = append(data, value)
	}
	return data
}
