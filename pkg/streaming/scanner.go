// Package streaming implements the decode pipeline that turns a chat
// endpoint's response body into an ordered sequence of text deltas. It
// supports Server-Sent Events, streams of concatenated JSON objects, and
// plain text passthrough, with correct handling of reads that split
// events, objects, or multi-byte characters across chunk boundaries.
package streaming

import (
	"encoding/json"
)

// ScannedValue is one unit extracted from a JSON-framed buffer: either a
// complete top-level JSON object (Object non-nil) or a run of raw text
// found outside any object (Text non-empty).
type ScannedValue struct {
	Object json.RawMessage
	Text   string
}

// scanState tracks where the scanner is relative to string literals.
type scanState int

const (
	scanNormal scanState = iota
	scanInString
	scanInStringEscape
)

// ScanJSONObjects extracts complete top-level JSON objects from buf and
// returns them, in order, interleaved with any raw text found between
// objects. The second return value is the unconsumed remainder: the suffix
// of buf that could not yet be attributed to a complete unit.
//
// The scanner walks the buffer once with a brace-depth counter and a
// string-literal state machine, so braces and quotes inside string
// literals (including escaped quotes) never affect depth counting. A
// brace-balanced candidate that fails JSON validation stops the scan and
// is returned as part of the remainder: a fragment that looks malformed
// may simply be an object split mid-way by a read boundary, so it is
// treated as not yet complete rather than as a hard error.
//
// The function keeps no state between calls. Callers re-invoke it with
// remainder + newly received text once more bytes arrive.
func ScanJSONObjects(buf string) ([]ScannedValue, string) {
	var (
		values   []ScannedValue
		state    = scanNormal
		depth    = 0
		start    = -1 // offset of the currently open top-level object
		consumed = 0  // end of the last fully handled unit
	)

	for i := 0; i < len(buf); i++ {
		c := buf[i]

		switch state {
		case scanNormal:
			switch c {
			case '"':
				// String literals are only tracked inside objects; a stray
				// quote in raw passthrough text must not derail the scan.
				if depth > 0 {
					state = scanInString
				}
			case '{':
				if depth == 0 {
					if i > consumed {
						values = append(values, ScannedValue{Text: buf[consumed:i]})
					}
					start = i
				}
				depth++
			case '}':
				if depth == 0 {
					continue // unmatched close brace is raw text
				}
				depth--
				if depth == 0 {
					candidate := buf[start : i+1]
					if !json.Valid([]byte(candidate)) {
						return values, buf[start:]
					}
					values = append(values, ScannedValue{Object: json.RawMessage(candidate)})
					consumed = i + 1
					start = -1
				}
			}

		case scanInString:
			switch c {
			case '\\':
				state = scanInStringEscape
			case '"':
				state = scanNormal
			}

		case scanInStringEscape:
			// The escaped character is consumed without interpretation, so
			// \" does not terminate the string.
			state = scanInString
		}
	}

	if depth > 0 {
		// An object started but has not closed; everything from its start
		// offset onward is carried forward.
		return values, buf[start:]
	}
	if len(buf) > consumed {
		values = append(values, ScannedValue{Text: buf[consumed:]})
	}
	return values, ""
}
