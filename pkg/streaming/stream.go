package streaming

import (
	"encoding/json"
	"fmt"
	"io"
	"unicode/utf8"
)

const readChunkSize = 4096

// TextStream yields successive content deltas decoded from a streaming
// response body. Implementations return io.EOF from Next when the stream
// ends normally.
type TextStream interface {
	Next() (string, error)
	Close() error
}

// Stream implements TextStream for a single response body. It drives the
// read loop: each Next call drains already-extracted deltas first, then
// reads more bytes, folds them through a stateful UTF-8 boundary buffer,
// appends the decoded text to the carry-over buffer, and runs the
// format-specific parser over it.
//
// A Stream is owned by exactly one consumer; it is not safe for
// concurrent use. Create a new Stream for each response.
type Stream struct {
	body   io.ReadCloser
	format StreamFormat

	chunk   []byte   // read scratch space
	carry   []byte   // trailing bytes of an incomplete UTF-8 sequence
	buf     string   // decoded text not yet attributed to a complete unit
	pending []string // extracted deltas not yet returned
	eof     bool
}

// NewStream creates a stream over body decoding the given format. The
// format must have been resolved with DetectFormat (or chosen explicitly)
// before the first read.
func NewStream(body io.ReadCloser, format StreamFormat) *Stream {
	return &Stream{
		body:   body,
		format: format,
		chunk:  make([]byte, readChunkSize),
	}
}

// Format returns the wire convention this stream decodes.
func (s *Stream) Format() StreamFormat {
	return s.format
}

// Next returns the next content delta, or io.EOF once the underlying body
// is exhausted and all extracted units have been delivered. No unit is
// delivered twice, and no received byte is dropped except a trailing
// incomplete unit at stream end.
func (s *Stream) Next() (string, error) {
	for {
		if len(s.pending) > 0 {
			delta := s.pending[0]
			s.pending = s.pending[1:]
			return delta, nil
		}
		if s.eof {
			return "", io.EOF
		}

		n, err := s.body.Read(s.chunk)
		if n > 0 {
			s.buf += s.decodeChunk(s.chunk[:n])
			s.parse()
		}
		if err != nil {
			if err == io.EOF {
				s.eof = true
				s.finish()
				continue
			}
			return "", fmt.Errorf("error reading stream: %w", err)
		}
	}
}

// Close releases the underlying body. Pending deltas already extracted
// remain retrievable via Next.
func (s *Stream) Close() error {
	if s.body == nil {
		return nil
	}
	return s.body.Close()
}

// decodeChunk appends p to the carry buffer and returns the longest prefix
// that ends on a rune boundary. Bytes of a multi-byte sequence split by
// the read are withheld until the rest arrives, so per-chunk decoding
// never mangles characters.
func (s *Stream) decodeChunk(p []byte) string {
	s.carry = append(s.carry, p...)

	cut := len(s.carry)
	for i := len(s.carry) - 1; i >= 0 && i >= len(s.carry)-utf8.UTFMax; i-- {
		b := s.carry[i]
		if b < utf8.RuneSelf {
			break // ASCII byte, everything up to the end is complete
		}
		if utf8.RuneStart(b) {
			if !utf8.FullRune(s.carry[i:]) {
				cut = i
			}
			break
		}
	}

	text := string(s.carry[:cut])
	s.carry = append(s.carry[:0], s.carry[cut:]...)
	return text
}

// parse runs the format-specific parser over the buffer, queues every
// extracted unit, and replaces the buffer with the returned remainder.
func (s *Stream) parse() {
	switch s.format {
	case StreamFormatSSE:
		data, rest := ScanSSEEvents(s.buf)
		s.buf = rest
		s.pending = append(s.pending, data...)

	case StreamFormatJSONFramed:
		values, rest := ScanJSONObjects(s.buf)
		s.buf = rest
		for _, v := range values {
			if delta, ok := frameContent(v); ok {
				s.pending = append(s.pending, delta)
			}
		}

	default:
		// Plain text passthrough never withholds bytes.
		if s.buf != "" {
			s.pending = append(s.pending, s.buf)
			s.buf = ""
		}
	}
}

// finish handles stream end: any bytes still held by the UTF-8 boundary
// buffer are flushed as-is and the parser runs one last time. For SSE the
// residual buffer is treated as a final, implicitly terminated event. For
// JSON-framed input a still-incomplete trailing fragment is discarded
// rather than delivered; truncated streams lose that fragment by design.
func (s *Stream) finish() {
	if len(s.carry) > 0 {
		s.buf += string(s.carry)
		s.carry = nil
	}
	s.parse()

	switch s.format {
	case StreamFormatSSE:
		s.pending = append(s.pending, parseSSEEvent(s.buf)...)
	case StreamFormatJSONFramed:
		// Pending fragment dropped.
	}
	s.buf = ""
}

// contentFrame is the JSON object shape that contributes text in a
// JSON-framed stream. Objects of any other shape are ignored.
type contentFrame struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// frameContent computes the delta contributed by one scanned value: raw
// text passes through verbatim, and objects contribute their content only
// when they match the {"type":"item","content":...} shape.
func frameContent(v ScannedValue) (string, bool) {
	if v.Object == nil {
		return v.Text, v.Text != ""
	}
	var frame contentFrame
	if err := json.Unmarshal(v.Object, &frame); err != nil {
		return "", false
	}
	if frame.Type != "item" || frame.Content == "" {
		return "", false
	}
	return frame.Content, true
}
