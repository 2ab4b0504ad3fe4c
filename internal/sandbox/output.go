package sandbox

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// maxStreamBytes caps each captured stream so a noisy command cannot exhaust
// host memory before the report-level ceiling applies.
const maxStreamBytes = 10 * 1024 * 1024

// Bound enforces the serialized output ceiling. Text within the ceiling is
// returned unchanged; otherwise the first maxBytes bytes are kept, any
// trailing partial multi-byte sequence is dropped, and a fixed marker naming
// the exceeded limit is appended. Pure function of the assembled text.
func Bound(text string, maxBytes int) string {
	if len(text) <= maxBytes {
		return text
	}

	b := []byte(text)[:maxBytes]
	for len(b) > 0 {
		r, size := utf8.DecodeLastRune(b)
		if r == utf8.RuneError && size == 1 {
			b = b[:len(b)-1]
			continue
		}
		break
	}

	return fmt.Sprintf("%s\n... Output truncated (exceeded %d bytes)", b, maxBytes)
}

// lookupEncoding resolves an IANA encoding name (e.g. "utf-8", "latin1").
func lookupEncoding(name string) (encoding.Encoding, error) {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("unknown output encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported output encoding %q", name)
	}
	return enc, nil
}

// decodeOutput decodes captured bytes with replacement-on-error semantics:
// undecodable bytes become U+FFFD rather than failing the pipeline.
func decodeOutput(enc encoding.Encoding, raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}

// limitedBuffer is a bytes.Buffer that silently discards writes past
// maxStreamBytes.
type limitedBuffer struct {
	buf bytes.Buffer
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	remaining := maxStreamBytes - b.buf.Len()
	if remaining <= 0 {
		return len(p), nil
	}
	if len(p) > remaining {
		_, _ = b.buf.Write(p[:remaining])
		return len(p), nil
	}
	return b.buf.Write(p)
}

func (b *limitedBuffer) Bytes() []byte { return b.buf.Bytes() }
