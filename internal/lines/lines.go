package lines

import (
	"bytes"
	"fmt"
	"io"
)

const (
	// DefaultMaxLineLength is used when a Reader is created without a limit.
	DefaultMaxLineLength = 8 * 1024
	readChunkSize        = 512
)

var (
	ErrStreamClosedEarly = fmt.Errorf("stream closed before end of line")
	ErrLineTooLong       = fmt.Errorf("line too long")
)

// Reader splits a byte stream into lines terminated by '\n'.
type Reader struct {
	reader        io.Reader
	buf           []byte
	chunk         [readChunkSize]byte
	maxLineLength int
	err           error
}

func NewReader(r io.Reader, maxLineLength int) *Reader {
	if maxLineLength <= 0 {
		maxLineLength = DefaultMaxLineLength
	}

	return &Reader{
		reader:        r,
		buf:           make([]byte, 0, readChunkSize),
		maxLineLength: maxLineLength,
	}
}

// NextLine returns the next line with everything from the first '\r' or '\n'
// removed. The terminating '\n' is always consumed.
func (r *Reader) NextLine() (string, error) {
	if r.err == ErrLineTooLong {
		return "", r.err
	}

	for {
		if i := bytes.IndexByte(r.buf, '\n'); i != -1 {
			if lineLength(r.buf[:i]) > r.maxLineLength {
				r.err = ErrLineTooLong
				return "", r.err
			}

			text := r.buf[:i]
			if j := bytes.IndexByte(text, '\r'); j != -1 {
				text = text[:j]
			}
			line := string(text)

			n := copy(r.buf, r.buf[i+1:])
			r.buf = r.buf[:n]

			return line, nil
		}

		// one extra byte for a pending '\r'
		if len(r.buf) > r.maxLineLength+1 {
			r.err = ErrLineTooLong
			return "", r.err
		}

		if r.err != nil {
			return "", r.err
		}

		n, err := r.reader.Read(r.chunk[:])
		if n > 0 {
			r.buf = append(r.buf, r.chunk[:n]...)
		}
		if err != nil {
			r.err = fmt.Errorf("%w: %w", ErrStreamClosedEarly, err)
		}
	}
}

// Buffered reports how many bytes have been read from the stream but not yet
// returned as part of a line.
func (r *Reader) Buffered() int {
	return len(r.buf)
}

func lineLength(b []byte) int {
	if n := len(b); n > 0 && b[n-1] == '\r' {
		return n - 1
	}
	return len(b)
}
