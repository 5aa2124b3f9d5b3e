package response

import (
	"bytes"
	"fmt"
	"io"
	"unicode"

	"github.com/ShazimR/webserver/internal/headers"
	"github.com/ShazimR/webserver/internal/request"
)

const httpVersion = "HTTP/1.0"

type StatusCode int

const (
	StatusOK             StatusCode = 200
	StatusBadRequest     StatusCode = 400
	StatusNotFound       StatusCode = 404
	StatusNotImplemented StatusCode = 501
)

var (
	ErrUnrecognizedStatusCode = fmt.Errorf("unrecognized status code")
	ErrFailedToWrite          = fmt.Errorf("failed to write")
)

func (s StatusCode) Reason() (string, error) {
	switch s {
	case StatusOK:
		return "OK", nil
	case StatusBadRequest:
		return "Bad Request", nil
	case StatusNotFound:
		return "Not Found", nil
	case StatusNotImplemented:
		return "Not Implemented", nil
	default:
		return "", ErrUnrecognizedStatusCode
	}
}

type Handler func(w *Writer, req *request.Request) error

// Writer collects a whole response and hands it to the underlying writer on
// Flush.
type Writer struct {
	writer io.Writer
	buf    bytes.Buffer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{writer: w}
}

func (w *Writer) WriteStatusLine(statusCode StatusCode) error {
	reason, err := statusCode.Reason()
	if err != nil {
		return err
	}

	fmt.Fprintf(&w.buf, "%s %d %s\r\n", httpVersion, statusCode, reason)
	return nil
}

func (w *Writer) WriteHeaders(h *headers.Headers) error {
	h.ForEach(func(name, value string) {
		fmt.Fprintf(&w.buf, "%s: %s\r\n", canonicalName(name), value)
	})
	w.buf.WriteString("\r\n")

	return nil
}

func (w *Writer) WriteBody(p []byte) error {
	w.buf.Write(p)
	return nil
}

func (w *Writer) WriteResponse(statusCode StatusCode, header *headers.Headers, body []byte) error {
	if err := w.WriteStatusLine(statusCode); err != nil {
		return err
	}
	if err := w.WriteHeaders(header); err != nil {
		return err
	}
	if err := w.WriteBody(body); err != nil {
		return err
	}

	return nil
}

// Buffered returns the number of bytes waiting for Flush.
func (w *Writer) Buffered() int {
	return w.buf.Len()
}

// Flush sends everything buffered so far in a single Write, retrying only
// the remainder of a short write.
func (w *Writer) Flush() error {
	p := w.buf.Bytes()
	defer w.buf.Reset()

	writeN := 0
	for writeN < len(p) {
		n, err := w.writer.Write(p[writeN:])
		if err != nil {
			return fmt.Errorf("%w: %w", ErrFailedToWrite, err)
		}
		if n == 0 {
			return fmt.Errorf("%w", ErrFailedToWrite)
		}
		writeN += n
	}

	return nil
}

func GetDefaultHeaders() *headers.Headers {
	h := headers.NewHeaders()
	h.Set("Content-Type", "text/html")

	return h
}

// canonicalName upper-cases the first letter of each dash-separated word.
func canonicalName(h string) string {
	ret := []rune(h)
	upper := true
	for i, r := range ret {
		if upper && unicode.IsLetter(r) {
			ret[i] = unicode.ToUpper(r)
			upper = false
		}
		if r == '-' {
			upper = true
		}
	}
	return string(ret)
}
