package request

import (
	"fmt"
	"io"
	"strings"

	"github.com/ShazimR/webserver/internal/headers"
	"github.com/ShazimR/webserver/internal/lines"
)

type RequestLine struct {
	HttpVersion   string
	RequestTarget string
	Method        string
}

// String encodes the request line as it appears on the wire, without CRLF.
func (rl RequestLine) String() string {
	return fmt.Sprintf("%s %s %s", rl.Method, rl.RequestTarget, rl.HttpVersion)
}

type Request struct {
	RequestLine RequestLine
	Headers     *headers.Block
}

var ErrMalformedRequestLine = fmt.Errorf("malformed request-line")

func isSP(r rune) bool {
	return r == ' '
}

// ParseRequestLine splits line on runs of spaces. At least three tokens are
// required; anything past the third is ignored.
func ParseRequestLine(line string) (*RequestLine, error) {
	parts := strings.FieldsFunc(line, isSP)
	if len(parts) < 3 {
		return nil, ErrMalformedRequestLine
	}

	return &RequestLine{
		Method:        parts[0],
		RequestTarget: parts[1],
		HttpVersion:   parts[2],
	}, nil
}

// FromBlock parses the first line of a captured header block.
func FromBlock(b *headers.Block) (*Request, error) {
	line, ok := b.RequestLine()
	if !ok {
		return nil, ErrMalformedRequestLine
	}

	rl, err := ParseRequestLine(line)
	if err != nil {
		return nil, err
	}

	return &Request{
		RequestLine: *rl,
		Headers:     b,
	}, nil
}

// ReadHead appends lines from lr to b until the blank line that ends the
// request head. Errors come from lr or b unchanged.
func ReadHead(lr *lines.Reader, b *headers.Block) error {
	for {
		line, err := lr.NextLine()
		if err != nil {
			return err
		}

		if line == "" {
			return nil
		}

		if err := b.Append(line); err != nil {
			return err
		}
	}
}

// RequestFromReader reads one request head from reader and parses its
// request line.
func RequestFromReader(reader io.Reader, maxLineLength, maxHeaderLines int) (*Request, error) {
	b := headers.NewBlock(maxHeaderLines)
	if err := ReadHead(lines.NewReader(reader, maxLineLength), b); err != nil {
		return nil, err
	}

	return FromBlock(b)
}
