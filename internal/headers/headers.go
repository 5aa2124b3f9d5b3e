package headers

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

var sepSP = []byte(" ")

var (
	ErrMalformedHeader     = fmt.Errorf("malformed header")
	ErrMalformedFieldLine  = fmt.Errorf("malformed field line")
	ErrMalformedHeaderName = fmt.Errorf("malformed header name")
)

func isToken(str []byte) bool {
	if len(str) == 0 {
		return false
	}

	for _, ch := range str {
		found := false
		if ch >= 'A' && ch <= 'Z' ||
			ch >= 'a' && ch <= 'z' ||
			ch >= '0' && ch <= '9' {
			found = true
		}
		switch ch {
		case '!', '#', '$', '%', '&', '\'', '*', '+', '-', '.', '^', '_', '`', '|', '~':
			found = true
		}

		if !found {
			return false
		}
	}

	return true
}

func parseHeader(fieldLine []byte) (string, string, error) {
	parts := bytes.SplitN(fieldLine, []byte(":"), 2)
	if len(parts) != 2 {
		return "", "", ErrMalformedHeader
	}

	name := parts[0]
	value := bytes.TrimSpace(parts[1])
	if bytes.HasSuffix(name, sepSP) || bytes.HasPrefix(name, sepSP) {
		return "", "", ErrMalformedFieldLine
	}
	if !isToken(name) {
		return "", "", ErrMalformedHeaderName
	}

	return string(name), string(value), nil
}

// ParseFieldLine splits a single "Name: value" line.
func ParseFieldLine(line string) (string, string, error) {
	return parseHeader([]byte(line))
}

type Headers struct {
	headers map[string]string
}

func NewHeaders() *Headers {
	return &Headers{
		headers: map[string]string{},
	}
}

func (h *Headers) Get(name string) (string, bool) {
	str, ok := h.headers[strings.ToLower(name)]
	return str, ok
}

func (h *Headers) Replace(name string, value string) {
	name = strings.ToLower(name)
	h.headers[name] = value
}

func (h *Headers) Set(name string, value string) {
	name = strings.ToLower(name)

	if v, ok := h.headers[name]; ok {
		h.headers[name] = fmt.Sprintf("%s,%s", v, value)
	} else {
		h.headers[name] = value
	}
}

func (h *Headers) Delete(name string) {
	delete(h.headers, strings.ToLower(name))
}

func (h *Headers) Len() int {
	return len(h.headers)
}

// ForEach visits headers in name order so the wire form is stable.
func (h *Headers) ForEach(cb func(name, value string)) {
	names := make([]string, 0, len(h.headers))
	for n := range h.headers {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, n := range names {
		cb(n, h.headers[n])
	}
}
