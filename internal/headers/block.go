package headers

import "fmt"

// DefaultMaxLines is the header-count ceiling used when none is configured.
const DefaultMaxLines = 256

var ErrHeaderCountExceeded = fmt.Errorf("header count exceeded")

// Block holds the raw lines of a request head in arrival order. The first
// line is the request line.
type Block struct {
	lines    []string
	maxLines int
}

func NewBlock(maxLines int) *Block {
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}

	return &Block{
		lines:    []string{},
		maxLines: maxLines,
	}
}

func (b *Block) Append(line string) error {
	if len(b.lines) >= b.maxLines {
		return fmt.Errorf("%w: limit is %d", ErrHeaderCountExceeded, b.maxLines)
	}

	b.lines = append(b.lines, line)
	return nil
}

func (b *Block) Len() int {
	return len(b.lines)
}

func (b *Block) Lines() []string {
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

func (b *Block) RequestLine() (string, bool) {
	if len(b.lines) == 0 {
		return "", false
	}
	return b.lines[0], true
}

// Fields parses the lines after the request line. Lines that are not valid
// field lines are skipped; the result is only used for diagnostics.
func (b *Block) Fields() *Headers {
	h := NewHeaders()
	if len(b.lines) < 2 {
		return h
	}

	for _, line := range b.lines[1:] {
		name, value, err := ParseFieldLine(line)
		if err != nil {
			continue
		}
		h.Set(name, value)
	}

	return h
}
