package token

import "fmt"

// Position records the byte offsets and 1-based line number of a Token in
// its source text.
type Position struct {
	Start, End int // byte offsets into the source, End is exclusive
	Line       int // 1-based line number of Start
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d-%d", p.Line, p.Start, p.End)
}
