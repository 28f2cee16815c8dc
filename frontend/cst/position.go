package cst

import (
	"fmt"
)

// Position is a point in the original source. Line is 1-based and
// Column is 0-based, matching what the external parser reports.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid reports whether p was set by the parser
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Positioner allows finding the location in the original source file.
// The easiest way to be a Positioner is to embed a Range
type Positioner interface {
	Pos() Position // position of first character belonging to the node
	End() Position // position of first character immediately after the node
}

// Range represents a range of positions in the source code.
type Range struct {
	Start Position
	Stop  Position
}

// Pos returns the starting position of the range.
func (r Range) Pos() Position { return r.Start }

// End returns the ending position of the range.
func (r Range) End() Position { return r.Stop }

// String returns a string representation of the range.
func (r Range) String() string {
	if r.Start == r.Stop {
		return r.Start.String()
	}
	return fmt.Sprintf("%v-%v", r.Start, r.Stop)
}

// RangeBetween creates a Range from the start of fst to the end of snd
func RangeBetween(fst, snd Positioner) Range {
	return Range{fst.Pos(), snd.End()}
}
