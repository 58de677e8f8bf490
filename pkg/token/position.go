// Package token defines source positions and the markers carried by
// syntax tree segments.
package token

import "fmt"

// Position represents a location in the source code.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number
	Offset int // 0-based byte offset
}

// IsValid returns true if the position is valid (line > 0).
func (p Position) IsValid() bool {
	return p.Line > 0
}

func (p Position) String() string {
	return fmt.Sprintf("[L:%3d, P:%3d]", p.Line, p.Column)
}

// Advance returns the position after consuming raw.
func (p Position) Advance(raw string) Position {
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\n' {
			p.Line++
			p.Column = 1
		} else {
			p.Column++
		}
		p.Offset++
	}
	return p
}

// Span represents a range in source code.
type Span struct {
	Start Position
	End   Position
}

// Contains returns true if the span contains the given offset.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start.Offset && offset < s.End.Offset
}

// IsValid returns true if both start and end positions are valid.
func (s Span) IsValid() bool {
	return s.Start.IsValid() && s.End.IsValid()
}

// Marker locates a segment in the rendered source and maps it back to the
// pre-template source. For untemplated input both offset ranges coincide.
type Marker struct {
	Span
	SourceStart int // byte offset in the pre-template source
	SourceEnd   int
}

// NewMarker builds a marker for untemplated input, where the rendered and
// pre-template offsets are identical.
func NewMarker(start, end Position) Marker {
	return Marker{
		Span:        Span{Start: start, End: end},
		SourceStart: start.Offset,
		SourceEnd:   end.Offset,
	}
}

// Pos returns the marker's starting position.
func (m Marker) Pos() Position {
	return m.Span.Start
}
