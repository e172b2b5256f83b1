package textdoc

import "fmt"

// Position represents a line and column location in a document.
// Both Line and Column are 1-based.
type Position struct {
	Line   int
	Column int
}

// String returns a human-readable representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Position) Compare(other Position) int {
	if p.Line < other.Line {
		return -1
	}
	if p.Line > other.Line {
		return 1
	}
	if p.Column < other.Column {
		return -1
	}
	if p.Column > other.Column {
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Position) Before(other Position) bool {
	return p.Compare(other) < 0
}

// After returns true if p comes after other.
func (p Position) After(other Position) bool {
	return p.Compare(other) > 0
}

// IsZero returns true if the position is unset.
func (p Position) IsZero() bool {
	return p.Line == 0 && p.Column == 0
}

// Range represents a span of text between two positions.
// Start is inclusive; End is exclusive in column on its final line.
type Range struct {
	Start Position
	End   Position
}

// NewRange creates a Range from start and end line/column values.
func NewRange(startLine, startColumn, endLine, endColumn int) Range {
	return Range{
		Start: Position{Line: startLine, Column: startColumn},
		End:   Position{Line: endLine, Column: endColumn},
	}
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%s-%s]", r.Start, r.End)
}

// IsZero returns true if the range is unset.
func (r Range) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// IsValid returns true if Start <= End.
func (r Range) IsValid() bool {
	return r.Start.Compare(r.End) <= 0
}

// IsSingleLine returns true if the range spans only one line.
func (r Range) IsSingleLine() bool {
	return r.Start.Line == r.End.Line
}

// Contains returns true if the given position is within the range.
func (r Range) Contains(p Position) bool {
	return p.Compare(r.Start) >= 0 && p.Compare(r.End) < 0
}

// ShiftLines returns a copy of the range with both line numbers moved
// by delta. Columns are unchanged.
func (r Range) ShiftLines(delta int) Range {
	return Range{
		Start: Position{Line: r.Start.Line + delta, Column: r.Start.Column},
		End:   Position{Line: r.End.Line + delta, Column: r.End.Column},
	}
}
