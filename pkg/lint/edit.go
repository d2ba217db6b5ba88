package lint

import (
	"errors"
	"fmt"
	"slices"
)

// Edit application errors.
var (
	ErrOverlappingEdits = errors.New("overlapping edits")
	ErrEditOutOfRange   = errors.New("edit out of range")
)

// TextEdit deletes Length bytes at Start and inserts Text in their place.
type TextEdit struct {
	Start  int    `json:"start"  yaml:"start"`
	Length int    `json:"length" yaml:"length"`
	Text   string `json:"text"   yaml:"text"`
}

// End returns the offset just past the deleted range.
func (e TextEdit) End() int {
	return e.Start + e.Length
}

// Overlaps reports whether two edits touch the same bytes. Two insertions at
// the same offset also overlap since their order would be ambiguous.
func (e TextEdit) Overlaps(other TextEdit) bool {
	if e.Start == other.Start {
		return true
	}

	return e.Start < other.End() && other.Start < e.End()
}

// ApplyEdits applies non-overlapping edits to source.
func ApplyEdits(source []byte, edits []TextEdit) ([]byte, error) {
	sorted := slices.Clone(edits)
	slices.SortFunc(sorted, func(a, b TextEdit) int { return a.Start - b.Start })

	out := make([]byte, 0, len(source))
	cursor := 0

	for i, e := range sorted {
		if e.Start < 0 || e.Length < 0 || e.End() > len(source) {
			return nil, fmt.Errorf("%w: [%d,%d) in %d bytes", ErrEditOutOfRange, e.Start, e.End(), len(source))
		}

		if i > 0 && (e.Start < cursor || e.Overlaps(sorted[i-1])) {
			return nil, fmt.Errorf("%w: at offset %d", ErrOverlappingEdits, e.Start)
		}

		out = append(out, source[cursor:e.Start]...)
		out = append(out, e.Text...)
		cursor = e.End()
	}

	return append(out, source[cursor:]...), nil
}
