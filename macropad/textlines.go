package macropad

import (
	"time"

	"macropad-go/types"
)

// TextLines is a small line-oriented text surface over the display: an
// optional title row followed by numbered body lines. Set lines, then
// Show to render.
type TextLines struct {
	d     types.Display
	title string
	lines []string
	rows  int
}

// NewTextLines sizes the surface to the display height at 8 pixels per
// row.
func NewTextLines(d types.Display, title string) *TextLines {
	_, h := d.Size()
	rows := int(h / 8)
	if rows < 1 {
		rows = 1
	}
	body := rows
	if title != "" {
		body--
	}
	return &TextLines{d: d, title: title, lines: make([]string, body), rows: rows}
}

// Len returns the number of body lines.
func (t *TextLines) Len() int { return len(t.lines) }

// SetLine replaces body line i. Out-of-range indices are ignored.
func (t *TextLines) SetLine(i int, text string) {
	if i < 0 || i >= len(t.lines) {
		return
	}
	t.lines[i] = text
}

// Line returns body line i, empty for out-of-range indices.
func (t *TextLines) Line(i int) string {
	if i < 0 || i >= len(t.lines) {
		return ""
	}
	return t.lines[i]
}

// Show renders the title and body lines to the display.
func (t *TextLines) Show() error {
	t.d.ClearBuffer()
	row := 0
	if t.title != "" {
		t.d.WriteLine(row, t.title)
		row++
	}
	for _, line := range t.lines {
		t.d.WriteLine(row, line)
		row++
	}
	return t.d.Show()
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
