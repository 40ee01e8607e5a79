// macropad/textlines_test.go
package macropad

import (
	"testing"

	"macropad-go/types"
)

type linesDisplay struct {
	w, h     int16
	rotation int
	lines    map[int]string
	shown    int
}

func newLinesDisplay(w, h int16) *linesDisplay {
	return &linesDisplay{w: w, h: h, lines: map[int]string{}}
}

func (d *linesDisplay) Size() (int16, int16) { return d.w, d.h }

func (d *linesDisplay) SetRotation(degrees int) error {
	d.rotation = degrees
	return nil
}

func (d *linesDisplay) Command(op uint8) error { return nil }

func (d *linesDisplay) ClearBuffer() { d.lines = map[int]string{} }

func (d *linesDisplay) WriteLine(row int, text string) { d.lines[row] = text }

func (d *linesDisplay) Show() error {
	d.shown++
	return nil
}

var _ types.Display = (*linesDisplay)(nil)

func TestTextLinesTitleTakesFirstRow(t *testing.T) {
	d := newLinesDisplay(128, 64)
	tl := NewTextLines(d, "title")
	if tl.Len() != 7 {
		t.Fatalf("body rows %d, want 7 on a 64px display", tl.Len())
	}
	tl.SetLine(0, "first")
	tl.SetLine(6, "last")
	if err := tl.Show(); err != nil {
		t.Fatal(err)
	}
	if d.lines[0] != "title" || d.lines[1] != "first" || d.lines[7] != "last" {
		t.Fatalf("rendered %v", d.lines)
	}
	if d.shown != 1 {
		t.Fatalf("shown %d, want 1", d.shown)
	}
}

func TestTextLinesNoTitle(t *testing.T) {
	d := newLinesDisplay(128, 64)
	tl := NewTextLines(d, "")
	if tl.Len() != 8 {
		t.Fatalf("body rows %d, want 8", tl.Len())
	}
	tl.SetLine(0, "top")
	if err := tl.Show(); err != nil {
		t.Fatal(err)
	}
	if d.lines[0] != "top" {
		t.Fatalf("rendered %v", d.lines)
	}
}

func TestTextLinesIgnoresOutOfRange(t *testing.T) {
	d := newLinesDisplay(128, 64)
	tl := NewTextLines(d, "t")
	tl.SetLine(-1, "x")
	tl.SetLine(99, "y")
	if tl.Line(-1) != "" || tl.Line(99) != "" {
		t.Fatal("out-of-range line returned content")
	}
	tl.SetLine(2, "mid")
	if tl.Line(2) != "mid" {
		t.Fatalf("line 2 = %q", tl.Line(2))
	}
}

func TestSecondsToDuration(t *testing.T) {
	if got := secondsToDuration(0.5); got != 500000000 {
		t.Fatalf("0.5s = %v", got)
	}
	if got := secondsToDuration(2); got != 2000000000 {
		t.Fatalf("2s = %v", got)
	}
}
