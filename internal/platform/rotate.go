package platform

import (
	"image/color"

	"tinygo.org/x/drivers"
)

// quarterTurn presents a frame buffer turned by 90 degrees so text can
// be drawn along the short edge. cw maps logical (0,0) to the panel's
// top right corner, counter-clockwise maps it to the bottom left.
type quarterTurn struct {
	dev    drivers.Displayer
	cw     bool
	pw, ph int16
}

func (q *quarterTurn) Size() (int16, int16) { return q.ph, q.pw }

func (q *quarterTurn) SetPixel(x, y int16, c color.RGBA) {
	if q.cw {
		q.dev.SetPixel(q.pw-1-y, x, c)
		return
	}
	q.dev.SetPixel(y, q.ph-1-x, c)
}

func (q *quarterTurn) Display() error { return q.dev.Display() }
