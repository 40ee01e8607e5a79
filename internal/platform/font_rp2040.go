//go:build rp2040

package platform

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var fontWhite = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

// writeFontLine draws text on an 8px text row. The baseline sits near
// the bottom of the row cell.
func writeFontLine(disp drivers.Displayer, row int16, text string) {
	y := row*8 + 7
	tinyfont.WriteLine(disp, &proggy.TinySZ8pt7b, 0, y, text, fontWhite)
}
