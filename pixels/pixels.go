// Package pixels keeps a local color buffer for the 12 RGB LEDs and
// flushes it through a PixelWriter. Brightness is applied at flush time so
// the stored colors stay exact.
package pixels

import (
	"macropad-go/types"
	"macropad-go/x/mathx"
)

// Strip is the raw, physically-ordered pixel buffer.
type Strip struct {
	w          types.PixelWriter
	buf        []types.Color
	scaled     []types.Color
	brightness float32
	autoWrite  bool
}

// NewStrip creates a strip of n pixels at full brightness with auto-write
// enabled, matching the NeoPixel defaults.
func NewStrip(w types.PixelWriter, n int) *Strip {
	return &Strip{
		w:          w,
		buf:        make([]types.Color, n),
		scaled:     make([]types.Color, n),
		brightness: 1.0,
		autoWrite:  true,
	}
}

func (s *Strip) Len() int { return len(s.buf) }

// Get returns the stored (unscaled) color at physical index i.
func (s *Strip) Get(i int) types.Color { return s.buf[i] }

// Set stores a color at physical index i and flushes when auto-write is on.
func (s *Strip) Set(i int, c types.Color) {
	s.buf[i] = c
	if s.autoWrite {
		_ = s.Show()
	}
}

// Fill sets every pixel to c.
func (s *Strip) Fill(c types.Color) {
	for i := range s.buf {
		s.buf[i] = c
	}
	if s.autoWrite {
		_ = s.Show()
	}
}

// Show pushes the buffer, scaled by the global brightness, to the writer.
func (s *Strip) Show() error {
	b := s.brightness
	for i, c := range s.buf {
		s.scaled[i] = types.Color{
			R: scale(c.R, b),
			G: scale(c.G, b),
			B: scale(c.B, b),
		}
	}
	return s.w.WriteColors(s.scaled)
}

// Brightness returns the global brightness, 0..1.
func (s *Strip) Brightness() float32 { return s.brightness }

// SetBrightness sets the global brightness and reflushes when auto-write
// is on.
func (s *Strip) SetBrightness(b float32) {
	s.brightness = mathx.Clamp(b, 0, 1)
	if s.autoWrite {
		_ = s.Show()
	}
}

// AutoWrite reports whether Set/Fill flush immediately.
func (s *Strip) AutoWrite() bool { return s.autoWrite }

// SetAutoWrite switches between immediate flush and explicit Show.
func (s *Strip) SetAutoWrite(on bool) { s.autoWrite = on }

func scale(c uint8, b float32) uint8 {
	return uint8(float32(c) * b)
}

// Wheel maps 0..255 onto the color wheel red -> green -> blue -> red.
// Handy for rainbow effects across the 12 keys.
func Wheel(pos uint8) types.Color {
	switch {
	case pos < 85:
		return types.Color{R: 255 - pos*3, G: pos * 3, B: 0}
	case pos < 170:
		pos -= 85
		return types.Color{R: 0, G: 255 - pos*3, B: pos * 3}
	default:
		pos -= 170
		return types.Color{R: pos * 3, G: 0, B: 255 - pos*3}
	}
}
