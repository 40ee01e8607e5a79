package types

// ------------------------
// Key events
// ------------------------

// KeyEvent is a single press or release reported by the key scanner.
// KeyNumber is a logical index 0..11; physical-to-logical translation
// happens once, when the scanner is configured, never per event.
type KeyEvent struct {
	KeyNumber int
	Pressed   bool
}

// Released reports the inverse of Pressed.
func (e KeyEvent) Released() bool { return !e.Pressed }

// ------------------------
// Colors
// ------------------------

// Color is one RGB pixel value. No alpha; the strip has none.
type Color struct {
	R, G, B uint8
}

// RGB unpacks a 0xRRGGBB hex value.
func RGB(hex uint32) Color {
	return Color{
		R: uint8(hex >> 16),
		G: uint8(hex >> 8),
		B: uint8(hex),
	}
}

// Hex packs the color back into 0xRRGGBB form.
func (c Color) Hex() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}
