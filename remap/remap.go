// Package remap maps logical key/pixel indices to physical positions for
// the four supported mounting orientations. The pad is a 3x4 grid read
// left-to-right, top-to-bottom; rotating the board in 90 degree steps
// permutes where each grid position lands on the hardware.
package remap

import (
	"macropad-go/errcode"
	"macropad-go/types"
)

// Slots is the number of keys/pixels on the pad.
const Slots = 12

// The four constant tables. order[logical] = physical. Selecting a
// rotation only changes which table is referenced; tables never mutate.
var (
	order0   = [Slots]uint8{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	order90  = [Slots]uint8{2, 5, 8, 11, 1, 4, 7, 10, 0, 3, 6, 9}
	order180 = [Slots]uint8{11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0}
	order270 = [Slots]uint8{9, 6, 3, 0, 10, 7, 4, 1, 11, 8, 5, 2}
)

// PermutationFor returns the physical ordering for a rotation in degrees.
// Only 0, 90, 180 and 270 are valid.
func PermutationFor(rotation int) ([Slots]uint8, error) {
	switch rotation {
	case 0:
		return order0, nil
	case 90:
		return order90, nil
	case 180:
		return order180, nil
	case 270:
		return order270, nil
	default:
		return order0, &errcode.E{
			C:   errcode.InvalidConfiguration,
			Op:  "remap.PermutationFor",
			Msg: "only 90 degree rotations are supported",
		}
	}
}

// Strip is the underlying 12-slot pixel buffer the view translates into.
type Strip interface {
	Len() int
	Get(i int) types.Color
	Set(i int, c types.Color)
	Fill(c types.Color)
	Show() error
	Brightness() float32
	SetBrightness(b float32)
	AutoWrite() bool
	SetAutoWrite(on bool)
}

// View addresses a Strip through a rotation table so that logical index 0
// is the same physical corner in every orientation. Remap affects
// addressing only; color data, brightness and flush semantics pass through
// untouched.
type View struct {
	strip Strip
	order [Slots]uint8
}

// NewView wraps strip with the given ordering.
func NewView(strip Strip, order [Slots]uint8) *View {
	return &View{strip: strip, order: order}
}

// Order returns the active table. Used to configure the key scanner with
// the matching physical pin ordering.
func (v *View) Order() [Slots]uint8 { return v.order }

// Len returns the slot count, always 12.
func (v *View) Len() int { return Slots }

// normalize applies the negative-index wraparound convention (-1 is the
// last slot) and rejects anything outside the strip.
func (v *View) normalize(i int) (int, error) {
	if i < 0 {
		i += Slots
	}
	if i < 0 || i >= Slots {
		return 0, &errcode.E{C: errcode.IndexOutOfRange, Op: "remap.View", Msg: "pixel index out of range"}
	}
	return i, nil
}

// Get reads the color at a logical index.
func (v *View) Get(i int) (types.Color, error) {
	i, err := v.normalize(i)
	if err != nil {
		return types.Color{}, err
	}
	return v.strip.Get(int(v.order[i])), nil
}

// Set writes the color at a logical index.
func (v *View) Set(i int, c types.Color) error {
	i, err := v.normalize(i)
	if err != nil {
		return err
	}
	v.strip.Set(int(v.order[i]), c)
	return nil
}

// Slice returns the colors for logical indices [from, to), clamped to the
// valid range.
func (v *View) Slice(from, to int) []types.Color {
	if from < 0 {
		from = 0
	}
	if to > Slots {
		to = Slots
	}
	if from >= to {
		return nil
	}
	out := make([]types.Color, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, v.strip.Get(int(v.order[i])))
	}
	return out
}

// Fill sets every slot to c. Ordering is irrelevant for a uniform fill.
func (v *View) Fill(c types.Color) { v.strip.Fill(c) }

// Show flushes pending changes to the hardware.
func (v *View) Show() error { return v.strip.Show() }

// Brightness passes through to the underlying strip.
func (v *View) Brightness() float32 { return v.strip.Brightness() }

// SetBrightness passes through to the underlying strip.
func (v *View) SetBrightness(b float32) { v.strip.SetBrightness(b) }

// AutoWrite passes through to the underlying strip.
func (v *View) AutoWrite() bool { return v.strip.AutoWrite() }

// SetAutoWrite passes through to the underlying strip.
func (v *View) SetAutoWrite(on bool) { v.strip.SetAutoWrite(on) }
