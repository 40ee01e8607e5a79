package macropad

import (
	"macropad-go/types"
	"macropad-go/x/timex"
)

// debounceMs is how long a level must hold before it counts as a clean
// transition.
const debounceMs = 10

// Debouncer filters a mechanical switch into clean press/release edges.
// Update samples the pin; Pressed and Released report the edge seen by
// the most recent Update.
type Debouncer struct {
	pin       types.Pin
	activeLow bool

	stable    bool
	candidate bool
	since     int64

	rose bool
	fell bool
}

// NewDebouncer wraps pin. activeLow inverts the raw level, matching a
// pulled-up switch.
func NewDebouncer(pin types.Pin, activeLow bool) *Debouncer {
	return &Debouncer{pin: pin, activeLow: activeLow, since: timex.NowMs()}
}

// Update takes one sample. Call it once per loop iteration.
func (d *Debouncer) Update() {
	level := d.pin.Get()
	if d.activeLow {
		level = !level
	}
	now := timex.NowMs()

	d.rose, d.fell = false, false
	if level != d.candidate {
		d.candidate = level
		d.since = now
		return
	}
	if level != d.stable && now-d.since >= debounceMs {
		d.stable = level
		d.rose = level
		d.fell = !level
	}
}

// Value returns the debounced switch state.
func (d *Debouncer) Value() bool { return d.stable }

// Pressed reports a clean press edge on the last Update.
func (d *Debouncer) Pressed() bool { return d.rose }

// Released reports a clean release edge on the last Update.
func (d *Debouncer) Released() bool { return d.fell }
