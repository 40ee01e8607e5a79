package types

// Peripheral capability surfaces consumed by the facade. Implementations
// live in internal/platform: machine-backed on rp2040 builds, fakes on host.

// ------------------------
// GPIO
// ------------------------

type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

// Pin is a single digital I/O line.
type Pin interface {
	ConfigureInput(pull Pull) error
	ConfigureOutput(initial bool) error
	Set(level bool)
	Get() bool
}

// ------------------------
// Key scanner
// ------------------------

// KeyScanner owns the twelve key inputs and produces debounced events.
// Close releases the underlying pin claims so the scanner can be rebuilt
// against a different physical ordering.
type KeyScanner interface {
	// NextEvent pops the oldest queued event. ok is false when the queue
	// is empty.
	NextEvent() (ev KeyEvent, ok bool)
	Close() error
}

// ScannerFactory builds a KeyScanner against a physical pin ordering:
// the scanner's event KeyNumber i corresponds to physical key order[i].
type ScannerFactory interface {
	NewScanner(order [12]uint8) (KeyScanner, error)
}

// ------------------------
// Rotary encoder
// ------------------------

// Encoder reports a monotonic relative rotation count.
type Encoder interface {
	Position() int
}

// ------------------------
// Pixels
// ------------------------

// PixelWriter pushes one frame of raw color data to the strip hardware.
// Brightness scaling is applied by the caller before Write.
type PixelWriter interface {
	WriteColors(buf []Color) error
}

// ------------------------
// Display
// ------------------------

// Display is the built-in monochrome OLED, consumed as an opaque drawable
// surface plus a raw command channel for sleep/wake opcodes.
type Display interface {
	Size() (w, h int16)
	SetRotation(degrees int) error
	// Command sends a single raw opcode over the display control bus.
	Command(op uint8) error
	ClearBuffer()
	WriteLine(row int, text string)
	Show() error
}

// ------------------------
// USB HID endpoints
// ------------------------

// Keycode is a USB HID keyboard usage code.
type Keycode uint8

// ConsumerCode is a USB HID consumer-control usage.
type ConsumerCode uint16

// MouseButton is a bitmask of mouse buttons.
type MouseButton uint8

const (
	MouseLeft   MouseButton = 1 << 0
	MouseRight  MouseButton = 1 << 1
	MouseMiddle MouseButton = 1 << 2
)

// Keyboard is an opaque HID keyboard endpoint. Report encoding belongs to
// the implementation.
type Keyboard interface {
	Press(codes ...Keycode) error
	Release(codes ...Keycode) error
	ReleaseAll() error
}

// ConsumerControl is an opaque HID consumer-control endpoint.
type ConsumerControl interface {
	Send(code ConsumerCode) error
	Release() error
}

// Mouse is an opaque HID mouse endpoint.
type Mouse interface {
	Move(dx, dy, wheel int) error
	Press(buttons MouseButton) error
	Release(buttons MouseButton) error
	Click(buttons MouseButton) error
}

// HIDDevices exposes the board's HID endpoints for lazy construction.
type HIDDevices interface {
	Keyboard() (Keyboard, error)
	ConsumerControl() (ConsumerControl, error)
	Mouse() (Mouse, error)
}

// ------------------------
// USB MIDI ports
// ------------------------

// MIDIOut accepts complete MIDI messages for the host.
type MIDIOut interface {
	Send(msg []byte) error
}

// MIDIIn yields complete MIDI messages from the host. ok is false when no
// message is pending.
type MIDIIn interface {
	Receive() (msg []byte, ok bool)
}
