// Package macropad is a convenience facade over the board's built-in
// peripherals: the 12-key pad, the rotary encoder with its switch, the
// RGB pixel strip, the OLED display, the USB HID and MIDI endpoints, and
// the speaker. Peripheral handles are created lazily and cached; the
// facade itself holds no background machinery beyond the key scanner.
package macropad

import (
	"macropad-go/audio"
	"macropad-go/errcode"
	"macropad-go/hid"
	"macropad-go/mididev"
	"macropad-go/pixels"
	"macropad-go/remap"
	"macropad-go/types"
)

// Display sleep/wake opcodes, sent raw over the display control bus.
const (
	cmdDisplayOff uint8 = 0xAE
	cmdDisplayOn  uint8 = 0xAF
)

// Hardware bundles the board peripherals the facade composes. Obtain a
// populated bundle from internal/platform; tests wire fakes directly.
type Hardware struct {
	Scanner       types.ScannerFactory
	Encoder       types.Encoder
	EncoderSwitch types.Pin
	RedLED        types.Pin
	Pixels        types.PixelWriter
	Display       types.Display
	HID           types.HIDDevices
	MIDIIn        types.MIDIIn
	MIDIOut       types.MIDIOut
	Speaker       audio.Sink
	SpeakerEnable types.Pin
	OpenAudio     audio.Opener
}

// MacroPad is the aggregate device handle.
type MacroPad struct {
	cfg Config
	hw  Hardware

	rotation int
	order    [remap.Slots]uint8

	keys    types.KeyScanner
	strip   *pixels.Strip
	view    *remap.View
	session *audio.Session

	// Lazily created, cached handles. Absent until first access.
	keyboard types.Keyboard
	layout   *hid.LayoutUS
	consumer types.ConsumerControl
	mouse    types.Mouse
	midi     *mididev.MIDI
	encDeb   *Debouncer
}

// New builds the facade over hw. The key scanner, pixel view and display
// orientation are set up for cfg.Rotation; everything else is deferred to
// first use.
func New(cfg Config, hw Hardware) (*MacroPad, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	order, err := remap.PermutationFor(cfg.Rotation)
	if err != nil {
		return nil, err
	}

	m := &MacroPad{cfg: cfg, hw: hw, rotation: -1}

	if err := hw.RedLED.ConfigureOutput(false); err != nil {
		return nil, err
	}
	if err := hw.EncoderSwitch.ConfigureInput(types.PullUp); err != nil {
		return nil, err
	}

	m.strip = pixels.NewStrip(hw.Pixels, remap.Slots)
	m.strip.SetBrightness(cfg.brightness())

	m.session, err = audio.NewSession(hw.Speaker, hw.SpeakerEnable, hw.OpenAudio)
	if err != nil {
		return nil, err
	}

	keys, err := hw.Scanner.NewScanner(order)
	if err != nil {
		return nil, err
	}
	if err := hw.Display.SetRotation(cfg.Rotation); err != nil {
		keys.Close()
		return nil, err
	}
	m.keys = keys
	m.order = order
	m.view = remap.NewView(m.strip, order)
	m.rotation = cfg.Rotation
	return m, nil
}

// Rotation returns the active orientation in degrees.
func (m *MacroPad) Rotation() int { return m.rotation }

// SetRotation switches the orientation at runtime: the key scanner is
// rebuilt against the new physical ordering, the pixel view gets the new
// table and the display is rotated to match. Either the full switch
// succeeds or the facade stays in its previous, fully consistent state.
// Not safe to call concurrently with event polling.
func (m *MacroPad) SetRotation(rotation int) error {
	order, err := remap.PermutationFor(rotation)
	if err != nil {
		return err
	}
	if rotation == m.rotation {
		return nil
	}

	// The old scanner must release its pin claims before the new one can
	// take them.
	if err := m.keys.Close(); err != nil {
		prev, rerr := m.hw.Scanner.NewScanner(m.order)
		if rerr != nil {
			return &errcode.E{C: errcode.Error, Op: "macropad.SetRotation", Msg: "scanner close and rollback both failed", Err: rerr}
		}
		m.keys = prev
		return err
	}
	keys, err := m.hw.Scanner.NewScanner(order)
	if err != nil {
		// Roll back: rebuild against the previous ordering so keys,
		// pixels and display stay mutually consistent.
		prev, rerr := m.hw.Scanner.NewScanner(m.order)
		if rerr != nil {
			return &errcode.E{C: errcode.Error, Op: "macropad.SetRotation", Msg: "rotation switch and rollback both failed", Err: rerr}
		}
		m.keys = prev
		return err
	}
	if err := m.hw.Display.SetRotation(rotation); err != nil {
		keys.Close()
		prev, rerr := m.hw.Scanner.NewScanner(m.order)
		if rerr != nil {
			return &errcode.E{C: errcode.Error, Op: "macropad.SetRotation", Msg: "rotation switch and rollback both failed", Err: rerr}
		}
		m.keys = prev
		return err
	}

	m.keys = keys
	m.order = order
	m.view = remap.NewView(m.strip, order)
	m.rotation = rotation
	return nil
}

// ------------------------
// Keys and encoder
// ------------------------

// Keys is the scanner event queue. KeyNumber values are logical indices,
// already translated through the active rotation.
func (m *MacroPad) Keys() types.KeyScanner { return m.keys }

// Encoder returns the relative rotary position. The raw count is negated
// so clockwise reads as increasing.
func (m *MacroPad) Encoder() int { return -m.hw.Encoder.Position() }

// EncoderSwitch reads the momentary switch; the line is pulled up, so
// pressed is low.
func (m *MacroPad) EncoderSwitch() bool { return !m.hw.EncoderSwitch.Get() }

// EncoderSwitchDebounced returns the cached debounced view of the switch.
// Call Update once per loop iteration, then Pressed/Released.
func (m *MacroPad) EncoderSwitchDebounced() *Debouncer {
	if m.encDeb == nil {
		m.encDeb = NewDebouncer(m.hw.EncoderSwitch, true)
	}
	return m.encDeb
}

// ------------------------
// Pixels and LED
// ------------------------

// Pixels is the rotation-aware view over the 12 RGB LEDs.
func (m *MacroPad) Pixels() *remap.View { return m.view }

// RedLED reads the red LED next to the USB port.
func (m *MacroPad) RedLED() bool { return m.hw.RedLED.Get() }

// SetRedLED drives the red LED next to the USB port.
func (m *MacroPad) SetRedLED(on bool) { m.hw.RedLED.Set(on) }

// ------------------------
// USB HID
// ------------------------

// Keyboard returns the HID keyboard endpoint, created on first access.
func (m *MacroPad) Keyboard() (types.Keyboard, error) {
	if m.keyboard == nil {
		kbd, err := m.hw.HID.Keyboard()
		if err != nil {
			return nil, err
		}
		m.keyboard = kbd
	}
	return m.keyboard, nil
}

// KeyboardLayout returns the US layout writer bound to the keyboard
// endpoint, created on first access.
func (m *MacroPad) KeyboardLayout() (*hid.LayoutUS, error) {
	if m.layout == nil {
		kbd, err := m.Keyboard()
		if err != nil {
			return nil, err
		}
		m.layout = hid.NewLayoutUS(kbd)
	}
	return m.layout, nil
}

// ConsumerControl returns the HID consumer-control endpoint, created on
// first access.
func (m *MacroPad) ConsumerControl() (types.ConsumerControl, error) {
	if m.consumer == nil {
		cc, err := m.hw.HID.ConsumerControl()
		if err != nil {
			return nil, err
		}
		m.consumer = cc
	}
	return m.consumer, nil
}

// Mouse returns the HID mouse endpoint, created on first access.
func (m *MacroPad) Mouse() (types.Mouse, error) {
	if m.mouse == nil {
		ms, err := m.hw.HID.Mouse()
		if err != nil {
			return nil, err
		}
		m.mouse = ms
	}
	return m.mouse, nil
}

// ------------------------
// USB MIDI
// ------------------------

// MIDI returns the MIDI handle bound to the configured channels, created
// on first access.
func (m *MacroPad) MIDI() *mididev.MIDI {
	if m.midi == nil {
		m.midi = mididev.New(m.hw.MIDIIn, m.hw.MIDIOut, m.cfg.inChannels(), m.cfg.MIDIOutChannel)
	}
	return m.midi
}

// ------------------------
// Audio
// ------------------------

// StartTone begins a continuous tone at freq Hz. Non-blocking.
func (m *MacroPad) StartTone(freq uint32) error { return m.session.StartTone(freq) }

// PlayTone plays a tone for the given duration. Blocking.
func (m *MacroPad) PlayTone(freq uint32, duration float64) error {
	return m.session.PlayTone(freq, secondsToDuration(duration))
}

// StopTone stops the active tone.
func (m *MacroPad) StopTone() { m.session.StopTone() }

// PlayFile plays a .wav or .mp3 file to completion. Blocking.
func (m *MacroPad) PlayFile(name string) error { return m.session.PlayFile(name) }

// Audio exposes the session for state inspection.
func (m *MacroPad) Audio() *audio.Session { return m.session }

// ------------------------
// Display
// ------------------------

// Display is the raw display handle.
func (m *MacroPad) Display() types.Display { return m.hw.Display }

// DisplaySleep blanks the display and puts the controller to sleep.
func (m *MacroPad) DisplaySleep() error { return m.hw.Display.Command(cmdDisplayOff) }

// DisplayWake wakes the display controller.
func (m *MacroPad) DisplayWake() error { return m.hw.Display.Command(cmdDisplayOn) }

// DisplayText returns a line-oriented text surface with an optional
// title on the first row.
func (m *MacroPad) DisplayText(title string) *TextLines {
	return NewTextLines(m.hw.Display, title)
}

// Close releases the scanner, stops audio and blanks the pixels.
func (m *MacroPad) Close() error {
	m.session.Close()
	m.strip.SetAutoWrite(true)
	m.strip.Fill(types.Color{})
	return m.keys.Close()
}
