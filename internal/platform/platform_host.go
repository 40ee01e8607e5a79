//go:build !rp2040

package platform

import (
	"io"
	"os"

	"macropad-go/audio"
	"macropad-go/errcode"
	"macropad-go/macropad"
	"macropad-go/types"
)

// DefaultHardware returns a host bundle: inert fakes for the board-only
// peripherals, a real oto speaker sink, and os.Open for audio files.
func DefaultHardware() (macropad.Hardware, error) {
	sink, err := NewOtoSink()
	if err != nil {
		return macropad.Hardware{}, err
	}
	return macropad.Hardware{
		Scanner:       NewFakeScannerFactory(),
		Encoder:       &FakeEncoder{},
		EncoderSwitch: NewFakePin(true),
		RedLED:        NewFakePin(false),
		Pixels:        &FakePixelWriter{},
		Display:       NewFakeDisplay(128, 64),
		HID:           &FakeHID{},
		MIDIIn:        &FakeMIDIIn{},
		MIDIOut:       &FakeMIDIOut{},
		Speaker:       sink,
		SpeakerEnable: NewFakePin(false),
		OpenAudio: func(name string) (io.ReadCloser, error) {
			return os.Open(name)
		},
	}, nil
}

// ----------------------------- GPIO (host) -----------------------------------

// FakePin implements types.Pin for host-side tests.
type FakePin struct {
	level   bool
	modeOut bool
}

// NewFakePin returns a pin at the given level. A pulled-up switch idles
// high.
func NewFakePin(level bool) *FakePin { return &FakePin{level: level} }

func (p *FakePin) ConfigureInput(_ types.Pull) error {
	p.modeOut = false
	return nil
}

func (p *FakePin) ConfigureOutput(initial bool) error {
	p.modeOut = true
	p.level = initial
	return nil
}

func (p *FakePin) Set(level bool) { p.level = level }
func (p *FakePin) Get() bool      { return p.level }

// Drive sets the level from a test, as if the hardware moved.
func (p *FakePin) Drive(level bool) { p.level = level }

// Output reports whether the pin was configured as an output.
func (p *FakePin) Output() bool { return p.modeOut }

// ----------------------------- Key scanner (host) -----------------------------

// FakeScannerFactory builds FakeScanners and records every ordering it
// was asked for. FailNext makes the next NewScanner call fail, for
// rotation-switch rollback tests.
type FakeScannerFactory struct {
	Orders   [][12]uint8
	FailNext bool
	Built    []*FakeScanner
}

func NewFakeScannerFactory() *FakeScannerFactory { return &FakeScannerFactory{} }

func (f *FakeScannerFactory) NewScanner(order [12]uint8) (types.KeyScanner, error) {
	if f.FailNext {
		f.FailNext = false
		return nil, &errcode.E{C: errcode.PinInUse, Op: "platform.NewScanner", Msg: "scanner init failed"}
	}
	f.Orders = append(f.Orders, order)
	s := &FakeScanner{order: order}
	f.Built = append(f.Built, s)
	return s, nil
}

// Last returns the most recently built scanner.
func (f *FakeScannerFactory) Last() *FakeScanner {
	if len(f.Built) == 0 {
		return nil
	}
	return f.Built[len(f.Built)-1]
}

// FakeScanner queues events. Tests press physical keys; the scanner
// translates them to logical indices through its ordering, exactly once,
// at the configuration boundary.
type FakeScanner struct {
	order  [12]uint8
	queue  []types.KeyEvent
	closed bool

	// CloseErr makes the next Close call fail, leaving the claims held.
	CloseErr error
}

// Order returns the physical ordering the scanner was built with.
func (s *FakeScanner) Order() [12]uint8 { return s.order }

// Closed reports whether the scanner released its claims.
func (s *FakeScanner) Closed() bool { return s.closed }

// PressPhysical queues a press of the physical key at index phys.
func (s *FakeScanner) PressPhysical(phys uint8) { s.push(phys, true) }

// ReleasePhysical queues a release of the physical key at index phys.
func (s *FakeScanner) ReleasePhysical(phys uint8) { s.push(phys, false) }

func (s *FakeScanner) push(phys uint8, pressed bool) {
	for logical, p := range s.order {
		if p == phys {
			s.queue = append(s.queue, types.KeyEvent{KeyNumber: logical, Pressed: pressed})
			return
		}
	}
}

func (s *FakeScanner) NextEvent() (types.KeyEvent, bool) {
	if len(s.queue) == 0 {
		return types.KeyEvent{}, false
	}
	ev := s.queue[0]
	s.queue = s.queue[1:]
	return ev, true
}

func (s *FakeScanner) Close() error {
	if s.CloseErr != nil {
		err := s.CloseErr
		s.CloseErr = nil
		return err
	}
	s.closed = true
	return nil
}

// ----------------------------- Encoder (host) ---------------------------------

// FakeEncoder reports a settable position.
type FakeEncoder struct {
	Pos int
}

func (e *FakeEncoder) Position() int { return e.Pos }

// ----------------------------- Pixels (host) ----------------------------------

// FakePixelWriter records the frames pushed to it.
type FakePixelWriter struct {
	Frames [][]types.Color
}

func (w *FakePixelWriter) WriteColors(buf []types.Color) error {
	frame := make([]types.Color, len(buf))
	copy(frame, buf)
	w.Frames = append(w.Frames, frame)
	return nil
}

// LastFrame returns the most recent frame, nil before the first flush.
func (w *FakePixelWriter) LastFrame() []types.Color {
	if len(w.Frames) == 0 {
		return nil
	}
	return w.Frames[len(w.Frames)-1]
}

// ----------------------------- Display (host) ---------------------------------

// FakeDisplay records rotation, raw commands and rendered lines.
type FakeDisplay struct {
	W, H     int16
	Rotation int
	Commands []uint8
	Lines    map[int]string
	Shown    int

	FailRotation bool
}

func NewFakeDisplay(w, h int16) *FakeDisplay {
	return &FakeDisplay{W: w, H: h, Lines: map[int]string{}}
}

func (d *FakeDisplay) Size() (int16, int16) { return d.W, d.H }

func (d *FakeDisplay) SetRotation(degrees int) error {
	if d.FailRotation {
		return &errcode.E{C: errcode.Error, Op: "platform.FakeDisplay", Msg: "rotation failed"}
	}
	d.Rotation = degrees
	return nil
}

func (d *FakeDisplay) Command(op uint8) error {
	d.Commands = append(d.Commands, op)
	return nil
}

func (d *FakeDisplay) ClearBuffer() { d.Lines = map[int]string{} }

func (d *FakeDisplay) WriteLine(row int, text string) { d.Lines[row] = text }

func (d *FakeDisplay) Show() error {
	d.Shown++
	return nil
}

// ----------------------------- HID (host) -------------------------------------

// FakeHID hands out recording endpoints.
type FakeHID struct {
	Kbd *FakeKeyboard
	CC  *FakeConsumerControl
	Ptr *FakeMouse
}

func (h *FakeHID) Keyboard() (types.Keyboard, error) {
	if h.Kbd == nil {
		h.Kbd = &FakeKeyboard{}
	}
	return h.Kbd, nil
}

func (h *FakeHID) ConsumerControl() (types.ConsumerControl, error) {
	if h.CC == nil {
		h.CC = &FakeConsumerControl{}
	}
	return h.CC, nil
}

func (h *FakeHID) Mouse() (types.Mouse, error) {
	if h.Ptr == nil {
		h.Ptr = &FakeMouse{}
	}
	return h.Ptr, nil
}

// FakeKeyboard records chords pressed through it.
type FakeKeyboard struct {
	Pressed  [][]types.Keycode
	Releases int
}

func (k *FakeKeyboard) Press(codes ...types.Keycode) error {
	chord := make([]types.Keycode, len(codes))
	copy(chord, codes)
	k.Pressed = append(k.Pressed, chord)
	return nil
}

func (k *FakeKeyboard) Release(codes ...types.Keycode) error { return nil }

func (k *FakeKeyboard) ReleaseAll() error {
	k.Releases++
	return nil
}

// FakeConsumerControl records sent usages.
type FakeConsumerControl struct {
	Sent []types.ConsumerCode
}

func (c *FakeConsumerControl) Send(code types.ConsumerCode) error {
	c.Sent = append(c.Sent, code)
	return nil
}

func (c *FakeConsumerControl) Release() error { return nil }

// FakeMouse records movement and clicks.
type FakeMouse struct {
	DX, DY, Wheel int
	Buttons       types.MouseButton
	Clicks        []types.MouseButton
}

func (m *FakeMouse) Move(dx, dy, wheel int) error {
	m.DX += dx
	m.DY += dy
	m.Wheel += wheel
	return nil
}

func (m *FakeMouse) Press(b types.MouseButton) error {
	m.Buttons |= b
	return nil
}

func (m *FakeMouse) Release(b types.MouseButton) error {
	m.Buttons &^= b
	return nil
}

func (m *FakeMouse) Click(b types.MouseButton) error {
	m.Clicks = append(m.Clicks, b)
	return nil
}

// ----------------------------- MIDI (host) ------------------------------------

// FakeMIDIOut records raw outgoing messages.
type FakeMIDIOut struct {
	Sent [][]byte
}

func (o *FakeMIDIOut) Send(msg []byte) error {
	cp := make([]byte, len(msg))
	copy(cp, msg)
	o.Sent = append(o.Sent, cp)
	return nil
}

// FakeMIDIIn yields queued raw messages.
type FakeMIDIIn struct {
	Queue [][]byte
}

func (i *FakeMIDIIn) Push(msg []byte) { i.Queue = append(i.Queue, msg) }

func (i *FakeMIDIIn) Receive() ([]byte, bool) {
	if len(i.Queue) == 0 {
		return nil, false
	}
	msg := i.Queue[0]
	i.Queue = i.Queue[1:]
	return msg, true
}

// ----------------------------- Speaker (host) ---------------------------------

// FakeSink records the loop and stream activity driven by the audio
// session.
type FakeSink struct {
	LoopBuf   []uint16
	LoopRate  uint32
	Loops     int
	RateSets  int
	Stops     int
	Streamed  int
	Active    bool
	LoopErr   error
	StreamErr error
}

func (s *FakeSink) Loop(buf []uint16, sampleRate uint32) error {
	if s.LoopErr != nil {
		return s.LoopErr
	}
	s.LoopBuf = buf
	s.LoopRate = sampleRate
	s.Loops++
	s.Active = true
	return nil
}

func (s *FakeSink) SetLoopRate(sampleRate uint32) error {
	s.LoopRate = sampleRate
	s.RateSets++
	return nil
}

func (s *FakeSink) Stream(d audio.Decoder) error {
	if s.StreamErr != nil {
		return s.StreamErr
	}
	s.Active = true
	defer func() { s.Active = false }()
	buf := make([]uint16, 256)
	for {
		n, err := d.Read(buf)
		s.Streamed += n
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (s *FakeSink) Stop() {
	s.Stops++
	s.Active = false
}
