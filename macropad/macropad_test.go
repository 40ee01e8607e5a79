// macropad/macropad_test.go
package macropad_test

import (
	"testing"

	"macropad-go/errcode"
	"macropad-go/internal/platform"
	"macropad-go/macropad"
	"macropad-go/remap"
	"macropad-go/types"
)

type rig struct {
	scanner *platform.FakeScannerFactory
	encoder *platform.FakeEncoder
	encSw   *platform.FakePin
	led     *platform.FakePin
	pixels  *platform.FakePixelWriter
	display *platform.FakeDisplay
	hid     *platform.FakeHID
	midiIn  *platform.FakeMIDIIn
	midiOut *platform.FakeMIDIOut
	sink    *platform.FakeSink
	enable  *platform.FakePin
}

func newRig() *rig {
	return &rig{
		scanner: platform.NewFakeScannerFactory(),
		encoder: &platform.FakeEncoder{},
		encSw:   platform.NewFakePin(true),
		led:     platform.NewFakePin(false),
		pixels:  &platform.FakePixelWriter{},
		display: platform.NewFakeDisplay(128, 64),
		hid:     &platform.FakeHID{},
		midiIn:  &platform.FakeMIDIIn{},
		midiOut: &platform.FakeMIDIOut{},
		sink:    &platform.FakeSink{},
		enable:  platform.NewFakePin(false),
	}
}

func (r *rig) hardware() macropad.Hardware {
	return macropad.Hardware{
		Scanner:       r.scanner,
		Encoder:       r.encoder,
		EncoderSwitch: r.encSw,
		RedLED:        r.led,
		Pixels:        r.pixels,
		Display:       r.display,
		HID:           r.hid,
		MIDIIn:        r.midiIn,
		MIDIOut:       r.midiOut,
		Speaker:       r.sink,
		SpeakerEnable: r.enable,
		OpenAudio:     nil,
	}
}

func newPad(t *testing.T, cfg macropad.Config) (*macropad.MacroPad, *rig) {
	t.Helper()
	r := newRig()
	pad, err := macropad.New(cfg, r.hardware())
	if err != nil {
		t.Fatal(err)
	}
	return pad, r
}

func TestNewConfiguresPeripherals(t *testing.T) {
	pad, r := newPad(t, macropad.Config{})

	if pad.Rotation() != 0 {
		t.Fatalf("rotation %d, want 0", pad.Rotation())
	}
	if !r.led.Output() {
		t.Error("red LED not configured as output")
	}
	if r.led.Get() {
		t.Error("red LED should start off")
	}
	if r.enable.Get() {
		t.Error("speaker enable should start low")
	}
	if got := r.scanner.Last().Order(); got != pad.Pixels().Order() {
		t.Error("scanner and pixel view disagree on ordering")
	}
	if pad.Pixels().Brightness() != 0.5 {
		t.Errorf("brightness %v, want board default 0.5", pad.Pixels().Brightness())
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	r := newRig()
	_, err := macropad.New(macropad.Config{Rotation: 45}, r.hardware())
	if errcode.Of(err) != errcode.InvalidConfiguration {
		t.Fatalf("got %v, want invalid_configuration", err)
	}
	if len(r.scanner.Built) != 0 {
		t.Error("scanner built despite invalid config")
	}
}

func TestKeyEventsAreLogical(t *testing.T) {
	pad, r := newPad(t, macropad.Config{Rotation: 90})

	// Physical key 2 is logical 0 under 90 degrees.
	r.scanner.Last().PressPhysical(2)
	ev, ok := pad.Keys().NextEvent()
	if !ok {
		t.Fatal("no event")
	}
	if ev.KeyNumber != 0 || !ev.Pressed {
		t.Fatalf("got %+v, want logical 0 pressed", ev)
	}
	r.scanner.Last().ReleasePhysical(2)
	ev, ok = pad.Keys().NextEvent()
	if !ok || !ev.Released() || ev.KeyNumber != 0 {
		t.Fatalf("got %+v, want logical 0 released", ev)
	}
}

func TestKeysAndPixelsShareOrdering(t *testing.T) {
	for _, rot := range []int{0, 90, 180, 270} {
		pad, r := newPad(t, macropad.Config{Rotation: rot})

		// Light logical pixel 0 and press the key under the same
		// physical position; the event must come back as logical 0.
		if err := pad.Pixels().Set(0, types.RGB(0xFF0000)); err != nil {
			t.Fatal(err)
		}
		phys := pad.Pixels().Order()[0]
		r.scanner.Last().PressPhysical(phys)
		ev, ok := pad.Keys().NextEvent()
		if !ok || ev.KeyNumber != 0 {
			t.Fatalf("rotation %d: event %+v, want logical 0", rot, ev)
		}
		frame := r.pixels.LastFrame()
		if frame[phys].R == 0 {
			t.Fatalf("rotation %d: physical pixel %d not lit", rot, phys)
		}
	}
}

func TestSetRotationRebuildsConsistently(t *testing.T) {
	pad, r := newPad(t, macropad.Config{})
	oldScanner := r.scanner.Last()

	if err := pad.SetRotation(90); err != nil {
		t.Fatal(err)
	}
	if !oldScanner.Closed() {
		t.Error("previous scanner not closed")
	}
	if pad.Rotation() != 90 {
		t.Fatalf("rotation %d, want 90", pad.Rotation())
	}
	if r.display.Rotation != 90 {
		t.Fatalf("display rotation %d, want 90", r.display.Rotation)
	}
	want, _ := remap.PermutationFor(90)
	if r.scanner.Last().Order() != want {
		t.Error("new scanner has wrong ordering")
	}
	if pad.Pixels().Order() != want {
		t.Error("pixel view has wrong ordering")
	}
}

func TestSetRotationSameIsNoop(t *testing.T) {
	pad, r := newPad(t, macropad.Config{Rotation: 180})
	before := len(r.scanner.Built)
	if err := pad.SetRotation(180); err != nil {
		t.Fatal(err)
	}
	if len(r.scanner.Built) != before {
		t.Error("scanner rebuilt for unchanged rotation")
	}
}

func TestSetRotationInvalidLeavesStateUntouched(t *testing.T) {
	pad, r := newPad(t, macropad.Config{})
	old := r.scanner.Last()
	err := pad.SetRotation(17)
	if errcode.Of(err) != errcode.InvalidConfiguration {
		t.Fatalf("got %v, want invalid_configuration", err)
	}
	if old.Closed() {
		t.Error("scanner closed for rejected rotation")
	}
	if pad.Rotation() != 0 {
		t.Errorf("rotation %d, want 0", pad.Rotation())
	}
}

func TestSetRotationScannerFailureRollsBack(t *testing.T) {
	pad, r := newPad(t, macropad.Config{})
	r.scanner.FailNext = true

	err := pad.SetRotation(90)
	if errcode.Of(err) != errcode.PinInUse {
		t.Fatalf("got %v, want pin_in_use", err)
	}
	if pad.Rotation() != 0 {
		t.Fatalf("rotation %d after failed switch, want 0", pad.Rotation())
	}
	want, _ := remap.PermutationFor(0)
	if r.scanner.Last().Order() != want {
		t.Error("rollback scanner has wrong ordering")
	}
	if r.display.Rotation != 0 {
		t.Errorf("display rotation %d, want 0", r.display.Rotation)
	}
	// The facade must still deliver events after the rollback.
	r.scanner.Last().PressPhysical(4)
	if _, ok := pad.Keys().NextEvent(); !ok {
		t.Error("no events after rollback")
	}
}

func TestSetRotationCloseFailureRollsBack(t *testing.T) {
	pad, r := newPad(t, macropad.Config{})
	r.scanner.Last().CloseErr = &errcode.E{C: errcode.Busy, Op: "platform.Close", Msg: "scan in flight"}

	err := pad.SetRotation(90)
	if errcode.Of(err) != errcode.Busy {
		t.Fatalf("got %v, want busy", err)
	}
	if pad.Rotation() != 0 {
		t.Fatalf("rotation %d after failed switch, want 0", pad.Rotation())
	}
	want, _ := remap.PermutationFor(0)
	if r.scanner.Last().Order() != want {
		t.Error("rollback scanner has wrong ordering")
	}
	// The facade must still deliver events after the rollback.
	r.scanner.Last().PressPhysical(4)
	if _, ok := pad.Keys().NextEvent(); !ok {
		t.Error("no events after rollback")
	}
}

func TestSetRotationDisplayFailureRollsBack(t *testing.T) {
	pad, r := newPad(t, macropad.Config{})
	r.display.FailRotation = true

	if err := pad.SetRotation(270); err == nil {
		t.Fatal("expected display failure")
	}
	if pad.Rotation() != 0 {
		t.Fatalf("rotation %d after failed switch, want 0", pad.Rotation())
	}
	want, _ := remap.PermutationFor(0)
	if r.scanner.Last().Order() != want {
		t.Error("rollback scanner has wrong ordering")
	}
	if !r.scanner.Built[1].Closed() {
		t.Error("scanner for the failed switch left open")
	}
}

func TestLazyHandlesAreCached(t *testing.T) {
	pad, _ := newPad(t, macropad.Config{})

	k1, err := pad.Keyboard()
	if err != nil {
		t.Fatal(err)
	}
	k2, err := pad.Keyboard()
	if err != nil {
		t.Fatal(err)
	}
	if k1 != k2 {
		t.Error("keyboard handle not cached")
	}

	l1, _ := pad.KeyboardLayout()
	l2, _ := pad.KeyboardLayout()
	if l1 != l2 {
		t.Error("layout handle not cached")
	}

	m1, _ := pad.Mouse()
	m2, _ := pad.Mouse()
	if m1 != m2 {
		t.Error("mouse handle not cached")
	}

	if pad.MIDI() != pad.MIDI() {
		t.Error("midi handle not cached")
	}
	if pad.EncoderSwitchDebounced() != pad.EncoderSwitchDebounced() {
		t.Error("debouncer not cached")
	}
}

func TestEncoderDirectionAndSwitch(t *testing.T) {
	pad, r := newPad(t, macropad.Config{})

	r.encoder.Pos = -3
	if pad.Encoder() != 3 {
		t.Fatalf("encoder %d, want 3", pad.Encoder())
	}

	// Pulled up: high is released, low is pressed.
	if pad.EncoderSwitch() {
		t.Error("switch reads pressed while line is high")
	}
	r.encSw.Drive(false)
	if !pad.EncoderSwitch() {
		t.Error("switch reads released while line is low")
	}
}

func TestRedLED(t *testing.T) {
	pad, r := newPad(t, macropad.Config{})
	pad.SetRedLED(true)
	if !r.led.Get() || !pad.RedLED() {
		t.Error("LED not on")
	}
	pad.SetRedLED(false)
	if r.led.Get() || pad.RedLED() {
		t.Error("LED not off")
	}
}

func TestToneThroughFacade(t *testing.T) {
	pad, r := newPad(t, macropad.Config{})

	if err := pad.StartTone(440); err != nil {
		t.Fatal(err)
	}
	if !pad.Audio().SpeakerEnabled() {
		t.Error("speaker not enabled during tone")
	}
	if r.sink.Loops != 1 {
		t.Fatalf("loops = %d, want 1", r.sink.Loops)
	}
	pad.StopTone()
	if pad.Audio().SpeakerEnabled() {
		t.Error("speaker enabled after stop")
	}
}

func TestPlayFileUnsupportedThroughFacade(t *testing.T) {
	pad, _ := newPad(t, macropad.Config{})
	if err := pad.PlayFile("x.ogg"); errcode.Of(err) != errcode.UnsupportedFormat {
		t.Fatalf("got %v, want unsupported_format", err)
	}
}

func TestDisplaySleepWake(t *testing.T) {
	pad, r := newPad(t, macropad.Config{})
	if err := pad.DisplaySleep(); err != nil {
		t.Fatal(err)
	}
	if err := pad.DisplayWake(); err != nil {
		t.Fatal(err)
	}
	if len(r.display.Commands) != 2 || r.display.Commands[0] != 0xAE || r.display.Commands[1] != 0xAF {
		t.Fatalf("commands % X, want AE AF", r.display.Commands)
	}
}

func TestCloseReleasesEverything(t *testing.T) {
	pad, r := newPad(t, macropad.Config{})
	if err := pad.StartTone(440); err != nil {
		t.Fatal(err)
	}
	if err := pad.Close(); err != nil {
		t.Fatal(err)
	}
	if !r.scanner.Last().Closed() {
		t.Error("scanner left open")
	}
	if r.enable.Get() {
		t.Error("speaker enable left high")
	}
	frame := r.pixels.LastFrame()
	for i, c := range frame {
		if c != (types.Color{}) {
			t.Fatalf("pixel %d not blanked: %v", i, c)
		}
	}
}
