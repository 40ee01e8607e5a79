//go:build rp2040

package platform

import (
	"image/color"
	"io"
	"machine"
	"machine/usb/adc/midi"
	"machine/usb/hid/keyboard"
	"machine/usb/hid/mouse"
	"time"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/encoders"
	"tinygo.org/x/drivers/sh1106"
	"tinygo.org/x/drivers/ws2812"

	"macropad-go/audio"
	"macropad-go/errcode"
	"macropad-go/macropad"
	"macropad-go/types"
	"macropad-go/x/timex"
)

// keyPins is the physical key order: KEY1 top-left through KEY12
// bottom-right with the USB port at the top.
var keyPins = [12]machine.Pin{
	machine.KEY1, machine.KEY2, machine.KEY3,
	machine.KEY4, machine.KEY5, machine.KEY6,
	machine.KEY7, machine.KEY8, machine.KEY9,
	machine.KEY10, machine.KEY11, machine.KEY12,
}

// DefaultHardware wires the MacroPad RP2040 peripherals.
func DefaultHardware() (macropad.Hardware, error) {
	spi := machine.SPI1
	err := spi.Configure(machine.SPIConfig{
		Frequency: 48 * machine.MHz,
		SCK:       machine.SPI1_SCK_PIN,
		SDO:       machine.SPI1_SDO_PIN,
		SDI:       machine.SPI1_SDI_PIN,
	})
	if err != nil {
		return macropad.Hardware{}, err
	}

	display := newOLED(spi)

	enc := encoders.NewQuadratureViaInterrupt(machine.ROT_A, machine.ROT_B)
	if err := enc.Configure(encoders.QuadratureConfig{Precision: 4}); err != nil {
		return macropad.Hardware{}, err
	}

	return macropad.Hardware{
		Scanner:       &scannerFactory{},
		Encoder:       enc,
		EncoderSwitch: &gpioPin{p: machine.BUTTON},
		RedLED:        &gpioPin{p: machine.LED},
		Pixels:        &pixelWriter{dev: ws2812.NewWS2812(machine.NEOPIXEL)},
		Display:       display,
		HID:           hidDevices{},
		MIDIIn:        newMIDIIn(),
		MIDIOut:       midiOut{},
		Speaker:       newPWMSink(machine.SPEAKER),
		SpeakerEnable: &gpioPin{p: machine.SPEAKER_ENABLE},
		OpenAudio:     openStored,
	}, nil
}

// ----------------------------- GPIO --------------------------------------------

type gpioPin struct {
	p machine.Pin
}

func (g *gpioPin) ConfigureInput(pull types.Pull) error {
	mode := machine.PinInput
	switch pull {
	case types.PullUp:
		mode = machine.PinInputPullup
	case types.PullDown:
		mode = machine.PinInputPulldown
	}
	g.p.Configure(machine.PinConfig{Mode: mode})
	return nil
}

func (g *gpioPin) ConfigureOutput(initial bool) error {
	g.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	g.p.Set(initial)
	return nil
}

func (g *gpioPin) Set(level bool) { g.p.Set(level) }
func (g *gpioPin) Get() bool      { return g.p.Get() }

// ----------------------------- Key scanner -------------------------------------

// Only one scanner may hold the key pins at a time; a rotation switch
// closes the old one before building the new one.
var keysClaimed bool

type scannerFactory struct{}

func (scannerFactory) NewScanner(order [12]uint8) (types.KeyScanner, error) {
	if keysClaimed {
		return nil, &errcode.E{C: errcode.PinInUse, Op: "platform.NewScanner", Msg: "key pins already claimed"}
	}
	s := &keyScanner{order: order, events: make(chan types.KeyEvent, 16), quit: make(chan struct{})}
	for _, p := range keyPins {
		p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	}
	keysClaimed = true
	go s.scan()
	return s, nil
}

type keyScanner struct {
	order  [12]uint8
	events chan types.KeyEvent
	quit   chan struct{}

	state    [12]bool
	debounce [12]uint8
}

const debounceTicks = 3

// scan polls the key pins every 2ms. A level must hold for three ticks
// before it becomes an event. Keys read low when pressed.
func (s *keyScanner) scan() {
	ticker := time.NewTicker(2 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-s.quit:
			return
		case <-ticker.C:
			for logical, phys := range s.order {
				pressed := !keyPins[phys].Get()
				if pressed == s.state[logical] {
					s.debounce[logical] = 0
					continue
				}
				s.debounce[logical]++
				if s.debounce[logical] < debounceTicks {
					continue
				}
				s.debounce[logical] = 0
				s.state[logical] = pressed
				select {
				case s.events <- types.KeyEvent{KeyNumber: logical, Pressed: pressed}:
				default:
					// Queue full; drop the oldest to keep edges fresh.
					<-s.events
					s.events <- types.KeyEvent{KeyNumber: logical, Pressed: pressed}
				}
			}
		}
	}
}

func (s *keyScanner) NextEvent() (types.KeyEvent, bool) {
	select {
	case ev := <-s.events:
		return ev, true
	default:
		return types.KeyEvent{}, false
	}
}

func (s *keyScanner) Close() error {
	close(s.quit)
	keysClaimed = false
	return nil
}

// ----------------------------- Pixels ------------------------------------------

type pixelWriter struct {
	dev ws2812.Device
	tmp []color.RGBA
}

func (w *pixelWriter) WriteColors(buf []types.Color) error {
	if len(w.tmp) < len(buf) {
		w.tmp = make([]color.RGBA, len(buf))
	}
	for i, c := range buf {
		w.tmp[i] = color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}
	}
	return w.dev.WriteColors(w.tmp[:len(buf)])
}

// ----------------------------- Display -----------------------------------------

// Panel flip opcodes. Configure leaves the controller at segment remap
// on with descending COM scan, which is the 0 degree orientation.
const (
	oledSegRemapOff = 0xA0
	oledSegRemapOn  = 0xA1
	oledComScanInc  = 0xC0
	oledComScanDec  = 0xC8
)

type oled struct {
	dev  sh1106.Device
	w, h int16
	rot  int
}

func newOLED(spi drivers.SPI) *oled {
	dev := sh1106.NewSPI(spi, machine.OLED_DC, machine.OLED_RST, machine.OLED_CS)
	dev.Configure(sh1106.Config{Width: 128, Height: 64})
	dev.ClearDisplay()
	return &oled{dev: dev, w: 128, h: 64}
}

func (o *oled) Size() (int16, int16) {
	if o.rot == 90 || o.rot == 270 {
		return o.h, o.w
	}
	return o.w, o.h
}

// SetRotation reorients the panel. 180 degrees is a controller flip;
// the quarter turns keep the controller upright and are applied to the
// drawing coordinates instead.
func (o *oled) SetRotation(degrees int) error {
	switch degrees {
	case 0, 90, 270:
		o.dev.Command(oledSegRemapOn)
		o.dev.Command(oledComScanDec)
	case 180:
		o.dev.Command(oledSegRemapOff)
		o.dev.Command(oledComScanInc)
	default:
		return &errcode.E{C: errcode.InvalidConfiguration, Op: "platform.SetRotation", Msg: "unsupported display rotation"}
	}
	o.rot = degrees
	return nil
}

func (o *oled) Command(op uint8) error {
	o.dev.Command(op)
	return nil
}

func (o *oled) ClearBuffer() { o.dev.ClearBuffer() }

func (o *oled) WriteLine(row int, text string) {
	writeFontLine(o.frame(), int16(row), text)
}

// frame returns the drawing surface in the active orientation.
func (o *oled) frame() drivers.Displayer {
	switch o.rot {
	case 90:
		return &quarterTurn{dev: &o.dev, cw: true, pw: o.w, ph: o.h}
	case 270:
		return &quarterTurn{dev: &o.dev, cw: false, pw: o.w, ph: o.h}
	}
	return &o.dev
}

func (o *oled) Show() error { return o.dev.Display() }

// ----------------------------- USB HID -----------------------------------------

// Local interfaces over the machine HID ports, which hand out unexported
// concrete types.
type kbdPort interface {
	Down(c keyboard.Keycode) error
	Up(c keyboard.Keycode) error
}

type mousePort interface {
	Move(vx, vy int)
	Press(btn mouse.Button)
	Release(btn mouse.Button)
	Click(btn mouse.Button)
	WheelUp() bool
	WheelDown() bool
}

type hidDevices struct{}

func (hidDevices) Keyboard() (types.Keyboard, error) {
	return &usbKeyboard{port: keyboard.Port()}, nil
}

func (hidDevices) ConsumerControl() (types.ConsumerControl, error) {
	// The TinyGo HID stack has no consumer-control endpoint.
	return nil, errcode.Unsupported
}

func (hidDevices) Mouse() (types.Mouse, error) {
	return usbMouse{port: mouse.Port()}, nil
}

type usbKeyboard struct {
	port kbdPort
	held []keyboard.Keycode
}

// toKeycode converts a raw HID usage into the masked keycode scheme the
// machine keyboard port expects: modifiers carry the 0xE000 bit flags,
// normal keys the 0xF000 marker.
func toKeycode(c types.Keycode) keyboard.Keycode {
	if c >= 0xE0 && c <= 0xE7 {
		return keyboard.Keycode(1)<<(c-0xE0) | 0xE000
	}
	return keyboard.Keycode(c) | 0xF000
}

func (k *usbKeyboard) Press(codes ...types.Keycode) error {
	for _, c := range codes {
		kc := toKeycode(c)
		if err := k.port.Down(kc); err != nil {
			return err
		}
		k.held = append(k.held, kc)
	}
	return nil
}

func (k *usbKeyboard) Release(codes ...types.Keycode) error {
	for _, c := range codes {
		kc := toKeycode(c)
		if err := k.port.Up(kc); err != nil {
			return err
		}
		for i, h := range k.held {
			if h == kc {
				k.held = append(k.held[:i], k.held[i+1:]...)
				break
			}
		}
	}
	return nil
}

func (k *usbKeyboard) ReleaseAll() error {
	for _, kc := range k.held {
		if err := k.port.Up(kc); err != nil {
			return err
		}
	}
	k.held = k.held[:0]
	return nil
}

type usbMouse struct {
	port mousePort
}

func (m usbMouse) Move(dx, dy, wheel int) error {
	if dx != 0 || dy != 0 {
		m.port.Move(dx, dy)
	}
	for ; wheel > 0; wheel-- {
		m.port.WheelUp()
	}
	for ; wheel < 0; wheel++ {
		m.port.WheelDown()
	}
	return nil
}

func (m usbMouse) Press(b types.MouseButton) error {
	m.port.Press(mouseButtons(b))
	return nil
}

func (m usbMouse) Release(b types.MouseButton) error {
	m.port.Release(mouseButtons(b))
	return nil
}

func (m usbMouse) Click(b types.MouseButton) error {
	m.port.Click(mouseButtons(b))
	return nil
}

func mouseButtons(b types.MouseButton) mouse.Button {
	var out mouse.Button
	if b&types.MouseLeft != 0 {
		out |= mouse.Left
	}
	if b&types.MouseRight != 0 {
		out |= mouse.Right
	}
	if b&types.MouseMiddle != 0 {
		out |= mouse.Middle
	}
	return out
}

// ----------------------------- USB MIDI ----------------------------------------

type midiOut struct{}

// Send wraps a channel message into a 4-byte USB MIDI event packet on
// cable 0 (CIN taken from the status nibble).
func (midiOut) Send(msg []byte) error {
	if len(msg) == 0 {
		return nil
	}
	var pkt [4]byte
	pkt[0] = msg[0] >> 4
	copy(pkt[1:], msg)
	_, err := midi.Port().Write(pkt[:])
	return err
}

type midiIn struct {
	queue chan []byte
}

func newMIDIIn() *midiIn {
	m := &midiIn{queue: make(chan []byte, 16)}
	midi.Port().SetRxHandler(func(b []byte) {
		if len(b) < 4 {
			return
		}
		// Strip the USB framing byte; keep the MIDI message.
		msg := make([]byte, 3)
		copy(msg, b[1:4])
		select {
		case m.queue <- msg:
		default:
		}
	})
	return m
}

func (m *midiIn) Receive() ([]byte, bool) {
	select {
	case msg := <-m.queue:
		return msg, true
	default:
		return nil, false
	}
}

// ----------------------------- Speaker -----------------------------------------

// Local interface to avoid depending on an unexported concrete type in machine.
type pwmCtrl interface {
	Configure(cfg machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
}

// Select controller handle for a given slice number (0..7).
func pwmGroupBySlice(slice uint8) pwmCtrl {
	switch slice {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	default:
		return machine.PWM7
	}
}

// pwmSink plays unsigned 16-bit samples as PWM duty cycles on the
// speaker pin. The carrier runs well above audio so the LC filter on the
// board smooths it.
type pwmSink struct {
	pin  machine.Pin
	pwm  pwmCtrl
	ch   uint8
	quit chan struct{}
	rate chan uint32
}

const pwmCarrierHz = 500_000

func newPWMSink(pin machine.Pin) *pwmSink {
	return &pwmSink{pin: pin}
}

func (s *pwmSink) configure() error {
	if s.pwm != nil {
		return nil
	}
	slice, err := machine.PWMPeripheral(s.pin)
	if err != nil {
		return err
	}
	pwm := pwmGroupBySlice(slice)
	if err := pwm.Configure(machine.PWMConfig{Period: 1e9 / pwmCarrierHz}); err != nil {
		return err
	}
	ch, err := pwm.Channel(s.pin)
	if err != nil {
		return err
	}
	s.pin.Configure(machine.PinConfig{Mode: machine.PinPWM})
	s.pwm = pwm
	s.ch = ch
	return nil
}

func (s *pwmSink) Loop(buf []uint16, sampleRate uint32) error {
	if err := s.configure(); err != nil {
		return err
	}
	s.Stop()
	s.quit = make(chan struct{})
	s.rate = make(chan uint32, 1)
	go s.run(buf, sampleRate, s.quit, s.rate)
	return nil
}

func (s *pwmSink) SetLoopRate(sampleRate uint32) error {
	if s.rate == nil {
		return nil
	}
	select {
	case s.rate <- sampleRate:
	default:
	}
	return nil
}

// run steps through the sample buffer at the requested rate, updating
// the PWM duty per sample.
func (s *pwmSink) run(buf []uint16, sampleRate uint32, quit chan struct{}, rate chan uint32) {
	period := samplePeriod(sampleRate)
	top := s.pwm.Top()
	i := 0
	for {
		select {
		case <-quit:
			s.pwm.Set(s.ch, 0)
			return
		case r := <-rate:
			period = samplePeriod(r)
		default:
		}
		sample := buf[i]
		s.pwm.Set(s.ch, uint32(uint64(sample)*uint64(top)/65535))
		i++
		if i == len(buf) {
			i = 0
		}
		time.Sleep(period)
	}
}

func (s *pwmSink) Stream(d audio.Decoder) error {
	if err := s.configure(); err != nil {
		return err
	}
	s.Stop()
	period := samplePeriod(d.SampleRate())
	top := s.pwm.Top()
	buf := make([]uint16, 256)
	for {
		n, err := d.Read(buf)
		for i := 0; i < n; i++ {
			s.pwm.Set(s.ch, uint32(uint64(buf[i])*uint64(top)/65535))
			time.Sleep(period)
		}
		if err == io.EOF {
			s.pwm.Set(s.ch, 0)
			return nil
		}
		if err != nil {
			s.pwm.Set(s.ch, 0)
			return err
		}
	}
}

func (s *pwmSink) Stop() {
	if s.quit != nil {
		close(s.quit)
		s.quit = nil
		s.rate = nil
	}
	if s.pwm != nil {
		s.pwm.Set(s.ch, 0)
	}
}

func samplePeriod(rate uint32) time.Duration {
	return time.Duration(timex.PeriodFromHz(rate))
}

// openStored resolves audio files against on-board storage. The stock
// firmware has no filesystem mounted, so this reports the name as
// missing; applications with storage can swap the opener in Hardware.
func openStored(name string) (io.ReadCloser, error) {
	return nil, &errcode.E{C: errcode.Unsupported, Op: "platform.openStored", Msg: "no filesystem mounted: " + name}
}
