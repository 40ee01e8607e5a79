// Package audio serializes access to the single speaker output across two
// producer types: a synthesized continuous tone and a decoded audio file.
// The session also owns the amplifier enable line, which must never be
// left asserted once playback has ended.
package audio

import (
	"io"
	"path"
	"strings"
	"time"

	"macropad-go/errcode"
	"macropad-go/types"
)

// Mode is the session state.
type Mode uint8

const (
	Idle Mode = iota
	ToneActive
	FilePlaying
)

func (m Mode) String() string {
	switch m {
	case ToneActive:
		return "tone_active"
	case FilePlaying:
		return "file_playing"
	default:
		return "idle"
	}
}

// Sink drives the speaker output. Implementations: PWM on rp2040, oto on
// host, fakes in tests.
type Sink interface {
	// Loop begins continuous looped playback of buf, replacing any
	// current loop. Non-blocking.
	Loop(buf []uint16, sampleRate uint32) error
	// SetLoopRate retunes the running loop in place, without a
	// stop/restart.
	SetLoopRate(sampleRate uint32) error
	// Stream plays from d until it is drained or fails. Blocking.
	Stream(d Decoder) error
	// Stop halts playback and releases the output resource.
	Stop()
}

// Opener resolves an audio file name to its content.
type Opener func(name string) (io.ReadCloser, error)

// Session is the speaker state machine. Exactly one sample producer is
// active at a time; speaker enable tracks mode != Idle.
type Session struct {
	sink     Sink
	enable   types.Pin
	open     Opener
	decoders map[string]DecoderFunc

	mode Mode
	freq uint32
	wave []uint16
}

// NewSession wires the sink, the speaker-enable line and the file opener.
// The enable line is driven low immediately.
func NewSession(sink Sink, enable types.Pin, open Opener) (*Session, error) {
	if err := enable.ConfigureOutput(false); err != nil {
		return nil, err
	}
	return &Session{
		sink:   sink,
		enable: enable,
		open:   open,
		decoders: map[string]DecoderFunc{
			".wav": decodeWAV,
			".mp3": decodeMP3,
		},
	}, nil
}

// Mode returns the current session state.
func (s *Session) Mode() Mode { return s.mode }

// Frequency returns the active tone frequency, 0 when no tone is active.
func (s *Session) Frequency() uint32 {
	if s.mode != ToneActive {
		return 0
	}
	return s.freq
}

// ToneLength returns the cached sine table length, 0 before first use.
func (s *Session) ToneLength() int { return len(s.wave) }

// SpeakerEnabled reports the state of the amplifier enable line.
func (s *Session) SpeakerEnabled() bool { return s.enable.Get() }

// StartTone begins (or retunes) a continuous sine tone at freq Hz.
// Non-blocking; the tone loops until StopTone. When a tone is already
// active only the playback rate changes, so there is no audible glitch.
func (s *Session) StartTone(freq uint32) error {
	length := toneLength(freq)
	if length < 1 {
		return &errcode.E{C: errcode.InvalidConfiguration, Op: "audio.StartTone", Msg: "frequency out of range"}
	}
	if s.mode == FilePlaying {
		return errcode.Busy
	}

	// The sine table is built once and cached; it is only rebuilt when
	// the bandwidth cap demands a shorter cycle than the cached one.
	regen := s.wave == nil || length < len(s.wave)
	if regen {
		s.wave = sineSample(length)
	}

	s.enable.Set(true)
	rate := uint32(len(s.wave)) * freq

	var err error
	if s.mode == ToneActive && !regen {
		err = s.sink.SetLoopRate(rate)
	} else {
		err = s.sink.Loop(s.wave, rate)
	}
	if err != nil {
		if s.mode == Idle {
			s.enable.Set(false)
		}
		return err
	}
	s.mode = ToneActive
	s.freq = freq
	return nil
}

// PlayTone plays a tone at freq Hz for the given duration, blocking the
// caller until it has elapsed.
func (s *Session) PlayTone(freq uint32, duration time.Duration) error {
	if err := s.StartTone(freq); err != nil {
		return err
	}
	time.Sleep(duration)
	s.StopTone()
	return nil
}

// StopTone stops the active tone and de-asserts the enable line. Releases
// the output resource entirely. Safe to call from any state; from Idle or
// FilePlaying it leaves tone state untouched.
func (s *Session) StopTone() {
	if s.mode == ToneActive {
		s.sink.Stop()
		s.mode = Idle
		s.freq = 0
	}
	if s.mode == Idle {
		s.enable.Set(false)
	}
}

// PlayFile plays a .wav or .mp3 file to completion, blocking the caller.
// Any active tone is stopped first. The enable line is asserted only once
// the file format is known and is de-asserted on every exit path,
// including decode and I/O failures mid-playback.
func (s *Session) PlayFile(name string) error {
	dec, ok := s.decoders[strings.ToLower(path.Ext(name))]
	if !ok {
		return &errcode.E{C: errcode.UnsupportedFormat, Op: "audio.PlayFile", Msg: "could not play file: unsupported format"}
	}

	s.StopTone()

	f, err := s.open(name)
	if err != nil {
		return err
	}

	s.enable.Set(true)
	s.mode = FilePlaying
	defer func() {
		_ = f.Close()
		s.mode = Idle
		s.enable.Set(false)
	}()

	d, err := dec(f)
	if err != nil {
		return err
	}
	defer d.Close()

	return s.sink.Stream(d)
}

// Close stops any playback and drops the speaker enable line.
func (s *Session) Close() {
	s.StopTone()
	s.wave = nil
	s.enable.Set(false)
}
