// Package mididev builds MIDI messages and moves them over the board's
// USB MIDI ports. Byte-level encoding and field clamping are delegated to
// gomidi; this package only binds messages to the configured channels.
package mididev

import (
	"gitlab.com/gomidi/midi/v2"

	"macropad-go/types"
)

// Stateless message constructors. Channels are 0..15.

func NoteOn(channel, note, velocity uint8) midi.Message {
	return midi.NoteOn(channel, note, velocity)
}

func NoteOff(channel, note uint8) midi.Message {
	return midi.NoteOff(channel, note)
}

func PitchBend(channel uint8, value int16) midi.Message {
	return midi.Pitchbend(channel, value)
}

func ControlChange(channel, controller, value uint8) midi.Message {
	return midi.ControlChange(channel, controller, value)
}

func ProgramChange(channel, program uint8) midi.Message {
	return midi.ProgramChange(channel, program)
}

// MIDI is the facade handle: an in/out port pair with fixed channels.
type MIDI struct {
	in    types.MIDIIn
	out   types.MIDIOut
	inCh  []uint8
	outCh uint8
}

// New binds the ports. inChannels filters Receive; empty means all
// channels. outChannel stamps every message sent through the typed
// helpers.
func New(in types.MIDIIn, out types.MIDIOut, inChannels []uint8, outChannel uint8) *MIDI {
	return &MIDI{in: in, out: out, inCh: inChannels, outCh: outChannel}
}

// Send writes a prebuilt message to the out port as-is.
func (m *MIDI) Send(msg midi.Message) error {
	return m.out.Send([]byte(msg))
}

// NoteOn sends a note-on on the configured out channel.
func (m *MIDI) NoteOn(note, velocity uint8) error {
	return m.Send(midi.NoteOn(m.outCh, note, velocity))
}

// NoteOff sends a note-off on the configured out channel.
func (m *MIDI) NoteOff(note uint8) error {
	return m.Send(midi.NoteOff(m.outCh, note))
}

// PitchBend sends a pitch-bend on the configured out channel.
func (m *MIDI) PitchBend(value int16) error {
	return m.Send(midi.Pitchbend(m.outCh, value))
}

// ControlChange sends a control-change on the configured out channel.
func (m *MIDI) ControlChange(controller, value uint8) error {
	return m.Send(midi.ControlChange(m.outCh, controller, value))
}

// ProgramChange sends a program-change on the configured out channel.
func (m *MIDI) ProgramChange(program uint8) error {
	return m.Send(midi.ProgramChange(m.outCh, program))
}

// Receive pops the next pending message that passes the in-channel
// filter. ok is false when nothing (matching) is pending.
func (m *MIDI) Receive() (midi.Message, bool) {
	for {
		raw, ok := m.in.Receive()
		if !ok {
			return nil, false
		}
		msg := midi.Message(raw)
		if m.accepts(msg) {
			return msg, true
		}
	}
}

func (m *MIDI) accepts(msg midi.Message) bool {
	if len(m.inCh) == 0 {
		return true
	}
	var ch uint8
	if !msg.GetChannel(&ch) {
		// Channel-less messages (system common/realtime) always pass.
		return true
	}
	for _, want := range m.inCh {
		if ch == want {
			return true
		}
	}
	return false
}
