// mididev/mididev_test.go
package mididev

import (
	"bytes"
	"testing"

	"gitlab.com/gomidi/midi/v2"
)

type recordOut struct {
	sent [][]byte
}

func (o *recordOut) Send(msg []byte) error {
	b := make([]byte, len(msg))
	copy(b, msg)
	o.sent = append(o.sent, b)
	return nil
}

type queueIn struct {
	queue [][]byte
}

func (q *queueIn) push(msg midi.Message) {
	q.queue = append(q.queue, []byte(msg))
}

func (q *queueIn) Receive() ([]byte, bool) {
	if len(q.queue) == 0 {
		return nil, false
	}
	msg := q.queue[0]
	q.queue = q.queue[1:]
	return msg, true
}

func TestMessageWireShapes(t *testing.T) {
	cases := []struct {
		name string
		msg  midi.Message
		want []byte
	}{
		{"note on", NoteOn(0, 60, 100), []byte{0x90, 60, 100}},
		{"note on ch3", NoteOn(3, 60, 127), []byte{0x93, 60, 127}},
		{"note off", NoteOff(0, 60), []byte{0x80, 60, 0}},
		{"control change", ControlChange(1, 7, 64), []byte{0xB1, 7, 64}},
		{"program change", ProgramChange(2, 19), []byte{0xC2, 19}},
		{"pitch bend center", PitchBend(0, 0), []byte{0xE0, 0x00, 0x40}},
	}
	for _, c := range cases {
		if !bytes.Equal([]byte(c.msg), c.want) {
			t.Errorf("%s: got % X, want % X", c.name, []byte(c.msg), c.want)
		}
	}
}

func TestTypedSendersStampOutChannel(t *testing.T) {
	out := &recordOut{}
	m := New(&queueIn{}, out, nil, 5)

	if err := m.NoteOn(64, 90); err != nil {
		t.Fatal(err)
	}
	if err := m.NoteOff(64); err != nil {
		t.Fatal(err)
	}
	if err := m.ControlChange(1, 33); err != nil {
		t.Fatal(err)
	}
	if err := m.ProgramChange(8); err != nil {
		t.Fatal(err)
	}
	if err := m.PitchBend(8191); err != nil {
		t.Fatal(err)
	}

	if len(out.sent) != 5 {
		t.Fatalf("%d messages sent, want 5", len(out.sent))
	}
	for i, status := range []byte{0x95, 0x85, 0xB5, 0xC5, 0xE5} {
		if out.sent[i][0] != status {
			t.Errorf("message %d status %#X, want %#X", i, out.sent[i][0], status)
		}
	}
}

func TestReceiveFiltersByChannel(t *testing.T) {
	in := &queueIn{}
	m := New(in, &recordOut{}, []uint8{0, 2}, 0)

	in.push(midi.NoteOn(1, 60, 100))
	in.push(midi.NoteOn(2, 61, 100))
	in.push(midi.NoteOn(5, 62, 100))
	in.push(midi.NoteOn(0, 63, 100))

	msg, ok := m.Receive()
	if !ok {
		t.Fatal("expected a message")
	}
	var ch, note, vel uint8
	if !msg.GetNoteOn(&ch, &note, &vel) || ch != 2 || note != 61 {
		t.Fatalf("got %v, want note 61 on channel 2", msg)
	}

	msg, ok = m.Receive()
	if !ok {
		t.Fatal("expected a second message")
	}
	if !msg.GetNoteOn(&ch, &note, &vel) || ch != 0 || note != 63 {
		t.Fatalf("got %v, want note 63 on channel 0", msg)
	}

	if _, ok := m.Receive(); ok {
		t.Fatal("queue should be drained")
	}
}

func TestReceiveEmptyFilterPassesAll(t *testing.T) {
	in := &queueIn{}
	m := New(in, &recordOut{}, nil, 0)
	in.push(midi.NoteOn(9, 40, 80))

	msg, ok := m.Receive()
	if !ok {
		t.Fatal("expected a message")
	}
	var ch uint8
	if !msg.GetChannel(&ch) || ch != 9 {
		t.Fatalf("got %v", msg)
	}
}
