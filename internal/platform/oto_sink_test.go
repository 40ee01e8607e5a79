//go:build !rp2040

package platform

import (
	"io"
	"testing"
)

func readSamples(t *testing.T, r io.Reader, n int) []int16 {
	t.Helper()
	p := make([]byte, n*2)
	got, err := r.Read(p)
	if err != nil && err != io.EOF {
		t.Fatal(err)
	}
	out := make([]int16, got/2)
	for i := range out {
		out[i] = int16(uint16(p[2*i]) | uint16(p[2*i+1])<<8)
	}
	return out
}

func TestLoopReaderUnityRate(t *testing.T) {
	buf := []uint16{32768, 33768, 32768, 31768}
	lr := newLoopReader(buf, otoRate)

	got := readSamples(t, lr, 8)
	want := []int16{0, 1000, 0, -1000, 0, 1000, 0, -1000}
	if len(got) != len(want) {
		t.Fatalf("read %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestLoopReaderDoubleRateSkips(t *testing.T) {
	buf := []uint16{32768, 33768, 32768, 31768}
	lr := newLoopReader(buf, 2*otoRate)

	got := readSamples(t, lr, 4)
	want := []int16{0, 0, 0, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestLoopReaderRetuneTakesEffect(t *testing.T) {
	buf := []uint16{32768, 33768}
	lr := newLoopReader(buf, otoRate)
	readSamples(t, lr, 2)

	lr.setRate(otoRate / 2)
	got := readSamples(t, lr, 4)
	// Half rate holds each source sample for two output samples.
	want := []int16{0, 0, 1000, 1000}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestLoopReaderEmptyBuffer(t *testing.T) {
	lr := newLoopReader(nil, otoRate)
	p := make([]byte, 4)
	if _, err := lr.Read(p); err != io.EOF {
		t.Fatalf("got %v, want EOF", err)
	}
}

type rampDecoder struct {
	n    int
	next uint16
}

func (d *rampDecoder) SampleRate() uint32 { return otoRate }

func (d *rampDecoder) Read(p []uint16) (int, error) {
	if d.n == 0 {
		return 0, io.EOF
	}
	out := 0
	for out < len(p) && d.n > 0 {
		p[out] = 32768 + d.next
		d.next++
		d.n--
		out++
	}
	return out, nil
}

func (d *rampDecoder) Close() error { return nil }

func TestStreamReaderDrainsOnceThrough(t *testing.T) {
	sr := &streamReader{d: &rampDecoder{n: 5}, step: phaseStep(otoRate)}

	got := readSamples(t, sr, 8)
	if len(got) != 5 {
		t.Fatalf("read %d samples, want 5", len(got))
	}
	for i, v := range got {
		if v != int16(i) {
			t.Fatalf("sample %d = %d", i, v)
		}
	}

	p := make([]byte, 4)
	if _, err := sr.Read(p); err != io.EOF {
		t.Fatalf("got %v after drain, want EOF", err)
	}
}

// stallDecoder never yields samples and never errors.
type stallDecoder struct{}

func (stallDecoder) SampleRate() uint32 { return otoRate }

func (stallDecoder) Read(p []uint16) (int, error) { return 0, nil }

func (stallDecoder) Close() error { return nil }

func TestStreamReaderStalledDecoderEnds(t *testing.T) {
	sr := &streamReader{d: stallDecoder{}, step: phaseStep(otoRate)}

	p := make([]byte, 8)
	if _, err := sr.Read(p); err != io.EOF {
		t.Fatalf("got %v from a stalled decoder, want EOF", err)
	}
}

func TestFakeScannerTranslatesPhysical(t *testing.T) {
	f := NewFakeScannerFactory()
	order := [12]uint8{2, 5, 8, 11, 1, 4, 7, 10, 0, 3, 6, 9}
	s, err := f.NewScanner(order)
	if err != nil {
		t.Fatal(err)
	}
	fs := f.Last()
	fs.PressPhysical(11)
	ev, ok := s.NextEvent()
	if !ok || ev.KeyNumber != 3 || !ev.Pressed {
		t.Fatalf("got %+v, want logical 3 pressed", ev)
	}
	if _, ok := s.NextEvent(); ok {
		t.Fatal("queue should be empty")
	}
}
