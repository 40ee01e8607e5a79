//go:build !rp2040

package platform

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"

	"macropad-go/audio"
	"macropad-go/x/mathx"
)

// otoRate is the fixed output rate of the host audio context. Tone loops
// run at arbitrary effective rates (buffer length * frequency), so the
// sink resamples with a phase accumulator instead of reopening the
// context per tone.
const otoRate = 44100

// OtoSink plays the speaker output through the host audio device.
type OtoSink struct {
	ctx *oto.Context

	mu     sync.Mutex
	player *oto.Player
	loop   *loopReader
}

// NewOtoSink opens the host audio context and waits for it to be ready.
func NewOtoSink() (*OtoSink, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   otoRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, err
	}
	<-ready
	return &OtoSink{ctx: ctx}, nil
}

func (s *OtoSink) Loop(buf []uint16, sampleRate uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()

	lr := newLoopReader(buf, sampleRate)
	s.loop = lr
	s.player = s.ctx.NewPlayer(lr)
	s.player.Play()
	return nil
}

func (s *OtoSink) SetLoopRate(sampleRate uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loop == nil {
		return nil
	}
	s.loop.setRate(sampleRate)
	return nil
}

func (s *OtoSink) Stream(d audio.Decoder) error {
	s.mu.Lock()
	s.stopLocked()
	sr := &streamReader{d: d, step: phaseStep(d.SampleRate())}
	player := s.ctx.NewPlayer(sr)
	s.player = player
	s.mu.Unlock()

	player.Play()
	for player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}
	err := player.Close()
	s.mu.Lock()
	if s.player == player {
		s.player = nil
	}
	s.mu.Unlock()
	if sr.err != nil && sr.err != io.EOF {
		return sr.err
	}
	return err
}

func (s *OtoSink) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *OtoSink) stopLocked() {
	if s.player != nil {
		_ = s.player.Close()
		s.player = nil
	}
	s.loop = nil
}

// phaseStep converts a source sample rate to a Q16 step per output
// sample.
func phaseStep(rate uint32) uint64 {
	return mathx.RoundDiv(uint64(rate)<<16, otoRate)
}

// loopReader emits an endless resampled loop of one waveform cycle.
// The rate may be retuned while the player is pulling.
type loopReader struct {
	buf   []uint16
	step  atomic.Uint64
	phase uint64
}

func newLoopReader(buf []uint16, sampleRate uint32) *loopReader {
	lr := &loopReader{buf: buf}
	lr.step.Store(phaseStep(sampleRate))
	return lr
}

func (l *loopReader) setRate(sampleRate uint32) {
	l.step.Store(phaseStep(sampleRate))
}

func (l *loopReader) Read(p []byte) (int, error) {
	if len(l.buf) == 0 {
		return 0, io.EOF
	}
	step := l.step.Load()
	n := len(p) / 2
	for i := 0; i < n; i++ {
		sample := l.buf[(l.phase>>16)%uint64(len(l.buf))]
		v := int16(int32(sample) - 32768)
		p[2*i] = byte(v)
		p[2*i+1] = byte(v >> 8)
		l.phase += step
	}
	return n * 2, nil
}

// streamReader resamples a decoder to the context rate, once through.
type streamReader struct {
	d     audio.Decoder
	step  uint64
	phase uint64
	cur   []uint16
	done  bool
	err   error
}

func (r *streamReader) Read(p []byte) (int, error) {
	n := len(p) / 2
	out := 0
	for out < n {
		idx := int(r.phase >> 16)
		for idx >= len(r.cur) {
			if r.done {
				if out == 0 {
					return 0, io.EOF
				}
				return out * 2, nil
			}
			r.phase -= uint64(len(r.cur)) << 16
			idx = int(r.phase >> 16)
			if err := r.fill(); err != nil {
				r.done = true
				if err != io.EOF {
					r.err = err
				}
			} else if len(r.cur) == 0 {
				// A decoder reporting no samples and no error would
				// spin this loop forever.
				r.done = true
			}
		}
		v := int16(int32(r.cur[idx]) - 32768)
		p[2*out] = byte(v)
		p[2*out+1] = byte(v >> 8)
		r.phase += r.step
		out++
	}
	return out * 2, nil
}

func (r *streamReader) fill() error {
	buf := make([]uint16, 2048)
	n, err := r.d.Read(buf)
	r.cur = buf[:n]
	return err
}
