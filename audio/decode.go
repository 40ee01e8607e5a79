package audio

import (
	"io"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/wav"

	"macropad-go/errcode"
)

// Decoder yields mono unsigned 16-bit samples from a decoded audio file.
type Decoder interface {
	SampleRate() uint32
	// Read fills buf and returns the sample count; io.EOF when drained.
	Read(buf []uint16) (int, error)
	Close() error
}

// DecoderFunc opens a decoder over raw file content.
type DecoderFunc func(r io.ReadCloser) (Decoder, error)

func decodeWAV(r io.ReadCloser) (Decoder, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		return nil, &errcode.E{C: errcode.Unsupported, Op: "audio.decodeWAV", Msg: "wav source must be seekable"}
	}
	s, format, err := wav.Decode(rs)
	if err != nil {
		return nil, err
	}
	return &beepDecoder{s: s, rate: uint32(format.SampleRate)}, nil
}

func decodeMP3(r io.ReadCloser) (Decoder, error) {
	s, format, err := mp3.Decode(r)
	if err != nil {
		return nil, err
	}
	return &beepDecoder{s: s, rate: uint32(format.SampleRate)}, nil
}

// beepDecoder adapts a beep streamer (stereo float64) to the mono
// unsigned 16-bit samples the speaker path consumes.
type beepDecoder struct {
	s    beep.StreamSeekCloser
	rate uint32
	tmp  [][2]float64
}

func (d *beepDecoder) SampleRate() uint32 { return d.rate }

func (d *beepDecoder) Read(buf []uint16) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	if cap(d.tmp) < len(buf) {
		d.tmp = make([][2]float64, len(buf))
	}
	n, ok := d.s.Stream(d.tmp[:len(buf)])
	for i := 0; i < n; i++ {
		mono := (d.tmp[i][0] + d.tmp[i][1]) / 2
		v := int32(mono*32767) + 32768
		if v < 0 {
			v = 0
		}
		if v > 65535 {
			v = 65535
		}
		buf[i] = uint16(v)
	}
	if !ok {
		if err := d.s.Err(); err != nil {
			return n, err
		}
		return n, io.EOF
	}
	return n, nil
}

func (d *beepDecoder) Close() error { return d.s.Close() }
