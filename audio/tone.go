package audio

import "math"

// DefaultToneLength is the preferred number of samples in one sine cycle.
const DefaultToneLength = 100

// maxToneBandwidth caps length*frequency, an empirical bound above which
// the PWM output loses clarity.
const maxToneBandwidth = 350000

// toneLength returns the sine table length for a frequency: the default,
// shortened so that length*freq stays within the bandwidth cap.
func toneLength(freq uint32) int {
	if freq == 0 {
		return 0
	}
	length := uint32(DefaultToneLength)
	if length*freq > maxToneBandwidth {
		length = maxToneBandwidth / freq
	}
	return int(length)
}

// sineSample materializes one cycle of a sine wave as unsigned 16-bit
// samples centered on 2^15. Played in a loop at length*freq samples per
// second this produces a tone at freq Hz.
func sineSample(length int) []uint16 {
	const volume = 1<<15 - 1
	const shift = 1 << 15
	buf := make([]uint16, length)
	for i := range buf {
		buf[i] = uint16(volume*math.Sin(2*math.Pi*float64(i)/float64(length)) + shift)
	}
	return buf
}
