// cmd/padtest/main.go
package main

import (
	"os"
	"time"

	"macropad-go/internal/platform"
	"macropad-go/macropad"
	"macropad-go/pixels"
	"macropad-go/x/fmtx"
)

// ---------- Configuration ----------

const (
	frameDelay = 50 * time.Millisecond
	toneFreq   = 440
	toneSecs   = 0.2

	// Cycles: 0 = loop forever
	cyclesToRun = 3
)

func main() {
	hw, err := platform.DefaultHardware()
	if err != nil {
		fmtx.Printf("hardware: %v\n", err)
		os.Exit(1)
	}

	pad, err := macropad.New(macropad.Config{}, hw)
	if err != nil {
		fmtx.Printf("macropad: %v\n", err)
		os.Exit(1)
	}
	defer pad.Close()

	lines := pad.DisplayText("padtest")
	lines.SetLine(0, "press keys / turn knob")
	if err := lines.Show(); err != nil {
		fmtx.Printf("display: %v\n", err)
	}

	if err := pad.PlayTone(toneFreq, toneSecs); err != nil {
		fmtx.Printf("tone: %v\n", err)
	}

	rotations := []int{0, 90, 180, 270}
	nextRot := 1

	lastPos := pad.Encoder()
	for cycle := 0; cyclesToRun == 0 || cycle < cyclesToRun; cycle++ {
		for offset := 0; offset < 256; offset += 8 {
			px := pad.Pixels()
			for i := 0; i < px.Len(); i++ {
				if err := px.Set(i, pixels.Wheel(uint8(offset+i*256/px.Len()))); err != nil {
					fmtx.Printf("pixel %d: %v\n", i, err)
				}
			}
			if err := px.Show(); err != nil {
				fmtx.Printf("pixels: %v\n", err)
			}

			for {
				ev, ok := pad.Keys().NextEvent()
				if !ok {
					break
				}
				fmtx.Printf("key %d pressed=%t\n", ev.KeyNumber, ev.Pressed)
				pad.SetRedLED(ev.Pressed)
				if ev.Pressed {
					if err := pad.PlayTone(toneFreq+uint32(ev.KeyNumber)*50, toneSecs); err != nil {
						fmtx.Printf("tone: %v\n", err)
					}
				}
			}

			if pos := pad.Encoder(); pos != lastPos {
				fmtx.Printf("encoder %d\n", pos)
				lastPos = pos
			}

			sw := pad.EncoderSwitchDebounced()
			sw.Update()
			if sw.Pressed() {
				rot := rotations[nextRot%len(rotations)]
				nextRot++
				if err := pad.SetRotation(rot); err != nil {
					fmtx.Printf("rotation: %v\n", err)
				} else {
					fmtx.Printf("rotation %d\n", rot)
				}
			}

			time.Sleep(frameDelay)
		}
	}

	fmtx.Printf("done\n")
}
