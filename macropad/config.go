package macropad

import (
	"encoding/json"

	"macropad-go/errcode"
	"macropad-go/remap"
)

// Config selects the mounting orientation, the MIDI channels and the
// initial pixel brightness.
type Config struct {
	// Rotation is the board orientation in degrees: 0 (USB at the top),
	// 90 (USB to the left), 180 or 270.
	Rotation int `json:"rotation"`

	// MIDIInChannels lists the channels Receive listens on (0..15).
	// Empty means channel 0 only.
	MIDIInChannels []uint8 `json:"midi_in_channels,omitempty"`

	// MIDIOutChannel stamps outgoing messages (0..15).
	MIDIOutChannel uint8 `json:"midi_out_channel"`

	// Brightness is the initial global pixel brightness, 0..1.
	// Nil means the board default of 0.5.
	Brightness *float32 `json:"brightness,omitempty"`
}

// DefaultConfig returns the stock orientation and channel setup.
func DefaultConfig() Config {
	return Config{}
}

// Validate checks ranges without touching hardware.
func (c *Config) Validate() error {
	if _, err := remap.PermutationFor(c.Rotation); err != nil {
		return err
	}
	for _, ch := range c.MIDIInChannels {
		if ch > 15 {
			return &errcode.E{C: errcode.InvalidConfiguration, Op: "macropad.Config", Msg: "midi in channel out of range"}
		}
	}
	if c.MIDIOutChannel > 15 {
		return &errcode.E{C: errcode.InvalidConfiguration, Op: "macropad.Config", Msg: "midi out channel out of range"}
	}
	if c.Brightness != nil && (*c.Brightness < 0 || *c.Brightness > 1) {
		return &errcode.E{C: errcode.InvalidConfiguration, Op: "macropad.Config", Msg: "brightness out of range"}
	}
	return nil
}

func (c *Config) inChannels() []uint8 {
	if len(c.MIDIInChannels) == 0 {
		return []uint8{0}
	}
	return c.MIDIInChannels
}

func (c *Config) brightness() float32 {
	if c.Brightness == nil {
		return 0.5
	}
	return *c.Brightness
}

// ParseConfig decodes a JSON config and validates it.
func ParseConfig(raw []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
