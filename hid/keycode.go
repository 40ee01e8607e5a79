// Package hid holds USB HID usage constants and the ASCII-to-keycode
// layout used to type text through an opaque keyboard endpoint. Report
// encoding and descriptor work stay with the endpoint implementation.
package hid

import "macropad-go/types"

// Keyboard usage codes (USB HID Keyboard/Keypad usage page).
const (
	KeyA types.Keycode = 0x04 + iota
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	Key0
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyTab
	KeySpace
	KeyMinus
	KeyEquals
	KeyLeftBracket
	KeyRightBracket
	KeyBackslash
	KeyPound
	KeySemicolon
	KeyQuote
	KeyGrave
	KeyComma
	KeyPeriod
	KeySlash
	KeyCapsLock
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

const (
	KeyHome     types.Keycode = 0x4A
	KeyPageUp   types.Keycode = 0x4B
	KeyDelete   types.Keycode = 0x4C
	KeyEnd      types.Keycode = 0x4D
	KeyPageDown types.Keycode = 0x4E
	KeyRight    types.Keycode = 0x4F
	KeyLeft     types.Keycode = 0x50
	KeyDown     types.Keycode = 0x51
	KeyUp       types.Keycode = 0x52
)

// Modifier keycodes.
const (
	KeyLeftCtrl types.Keycode = 0xE0 + iota
	KeyLeftShift
	KeyLeftAlt
	KeyLeftGUI
	KeyRightCtrl
	KeyRightShift
	KeyRightAlt
	KeyRightGUI
)

// Consumer-control usages.
const (
	ConsumerPlayPause       types.ConsumerCode = 0xCD
	ConsumerScanNextTrack   types.ConsumerCode = 0xB5
	ConsumerScanPrevTrack   types.ConsumerCode = 0xB6
	ConsumerStop            types.ConsumerCode = 0xB7
	ConsumerEject           types.ConsumerCode = 0xB8
	ConsumerMute            types.ConsumerCode = 0xE2
	ConsumerVolumeIncrement types.ConsumerCode = 0xE9
	ConsumerVolumeDecrement types.ConsumerCode = 0xEA
	ConsumerBrightnessUp    types.ConsumerCode = 0x6F
	ConsumerBrightnessDown  types.ConsumerCode = 0x70
	ConsumerRecord          types.ConsumerCode = 0xB2
	ConsumerFastForward     types.ConsumerCode = 0xB3
	ConsumerRewind          types.ConsumerCode = 0xB4
)
