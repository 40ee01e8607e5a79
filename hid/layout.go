package hid

import (
	"macropad-go/errcode"
	"macropad-go/types"
)

// LayoutUS types ASCII text on a keyboard endpoint using the US mapping.
// The active keycode table is owned by the instance; there is no
// process-wide table.
type LayoutUS struct {
	kbd   types.Keyboard
	table [128]layoutEntry
}

type layoutEntry struct {
	code  types.Keycode
	shift bool
}

// NewLayoutUS binds the US table to a keyboard endpoint.
func NewLayoutUS(kbd types.Keyboard) *LayoutUS {
	l := &LayoutUS{kbd: kbd}
	l.table = usTable()
	return l
}

// Keycodes returns the codes needed to type one ASCII character: the key
// itself, preceded by left shift when required.
func (l *LayoutUS) Keycodes(ch byte) ([]types.Keycode, error) {
	if ch >= 128 || l.table[ch].code == 0 {
		return nil, &errcode.E{C: errcode.Unsupported, Op: "hid.Keycodes", Msg: "character not in layout"}
	}
	e := l.table[ch]
	if e.shift {
		return []types.Keycode{KeyLeftShift, e.code}, nil
	}
	return []types.Keycode{e.code}, nil
}

// Write types s one character at a time, pressing and releasing each
// chord in order.
func (l *LayoutUS) Write(s string) error {
	for i := 0; i < len(s); i++ {
		codes, err := l.Keycodes(s[i])
		if err != nil {
			return err
		}
		if err := l.kbd.Press(codes...); err != nil {
			return err
		}
		if err := l.kbd.ReleaseAll(); err != nil {
			return err
		}
	}
	return nil
}

func usTable() [128]layoutEntry {
	var t [128]layoutEntry

	for i := 0; i < 26; i++ {
		t['a'+i] = layoutEntry{code: KeyA + types.Keycode(i)}
		t['A'+i] = layoutEntry{code: KeyA + types.Keycode(i), shift: true}
	}
	for i := 0; i < 9; i++ {
		t['1'+i] = layoutEntry{code: Key1 + types.Keycode(i)}
	}
	t['0'] = layoutEntry{code: Key0}

	t['\n'] = layoutEntry{code: KeyEnter}
	t['\t'] = layoutEntry{code: KeyTab}
	t[' '] = layoutEntry{code: KeySpace}
	t['-'] = layoutEntry{code: KeyMinus}
	t['='] = layoutEntry{code: KeyEquals}
	t['['] = layoutEntry{code: KeyLeftBracket}
	t[']'] = layoutEntry{code: KeyRightBracket}
	t['\\'] = layoutEntry{code: KeyBackslash}
	t[';'] = layoutEntry{code: KeySemicolon}
	t['\''] = layoutEntry{code: KeyQuote}
	t['`'] = layoutEntry{code: KeyGrave}
	t[','] = layoutEntry{code: KeyComma}
	t['.'] = layoutEntry{code: KeyPeriod}
	t['/'] = layoutEntry{code: KeySlash}

	shifted := map[byte]byte{
		'!': '1', '@': '2', '#': '3', '$': '4', '%': '5',
		'^': '6', '&': '7', '*': '8', '(': '9', ')': '0',
		'_': '-', '+': '=', '{': '[', '}': ']', '|': '\\',
		':': ';', '"': '\'', '~': '`', '<': ',', '>': '.', '?': '/',
	}
	for from, base := range shifted {
		t[from] = layoutEntry{code: t[base].code, shift: true}
	}
	return t
}
