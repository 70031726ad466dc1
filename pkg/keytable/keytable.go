// Package keytable maps between raw platform keycodes (as stored in
// recorded workflows) and printable characters /
// robotgo key names. macOS uses Carbon virtual keycodes (0-127);
// Windows uses VK_* virtual-key codes. The two domains are never mixed:
// a workflow recorded on one platform is not replayable on the other.
//
// Coverage matches what pkg/capture's text coalescer and pkg/replay's
// Text synthesis actually need: letters, digits, space, and the most
// common punctuation and control keys. A character or keycode absent
// from these tables is treated as "not printable" / "unmapped" by
// callers - an intentional gap, not an oversight.
package keytable

// darwinToChar maps a Carbon virtual keycode to its unshifted base
// character. Values match the standard macOS HIToolbox keycode
// constants.
var darwinToChar = map[uint16]rune{
	0: 'a', 1: 's', 2: 'd', 3: 'f', 4: 'h', 5: 'g', 6: 'z', 7: 'x', 8: 'c', 9: 'v',
	11: 'b', 12: 'q', 13: 'w', 14: 'e', 15: 'r', 16: 'y', 17: 't',
	18: '1', 19: '2', 20: '3', 21: '4', 22: '6', 23: '5', 24: '=', 25: '9', 26: '7',
	27: '-', 28: '8', 29: '0', 30: ']', 31: 'o', 32: 'u', 33: '[', 34: 'i', 35: 'p',
	37: 'l', 38: 'j', 39: '\'', 40: 'k', 41: ';', 42: '\\', 43: ',', 44: '/',
	45: 'n', 46: 'm', 47: '.', 48: '\t', 49: ' ', 50: '`',
}

var darwinShiftedChar = map[uint16]rune{
	18: '!', 19: '@', 20: '#', 21: '$', 22: '^', 23: '%', 24: '+', 25: '(', 26: '&',
	27: '_', 28: '*', 29: ')',
}

// darwinNonPrintable carries the keycodes for keys the coalescer must
// always treat as non-printable even though they have no character
// mapping (they still flush the text buffer).
var darwinNonPrintable = map[uint16]string{
	36: "enter", 51: "backspace", 53: "escape", 76: "enter",
	123: "left", 124: "right", 125: "down", 126: "up",
	55: "cmd", 56: "shift", 58: "alt", 59: "ctrl", 57: "capslock", 63: "fn",
}

var winToChar = map[uint16]rune{
	0x20: ' ',
	0xBC: ',', 0xBE: '.', 0xBF: '/', 0xBA: ';', 0xDE: '\'',
	0xDB: '[', 0xDD: ']', 0xDC: '\\', 0xBD: '-', 0xBB: '=', 0xC0: '`',
}

var winNonPrintable = map[uint16]string{
	0x0D: "enter", 0x08: "backspace", 0x1B: "escape", 0x09: "tab",
	0x25: "left", 0x27: "right", 0x28: "down", 0x26: "up",
	0x10: "shift", 0x11: "ctrl", 0x12: "alt", 0x5B: "cmd", 0x14: "capslock",
}

func init() {
	for c := rune('a'); c <= 'z'; c++ {
		vk := uint16(c-'a') + 0x41
		winToChar[vk] = c
	}
	for d := rune('0'); d <= '9'; d++ {
		vk := uint16(d-'0') + 0x30
		winToChar[vk] = d
	}
	winNonPrintable[0x09] = "tab"
}

// DarwinChar returns the base character a Carbon keycode produces
// (unshifted unless shift is true), and whether it is printable at all.
func DarwinChar(keycode uint16, shift bool) (rune, bool) {
	if shift {
		if ch, ok := darwinShiftedChar[keycode]; ok {
			return upperIfLetter(ch), true
		}
	}
	if ch, ok := darwinToChar[keycode]; ok {
		if shift {
			return upperIfLetter(ch), true
		}
		return ch, true
	}
	return 0, false
}

// DarwinIsPrintable reports whether keycode names a key the text
// coalescer should buffer (as opposed to flushing and emitting a Key
// event).
func DarwinIsPrintable(keycode uint16) bool {
	_, ok := darwinToChar[keycode]
	return ok
}

// DarwinKeyName returns the robotgo key name for a non-printable Carbon
// keycode, for pkg/replay's Key event synthesis.
func DarwinKeyName(keycode uint16) (string, bool) {
	name, ok := darwinNonPrintable[keycode]
	return name, ok
}

// CharToDarwin reverses DarwinChar for pkg/replay's Text synthesis.
func CharToDarwin(ch rune) (keycode uint16, shift bool, ok bool) {
	lower := lowerIfLetter(ch)
	for kc, c := range darwinToChar {
		if c == lower {
			return kc, lower != ch, true
		}
	}
	for kc, c := range darwinShiftedChar {
		if c == ch {
			return kc, true, true
		}
	}
	return 0, false, false
}

// WinChar returns the character a VK_* code produces.
func WinChar(vk uint16, shift bool) (rune, bool) {
	ch, ok := winToChar[vk]
	if !ok {
		return 0, false
	}
	if shift {
		return upperIfLetter(ch), true
	}
	return ch, true
}

// WinIsPrintable reports whether vk names a printable key.
func WinIsPrintable(vk uint16) bool {
	_, ok := winToChar[vk]
	return ok
}

// WinKeyName returns the robotgo key name for a non-printable VK code.
func WinKeyName(vk uint16) (string, bool) {
	name, ok := winNonPrintable[vk]
	return name, ok
}

// CharToWin reverses WinChar for pkg/replay's Text synthesis.
func CharToWin(ch rune) (vk uint16, shift bool, ok bool) {
	lower := lowerIfLetter(ch)
	for code, c := range winToChar {
		if c == lower {
			return code, lower != ch, true
		}
	}
	return 0, false, false
}

func upperIfLetter(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}

func lowerIfLetter(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}
