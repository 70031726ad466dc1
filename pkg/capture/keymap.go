package capture

import (
	"github.com/corvidlabs/deskctl/pkg/keytable"
	"github.com/corvidlabs/deskctl/pkg/platform"
	"github.com/corvidlabs/deskctl/pkg/workflow"
)

// printableChar reports whether keycode (captured with the given
// modifiers) names a printable keystroke the text coalescer should
// buffer: no CMD/CTRL modifier present, and the keycode resolves
// through the platform's keycode->char table.
func printableChar(keycode uint16, mods workflow.Modifiers) (ch rune, ok bool) {
	if mods.Has(workflow.ModCtrl) || mods.Has(workflow.ModCmd) {
		return 0, false
	}
	shift := mods.Has(workflow.ModShift)
	if platform.IsMacOS() {
		return keytable.DarwinChar(keycode, shift)
	}
	return keytable.WinChar(keycode, shift)
}

// baseChar returns the unshifted base character a keycode produces,
// ignoring whether modifiers would currently disqualify it as printable -
// used to recognise the C/X/V in a clipboard combo regardless of the
// CMD/CTRL held alongside it.
func baseChar(keycode uint16) (rune, bool) {
	if platform.IsMacOS() {
		return keytable.DarwinChar(keycode, false)
	}
	return keytable.WinChar(keycode, false)
}

// primaryModifierBit maps the platform's combo-forming modifier key
// (platform.PrimaryModifier) onto its recorded bitset flag.
func primaryModifierBit() workflow.Modifiers {
	if platform.PrimaryModifier() == "cmd" {
		return workflow.ModCmd
	}
	return workflow.ModCtrl
}

// clipboardOpFor reports which clipboard operation, if any, keycode
// represents when held with the platform's primary modifier (Cmd on
// macOS, Ctrl elsewhere).
func clipboardOpFor(keycode uint16, mods workflow.Modifiers) (workflow.ClipboardOp, bool) {
	if !mods.Has(primaryModifierBit()) {
		return "", false
	}
	ch, ok := baseChar(keycode)
	if !ok {
		return "", false
	}
	switch ch {
	case 'c':
		return workflow.ClipboardCopy, true
	case 'x':
		return workflow.ClipboardCut, true
	case 'v':
		return workflow.ClipboardPaste, true
	default:
		return "", false
	}
}
