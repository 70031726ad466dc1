package replay

import (
	"github.com/corvidlabs/deskctl/pkg/input"
	"github.com/corvidlabs/deskctl/pkg/workflow"
)

// defaultSynthesizer dispatches through pkg/input, the same robotgo-backed
// primitives the element click fallback already uses for synthesis.
type defaultSynthesizer struct{}

func newDefaultSynthesizer() Synthesizer { return defaultSynthesizer{} }

func (defaultSynthesizer) MoveTo(x, y int) error {
	return input.MoveTo(input.Point{X: x, Y: y})
}

func (defaultSynthesizer) MouseDown(button workflow.Button) error {
	return input.MouseDown(mapButton(button))
}

func (defaultSynthesizer) MouseUp(button workflow.Button) error {
	return input.MouseUp(mapButton(button))
}

func (defaultSynthesizer) Scroll(x, y, dx, dy int) error {
	return input.ScrollAt(input.Point{X: x, Y: y}, dx, dy)
}

func (defaultSynthesizer) KeyDown(name string, mods workflow.Modifiers) error {
	if err := holdModifiers(mods, true); err != nil {
		return err
	}
	return input.KeyDown(name)
}

func (defaultSynthesizer) KeyUp(name string, mods workflow.Modifiers) error {
	if err := input.KeyUp(name); err != nil {
		return err
	}
	return holdModifiers(mods, false)
}

// holdModifiers toggles the recorded modifier keys down (before the
// primary key) or up (after it), keeping the down/up
// pairing symmetric without needing a distinct
// flags-only synthesis primitive.
func holdModifiers(m workflow.Modifiers, down bool) error {
	for _, name := range mapModifiers(m) {
		var err error
		if down {
			err = input.KeyDown(name)
		} else {
			err = input.KeyUp(name)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func mapButton(b workflow.Button) input.MouseButton {
	switch b {
	case workflow.ButtonRight:
		return input.ButtonRight
	case workflow.ButtonMiddle:
		return input.ButtonMiddle
	default:
		return input.ButtonLeft
	}
}

// mapModifiers converts a recorded Modifiers bitset into robotgo
// modifier names, in a fixed order so the synthesized combo is
// deterministic across runs.
func mapModifiers(m workflow.Modifiers) []string {
	var names []string
	if m.Has(workflow.ModCmd) {
		names = append(names, "cmd")
	}
	if m.Has(workflow.ModCtrl) {
		names = append(names, "ctrl")
	}
	if m.Has(workflow.ModOpt) {
		names = append(names, "alt")
	}
	if m.Has(workflow.ModShift) {
		names = append(names, "shift")
	}
	return names
}
