//go:build !darwin

package capture

import (
	"time"

	hook "github.com/robotn/gohook"

	"github.com/corvidlabs/deskctl/pkg/deskerr"
	"github.com/corvidlabs/deskctl/pkg/platform"
	"github.com/corvidlabs/deskctl/pkg/workflow"
)

// Windows VK_* codes for the four modifier keys this tap tracks itself -
// gohook reports raw key events but not a ready-made modifier bitmask, so
// the consuming goroutine below folds down/up pairs into a running mask
// the same way the Carbon side folds CGEventFlags.
const (
	vkShift   = 0x10
	vkControl = 0x11
	vkMenu    = 0x12
	vkLWin    = 0x5B
	vkRWin    = 0x5C
)

func otherStartTap(raw chan<- rawEvent, stop <-chan struct{}, done func()) error {
	if perms, _ := checkOtherPermissions(); !perms.InputMonitoring {
		return deskerr.New(deskerr.CodePermissionDenied, "input monitoring unavailable on this session").
			WithSuggestions("run under an active display session")
	}

	evCh := hook.Start()

	go func() {
		defer done()
		defer hook.End()

		var mods workflow.Modifiers
		for {
			select {
			case <-stop:
				return
			case ev, ok := <-evCh:
				if !ok {
					return
				}
				handleHookEvent(ev, &mods, raw)
			}
		}
	}()

	return nil
}

func handleHookEvent(ev hook.Event, mods *workflow.Modifiers, raw chan<- rawEvent) {
	now := time.Now()

	switch ev.Kind {
	case hook.KeyDown:
		updateModifiers(mods, uint16(ev.Rawcode), true)
		if isModifierCode(uint16(ev.Rawcode)) {
			return
		}
		trySendRaw(raw, rawEvent{kind: rawKeyDown, t: now, keycode: uint16(ev.Rawcode), mods: *mods})
	case hook.KeyUp:
		updateModifiers(mods, uint16(ev.Rawcode), false)
	case hook.MouseDown:
		trySendRaw(raw, rawEvent{
			kind: rawMouseDown, t: now,
			x: int(ev.X), y: int(ev.Y),
			button: hookButton(ev.Button), clicks: max1(int(ev.Clicks)), mods: *mods,
		})
	case hook.MouseMove, hook.MouseDrag:
		trySendRaw(raw, rawEvent{kind: rawMouseMove, t: now, x: int(ev.X), y: int(ev.Y)})
	case hook.MouseWheel:
		dx, dy := 0, int(ev.Rotation)
		if ev.Amount == 2 { // gohook reports horizontal wheel via Amount==2
			dx, dy = dy, 0
		}
		if platform.IsWindows() {
			// Windows reports raw wheel delta in multiples of
			// WHEEL_DELTA (120) per notch; recorded events store the
			// platform-normalised line count, so divide it back out here.
			// Replay (pkg/replay) re-multiplies by 120 to resynthesize it.
			dx = divLine(dx)
			dy = divLine(dy)
		}
		trySendRaw(raw, rawEvent{kind: rawScroll, t: now, x: int(ev.X), y: int(ev.Y), dx: dx, dy: dy})
	}
}

func trySendRaw(raw chan<- rawEvent, e rawEvent) {
	select {
	case raw <- e:
	default:
	}
}

func isModifierCode(code uint16) bool {
	switch code {
	case vkShift, vkControl, vkMenu, vkLWin, vkRWin:
		return true
	default:
		return false
	}
}

func updateModifiers(mods *workflow.Modifiers, code uint16, down bool) {
	var bit workflow.Modifiers
	switch code {
	case vkShift:
		bit = workflow.ModShift
	case vkControl:
		bit = workflow.ModCtrl
	case vkMenu:
		bit = workflow.ModOpt
	case vkLWin, vkRWin:
		bit = workflow.ModCmd
	default:
		return
	}
	if down {
		*mods |= bit
	} else {
		*mods &^= bit
	}
}

func hookButton(b uint8) workflow.Button {
	switch b {
	case 2:
		return workflow.ButtonRight
	case 3:
		return workflow.ButtonMiddle
	default:
		return workflow.ButtonLeft
	}
}

// divLine normalises a raw Windows wheel delta to a signed line count,
// truncating toward zero and never collapsing a genuine
// non-zero delta smaller than one notch to zero.
func divLine(raw int) int {
	if raw == 0 {
		return 0
	}
	lines := raw / 120
	if lines == 0 {
		if raw > 0 {
			return 1
		}
		return -1
	}
	return lines
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func init() {
	startTapFunc = otherStartTap
}
