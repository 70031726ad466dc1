// Package input provides the robotgo-backed mouse, keyboard, scroll,
// and clipboard primitives shared by the element click fallback
// (pkg/element via pkg/locator) and the replay synthesizer (pkg/replay).
package input

import (
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/go-vgo/robotgo"
)

// Point represents a screen coordinate.
type Point struct {
	X, Y int
}

// MouseButton represents a mouse button.
type MouseButton string

const (
	ButtonLeft   MouseButton = "left"
	ButtonRight  MouseButton = "right"
	ButtonMiddle MouseButton = "center"
)

// ClickXY is a synthesize-func adapter (signature func(x, y int) error)
// suitable for passing to element.Element.Click's fallback parameter.
func ClickXY(x, y int) error {
	return Click(Point{X: x, Y: y})
}

// Click performs a mouse click at the specified coordinates.
func Click(p Point) error {
	robotgo.Move(p.X, p.Y)
	time.Sleep(10 * time.Millisecond) // Small delay for reliability
	robotgo.Click("left", false)
	return nil
}

// MoveTo moves the mouse cursor to the specified coordinates.
func MoveTo(p Point) error {
	robotgo.Move(p.X, p.Y)
	return nil
}

// MouseDown presses the given button down without releasing it, at the
// current cursor position. Used by pkg/replay to synthesize a Click
// event's down edge independently from its up edge.
func MouseDown(button MouseButton) error {
	robotgo.Toggle(string(button), "down")
	return nil
}

// MouseUp releases the given button.
func MouseUp(button MouseButton) error {
	robotgo.Toggle(string(button), "up")
	return nil
}

// ScrollAt performs a scroll operation at the specified coordinates.
func ScrollAt(p Point, deltaX, deltaY int) error {
	robotgo.Move(p.X, p.Y)
	time.Sleep(10 * time.Millisecond)
	robotgo.Scroll(deltaX, deltaY)
	return nil
}

// KeyDown presses a key down (without releasing).
func KeyDown(key string) error {
	robotgo.KeyToggle(normalizeKeyName(key), "down")
	return nil
}

// KeyUp releases a key.
func KeyUp(key string) error {
	robotgo.KeyToggle(normalizeKeyName(key), "up")
	return nil
}

// normalizeKeyName converts the key aliases pkg/keytable and the replay
// modifier mapping hand out into robotgo's canonical names.
func normalizeKeyName(key string) string {
	key = strings.ToLower(key)

	switch key {
	case "return":
		return "enter"
	case "esc":
		return "escape"
	case "option":
		return "alt"
	case "control":
		return "ctrl"
	case "command", "meta", "win":
		return "cmd"
	default:
		return key
	}
}

// ReadFromClipboard reads text from the system clipboard using the
// native clipboard API directly (no shell-out).
func ReadFromClipboard() (string, error) {
	return clipboard.ReadAll()
}
