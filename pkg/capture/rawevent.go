package capture

import (
	"time"

	"github.com/corvidlabs/deskctl/pkg/workflow"
)

// rawKind identifies the shape of a rawEvent before it is coalesced and
// enriched into a workflow.Event by the consumer loop.
type rawKind int

const (
	rawMouseDown rawKind = iota
	rawMouseMove
	rawScroll
	rawKeyDown
)

// rawEvent is what a platform tap pushes onto the bounded channel. It
// carries only primitive fields so the tap callback can build one without
// allocating beyond this struct; the callback must never block.
type rawEvent struct {
	kind    rawKind
	t       time.Time
	x, y    int
	button  workflow.Button
	clicks  int
	dx, dy  int
	keycode uint16
	mods    workflow.Modifiers
}

// startTapFunc installs the platform input tap, non-blocking try-sending
// rawEvents onto raw until stop is closed, and calls done exactly once
// when the tap's background goroutine has fully exited. It returns once
// the tap is installed (or has failed to install) - the tap itself keeps
// running on its own goroutine/OS thread. When installation fails it
// returns the error without calling done. Set by tap_darwin.go or
// tap_other.go's init.
var startTapFunc func(raw chan<- rawEvent, stop <-chan struct{}, done func()) error
