// Package replay reconstructs a recorded timeline's original pacing and
// synthesises native input events for it, implementing the deterministic
// replay engine: iterate events in order, sleep the scaled
// inter-event gap, then dispatch the event's synthesis through an
// injectable Synthesizer (pkg/input's robotgo-backed primitives by
// default).
package replay

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/corvidlabs/deskctl/pkg/deskerr"
	"github.com/corvidlabs/deskctl/pkg/keytable"
	"github.com/corvidlabs/deskctl/pkg/platform"
	"github.com/corvidlabs/deskctl/pkg/logging"
	"github.com/corvidlabs/deskctl/pkg/workflow"
)

// Stats accumulates counts of each synthesis kind performed during a
// replay.
type Stats struct {
	Clicks    int
	Moves     int
	Scrolls   int
	Keys      int
	TextChars int
}

// Synthesizer is the set of native input operations a replay drives.
// Engine depends only on this interface so tests can exercise scheduling
// and dispatch logic against a fake, never the real OS.
type Synthesizer interface {
	MoveTo(x, y int) error
	MouseDown(button workflow.Button) error
	MouseUp(button workflow.Button) error
	Scroll(x, y, dx, dy int) error
	KeyDown(name string, mods workflow.Modifiers) error
	KeyUp(name string, mods workflow.Modifiers) error
}

// Per-event synthesis pacing: move-to-down settle, key down/up
// settle, inter-click gap for multi-click, and inter-character pacing for
// Text replay.
const (
	moveSettleDelay = 10 * time.Millisecond
	keySettleDelay  = 10 * time.Millisecond
	interClickDelay = 50 * time.Millisecond
	interCharDelay  = 20 * time.Millisecond
)

// Engine replays a RecordedWorkflow through a Synthesizer.
type Engine struct {
	synth Synthesizer
}

// New creates an Engine using the platform default Synthesizer.
func New() *Engine {
	return &Engine{synth: newDefaultSynthesizer()}
}

// NewWithSynthesizer creates an Engine against a caller-provided
// Synthesizer, for tests and embedding.
func NewWithSynthesizer(s Synthesizer) *Engine {
	return &Engine{synth: s}
}

// Replay reconstructs wf's original timeline at the given speed
// multiplier (sleep (e.t-last_t)/speed between consecutive events) and dispatches each event's synthesis in order.
// speed must be > 0; callers validate this before calling Replay.
// ctx cancellation is checked between events and during each sleep,
// returning immediately with whatever Stats were accumulated so far.
func (e *Engine) Replay(ctx context.Context, wf workflow.RecordedWorkflow, speed float64) (Stats, error) {
	if speed <= 0 {
		return Stats{}, deskerr.New(deskerr.CodeActionFailed, "replay speed must be > 0")
	}

	logging.Info("replay: starting", zap.Int("events", len(wf.Events)), zap.Float64("speed", speed))

	var stats Stats
	var lastT uint64

	for _, ev := range wf.Events {
		if err := sleepScaled(ctx, ev.T, lastT, speed); err != nil {
			logging.Warn("replay: interrupted", zap.Error(err), zap.Any("stats", stats))
			return stats, err
		}
		lastT = ev.T

		if err := ctx.Err(); err != nil {
			logging.Warn("replay: interrupted", zap.Error(err), zap.Any("stats", stats))
			return stats, err
		}

		e.dispatch(ev, &stats)
	}

	logging.Info("replay: finished", zap.Any("stats", stats))
	return stats, nil
}

// sleepScaled sleeps (t-last)/speed milliseconds, respecting ctx
// cancellation. t is assumed >= last per the recorded timeline's
// monotonic ordering; a regression (out-of-order async event) is
// treated as a zero-length gap rather than a negative sleep.
func sleepScaled(ctx context.Context, t, last uint64, speed float64) error {
	if t <= last {
		return ctx.Err()
	}
	gapMs := float64(t-last) / speed
	timer := time.NewTimer(time.Duration(gapMs * float64(time.Millisecond)))
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) dispatch(ev workflow.Event, stats *Stats) {
	switch ev.Data.Tag {
	case workflow.TagClick:
		e.replayClick(ev.Data.Click, stats)
	case workflow.TagMove:
		e.replayMove(ev.Data.Move, stats)
	case workflow.TagScroll:
		e.replayScroll(ev.Data.Scroll, stats)
	case workflow.TagKey:
		e.replayKey(ev.Data.Key, stats)
	case workflow.TagText:
		e.replayText(ev.Data.Text, stats)
	// App, Window, Paste, Context are descriptive metadata recorded
	// alongside the timeline - replay has nothing to synthesize for
	// them; only the five actionable kinds above are replayed.
	default:
	}
}

func (e *Engine) replayClick(c *workflow.Click, stats *Stats) {
	if c == nil {
		return
	}
	if err := e.synth.MoveTo(c.X, c.Y); err != nil {
		logging.Debug("replay: click move-to failed", zap.Error(err))
		return
	}
	time.Sleep(moveSettleDelay)
	clicks := c.Clicks
	if clicks < 1 {
		clicks = 1
	}
	for i := 0; i < clicks; i++ {
		if err := e.synth.MouseDown(c.Button); err != nil {
			logging.Debug("replay: mouse down failed", zap.Error(err))
			return
		}
		if err := e.synth.MouseUp(c.Button); err != nil {
			logging.Debug("replay: mouse up failed", zap.Error(err))
			return
		}
		if i < clicks-1 {
			time.Sleep(interClickDelay)
		}
	}
	stats.Clicks++
}

func (e *Engine) replayMove(m *workflow.Move, stats *Stats) {
	if m == nil {
		return
	}
	if err := e.synth.MoveTo(m.X, m.Y); err == nil {
		stats.Moves++
	} else {
		logging.Debug("replay: move failed", zap.Error(err))
	}
}

// replayScroll preserves the recorded sign of dx/dy on both platforms:
// a scroll recorded upward always replays upward. Windows wheel deltas
// are rescaled back to raw 120-per-line units.
func (e *Engine) replayScroll(s *workflow.Scroll, stats *Stats) {
	if s == nil {
		return
	}
	dx, dy := s.Dx, s.Dy
	if platform.IsWindows() {
		dx, dy = dx*120, dy*120
	}
	if err := e.synth.Scroll(s.X, s.Y, dx, dy); err == nil {
		stats.Scrolls++
	} else {
		logging.Debug("replay: scroll failed", zap.Error(err))
	}
}

// replayKey synthesizes a Key event (a non-text key or a modified combo
// such as Cmd+C) via the platform's keycode tables - the named
// non-printable keys first, then the unshifted character of a printable
// key: key-down with the recorded modifiers, settle, key-up with the same
// modifiers. A keycode absent from both tables is silently skipped -
// keycodes are platform-specific, so a workflow recorded on another
// platform is not replayable here.
func (e *Engine) replayKey(k *workflow.Key, stats *Stats) {
	if k == nil {
		return
	}
	name, ok := keyName(k.Keycode)
	if !ok {
		return
	}
	if err := e.synth.KeyDown(name, k.Mods); err != nil {
		logging.Debug("replay: key down failed", zap.String("key", name), zap.Error(err))
		return
	}
	time.Sleep(keySettleDelay)
	if err := e.synth.KeyUp(name, k.Mods); err == nil {
		stats.Keys++
	} else {
		logging.Debug("replay: key up failed", zap.String("key", name), zap.Error(err))
	}
}

// replayText synthesizes a coalesced text run one character at a time,
// looking up each rune's keycode+shift through the platform's reverse
// character table purely to decide whether it is replayable; a rune
// absent from the table is skipped rather than aborting the run.
func (e *Engine) replayText(t *workflow.Text, stats *Stats) {
	if t == nil || t.Value == "" {
		return
	}
	for _, ch := range t.Value {
		name, shift, ok := charKeyName(ch)
		if !ok {
			continue
		}
		mods := workflow.Modifiers(0)
		if shift {
			mods = workflow.ModShift
		}
		if err := e.synth.KeyDown(name, mods); err != nil {
			continue
		}
		time.Sleep(keySettleDelay)
		if err := e.synth.KeyUp(name, mods); err != nil {
			continue
		}
		stats.TextChars++
		time.Sleep(interCharDelay)
	}
}

func keyName(keycode uint16) (string, bool) {
	if platform.IsMacOS() {
		if name, ok := keytable.DarwinKeyName(keycode); ok {
			return name, true
		}
		if ch, ok := keytable.DarwinChar(keycode, false); ok {
			return string(ch), true
		}
		return "", false
	}
	if name, ok := keytable.WinKeyName(keycode); ok {
		return name, true
	}
	if ch, ok := keytable.WinChar(keycode, false); ok {
		return string(ch), true
	}
	return "", false
}

// charKeyName resolves a rune to a robotgo key name plus whether Shift
// must be held, using the platform's reverse character table only to
// gate replayability - robotgo itself accepts the literal lowercase
// character as its own key name.
func charKeyName(ch rune) (name string, shift bool, ok bool) {
	if platform.IsMacOS() {
		_, shift, ok = keytable.CharToDarwin(ch)
	} else {
		_, shift, ok = keytable.CharToWin(ch)
	}
	if !ok {
		return "", false, false
	}
	return strings.ToLower(string(ch)), shift, true
}
