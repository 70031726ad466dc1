// Package capture implements the event-capture pipeline: a global
// input tap (T-tap) running alongside a focused-window/app observer
// (T-focus), feeding a bounded, drop-on-overflow channel of workflow.Event
// with keystrokes coalesced into text runs, clipboard operations enriched,
// and per-click UI context resolved asynchronously.
//
// The tap callback itself (tap_darwin.go / tap_other.go) does only field
// extraction and a non-blocking channel send - every a11y query and
// clipboard read runs on a spawned goroutine, never on the tap's own
// thread.
package capture

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/corvidlabs/deskctl/pkg/config"
	"github.com/corvidlabs/deskctl/pkg/deskerr"
	"github.com/corvidlabs/deskctl/pkg/element"
	"github.com/corvidlabs/deskctl/pkg/logging"
	"github.com/corvidlabs/deskctl/pkg/workflow"
)

// idleCheckInterval is how often the consumer loop checks the text
// coalescer's idle timeout; it is independent of cfg.TextTimeoutMs, which
// only sets the threshold being checked.
const idleCheckInterval = 20 * time.Millisecond

// helperJoinDeadline bounds how long Stop waits for ephemeral
// clipboard/context helper goroutines before giving up.
const helperJoinDeadline = 2 * time.Second

// Recorder runs the two long-lived capture goroutines (T-tap, T-focus)
// plus a single consumer goroutine that owns the text coalescer and mouse
// sampler, turning raw tap events into workflow.Events.
type Recorder struct {
	cfg    config.CaptureConfig
	finder *element.Finder // nil disables context resolution and focus polling

	sessionID string
	start     time.Time

	rawCh   chan rawEvent
	eventCh chan workflow.Event

	coalescer textCoalescer
	sampler   *mouseSampler

	stopCh   chan struct{}
	stopOnce sync.Once
	stopped  atomic.Bool

	wg      sync.WaitGroup // T-tap, T-focus, consumer loop
	helpers sync.WaitGroup // ephemeral clipboard/context resolvers
}

// New creates a Recorder. finder may be nil, which disables the click
// context resolver and the focus poller (automation-less capture).
func New(cfg config.CaptureConfig, finder *element.Finder) *Recorder {
	defaults := config.Default().Capture
	capacity := cfg.ChannelCapacity
	if capacity <= 0 {
		capacity = defaults.ChannelCapacity
	}
	// A zero MouseMoveThresholdPx is meaningful (emit every move); the
	// timing knobs are not, so zero falls back to the defaults.
	if cfg.TextTimeoutMs <= 0 {
		cfg.TextTimeoutMs = defaults.TextTimeoutMs
	}
	if cfg.FocusPollMs <= 0 {
		cfg.FocusPollMs = defaults.FocusPollMs
	}
	return &Recorder{
		cfg:       cfg,
		finder:    finder,
		sessionID: uuid.NewString(),
		sampler:   newMouseSampler(cfg.MouseMoveThresholdPx),
		rawCh:     make(chan rawEvent, capacity),
		eventCh:   make(chan workflow.Event, capacity),
		stopCh:    make(chan struct{}),
	}
}

// SessionID returns the session identifier assigned at construction,
// suitable for RecordedWorkflow.SessionID.
func (r *Recorder) SessionID() string { return r.sessionID }

// Start installs the platform tap and begins the consumer and focus
// loops. Start must not be called more than once per Recorder.
func (r *Recorder) Start() error {
	if r.stopped.Load() {
		return deskerr.New(deskerr.CodeActionFailed, "recorder already stopped; create a new Recorder to record again")
	}
	if startTapFunc == nil {
		return deskerr.New(deskerr.CodeNotImplemented, "no input tap registered for this platform")
	}

	r.start = time.Now()

	r.wg.Add(2)
	go r.runConsumeLoop()
	go r.runFocusLoop()

	r.wg.Add(1)
	if err := startTapFunc(r.rawCh, r.stopCh, r.wg.Done); err != nil {
		r.wg.Done()
		logging.Error("capture: failed to start input tap", zap.String("session_id", r.sessionID), zap.Error(err))
		return deskerr.Wrap(err, deskerr.CodePermissionDenied, "failed to start input tap")
	}
	logging.Info("capture: tap started", zap.String("session_id", r.sessionID))
	return nil
}

// Stop signals every goroutine to wind down: the consumer loop drains
// remaining raw events, flushes the pending text buffer, then every
// goroutine is joined; ephemeral helpers (clipboard/context resolvers) get
// a soft deadline rather than blocking Stop indefinitely. Safe to call
// more than once; only the first call has effect.
func (r *Recorder) Stop() {
	r.stopOnce.Do(func() {
		r.stopped.Store(true)
		close(r.stopCh)
		r.wg.Wait()

		done := make(chan struct{})
		go func() {
			r.helpers.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(helperJoinDeadline):
			logging.Warn("capture: helper goroutines still running past join deadline",
				zap.String("session_id", r.sessionID), zap.Duration("deadline", helperJoinDeadline))
		}
		close(r.eventCh)
		logging.Info("capture: session stopped", zap.String("session_id", r.sessionID),
			zap.Duration("duration", time.Since(r.start)))
	})
}

// Events returns the channel of captured events for ranging. It closes
// once Stop has fully drained and flushed.
func (r *Recorder) Events() <-chan workflow.Event { return r.eventCh }

// TryRecv is the non-blocking receive variant.
func (r *Recorder) TryRecv() (workflow.Event, bool) {
	select {
	case e, ok := <-r.eventCh:
		return e, ok
	default:
		return workflow.Event{}, false
	}
}

// RecvTimeout blocks for at most d waiting for the next event.
func (r *Recorder) RecvTimeout(d time.Duration) (workflow.Event, bool) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case e, ok := <-r.eventCh:
		return e, ok
	case <-timer.C:
		return workflow.Event{}, false
	}
}

func (r *Recorder) msSince(t time.Time) uint64 {
	d := t.Sub(r.start)
	if d < 0 {
		return 0
	}
	return uint64(d.Milliseconds())
}

func (r *Recorder) elapsedMs() uint64 { return r.msSince(time.Now()) }

// trySendEvent is the single non-blocking send point onto the bounded
// event channel - full channel drops the event silently.
func (r *Recorder) trySendEvent(e workflow.Event) {
	select {
	case r.eventCh <- e:
	default:
	}
}

// runConsumeLoop is the single consumer of rawCh: it owns the text
// coalescer and mouse sampler (neither needs its own lock because only
// this goroutine ever touches them), translating raw tap events into
// workflow.Events and checking the idle-flush timeout on a fixed tick.
func (r *Recorder) runConsumeLoop() {
	defer r.wg.Done()

	ticker := time.NewTicker(idleCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			r.drainRaw()
			r.flushCoalescerAtStop()
			return
		case raw := <-r.rawCh:
			r.handleRaw(raw)
		case <-ticker.C:
			r.checkIdleFlush()
		}
	}
}

// drainRaw processes every rawEvent still queued at stop time, so nothing
// captured right before Stop is silently lost.
func (r *Recorder) drainRaw() {
	for {
		select {
		case raw := <-r.rawCh:
			r.handleRaw(raw)
		default:
			return
		}
	}
}

func (r *Recorder) handleRaw(raw rawEvent) {
	switch raw.kind {
	case rawMouseDown:
		r.handleMouseDown(raw)
	case rawMouseMove:
		r.handleMouseMove(raw)
	case rawScroll:
		r.handleScroll(raw)
	case rawKeyDown:
		r.handleKeyDown(raw)
	}
}

func (r *Recorder) handleMouseDown(raw rawEvent) {
	t := r.msSince(raw.t)
	r.trySendEvent(workflow.Event{
		T: t,
		Data: workflow.EventData{
			Tag:   workflow.TagClick,
			Click: &workflow.Click{X: raw.x, Y: raw.y, Button: raw.button, Clicks: raw.clicks, Mods: raw.mods},
		},
	})
	if r.cfg.CaptureContext && r.finder != nil {
		r.resolveContext(raw.x, raw.y, t)
	}
}

func (r *Recorder) handleMouseMove(raw rawEvent) {
	if !r.sampler.shouldEmit(float64(raw.x), float64(raw.y)) {
		return
	}
	r.trySendEvent(workflow.Event{
		T:    r.msSince(raw.t),
		Data: workflow.EventData{Tag: workflow.TagMove, Move: &workflow.Move{X: raw.x, Y: raw.y}},
	})
}

func (r *Recorder) handleScroll(raw rawEvent) {
	r.trySendEvent(workflow.Event{
		T:    r.msSince(raw.t),
		Data: workflow.EventData{Tag: workflow.TagScroll, Scroll: &workflow.Scroll{X: raw.x, Y: raw.y, Dx: raw.dx, Dy: raw.dy}},
	})
}

// handleKeyDown implements the flush-before-key rule: a printable
// keystroke with no CMD/CTRL modifier is buffered; anything else flushes
// the pending text buffer first, resolves a clipboard combo if present,
// then emits the Key event itself.
func (r *Recorder) handleKeyDown(raw rawEvent) {
	if ch, ok := printableChar(raw.keycode, raw.mods); ok {
		r.coalescer.push(ch, r.msSince(raw.t))
		return
	}

	r.flushCoalescer()

	t := r.msSince(raw.t)
	if op, ok := clipboardOpFor(raw.keycode, raw.mods); ok {
		if op == workflow.ClipboardPaste {
			r.resolvePasteSync(t)
		} else {
			r.resolveCopyOrCut(op, t)
		}
	}

	r.trySendEvent(workflow.Event{
		T:    t,
		Data: workflow.EventData{Tag: workflow.TagKey, Key: &workflow.Key{Keycode: raw.keycode, Mods: raw.mods}},
	})
}

func (r *Recorder) checkIdleFlush() {
	now := r.elapsedMs()
	if r.coalescer.idleElapsed(now, uint64(r.cfg.TextTimeoutMs)) {
		r.flushCoalescer()
	}
}

func (r *Recorder) flushCoalescer() {
	if text, t, ok := r.coalescer.flush(); ok {
		r.trySendEvent(workflow.Event{T: t, Data: workflow.EventData{Tag: workflow.TagText, Text: &workflow.Text{Value: text}}})
	}
}

// flushCoalescerAtStop is the stop-time variant: the Text event's t is
// the elapsed time at stop, not the buffer's last_time. Consumers using
// Text.t to locate the first keystroke must account for the difference
// between the two flush paths.
func (r *Recorder) flushCoalescerAtStop() {
	if text, _, ok := r.coalescer.flush(); ok {
		r.trySendEvent(workflow.Event{T: r.elapsedMs(), Data: workflow.EventData{Tag: workflow.TagText, Text: &workflow.Text{Value: text}}})
	}
}

// resolveContext spawns a goroutine calling element_at(x,y) via
// pkg/element and emits a Context event. This must run off the tap thread
// since a11y queries can stall tens of milliseconds; any failure is
// dropped silently, matching the best-effort policy for capture helpers.
func (r *Recorder) resolveContext(x, y int, t uint64) {
	r.helpers.Add(1)
	go func() {
		defer r.helpers.Done()
		el, err := r.finder.ElementAt(x, y)
		if err != nil {
			return
		}
		r.trySendEvent(workflow.Event{
			T: t,
			Data: workflow.EventData{
				Tag:     workflow.TagContext,
				Context: &workflow.Context{Role: string(el.Role), Name: el.Name, Value: el.Value},
			},
		})
	}()
}
