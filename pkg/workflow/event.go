// Package workflow defines the recorded-event model and the
// newline-delimited JSONL wire format used to persist and replay
// workflows.
package workflow

// Modifiers is a bitset of held modifier keys at the time an event was
// captured.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModOpt
	ModCmd
	ModCaps
	ModFn
)

// modMask covers the six defined bits; any higher bit is not part of
// the wire format.
const modMask Modifiers = 0x3F

// Flags renders m as the raw wire modifier byte.
func (m Modifiers) Flags() uint8 { return uint8(m & modMask) }

// ModifiersFromFlags reverses Flags, masking off any bit above the six
// defined modifiers so ModifiersFromFlags(m.Flags()) == m for every m in
// 0..=0x3F.
func ModifiersFromFlags(flags uint8) Modifiers { return Modifiers(flags) & modMask }

// Has reports whether m has every bit of other set.
func (m Modifiers) Has(other Modifiers) bool { return m&other == other }

// Button identifies a mouse button in a Click event.
type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

// ClipboardOp identifies which clipboard operation a Paste event records.
type ClipboardOp string

const (
	ClipboardCopy  ClipboardOp = "c"
	ClipboardCut   ClipboardOp = "x"
	ClipboardPaste ClipboardOp = "v"
)

// Tag identifies an EventData variant, matching the single-letter codes
// used on the wire.
type Tag string

const (
	TagClick   Tag = "c"
	TagMove    Tag = "m"
	TagScroll  Tag = "s"
	TagKey     Tag = "k"
	TagText    Tag = "t"
	TagApp     Tag = "a"
	TagWindow  Tag = "w"
	TagPaste   Tag = "p"
	TagContext Tag = "x"
)

// Click is a mouse button down edge.
type Click struct {
	X, Y   int
	Button Button
	Clicks int
	Mods   Modifiers
}

// Move is a sampled mouse movement.
type Move struct {
	X, Y int
}

// Scroll is a wheel event; Dx/Dy are signed line units.
type Scroll struct {
	X, Y   int
	Dx, Dy int
}

// Key is a non-text key or modified combination.
type Key struct {
	Keycode uint16
	Mods    Modifiers
}

// Text is a coalesced run of printable keystrokes.
type Text struct {
	Value string
}

// App records a foreground-application change.
type App struct {
	Name string
	PID  int
}

// Window records a focused-window change within the current app.
type Window struct {
	App   string
	Title string // empty when absent
}

// Paste records a clipboard operation with a truncated content preview.
type Paste struct {
	Op      ClipboardOp
	Preview string // truncated to 100 chars
}

// Context records the element under the most recent click, resolved
// asynchronously (see pkg/capture).
type Context struct {
	Role  string
	Name  string // empty when absent
	Value string // empty when absent
}

// EventData is a tagged union over the nine recordable event kinds.
// Exactly one of the typed fields is populated, selected by Tag.
type EventData struct {
	Tag Tag

	Click   *Click
	Move    *Move
	Scroll  *Scroll
	Key     *Key
	Text    *Text
	App     *App
	Window  *Window
	Paste   *Paste
	Context *Context
}

// Event is one recorded occurrence: t is milliseconds since recording
// start.
type Event struct {
	T    uint64
	Data EventData
}

// RecordedWorkflow is a named, ordered sequence of recorded events.
// Ordering invariant: events[i].T <= events[i+1].T only holds for events
// originating from the same thread - async-resolved Context/Paste
// variants may arrive slightly later; sort by T if strict order
// matters.
type RecordedWorkflow struct {
	Name string
	// SessionID correlates a recording with its companion replay-stats
	// log; assigned once when recording starts.
	SessionID string
	Events    []Event
}
