package capture

import "strings"

// coalescerState is the text buffer's two-state machine.
type coalescerState int

const (
	stateEmpty coalescerState = iota
	stateBuffering
)

// textCoalescer accumulates consecutive printable keystrokes into a
// single Text event, flushing on a non-printable/modified key, an idle
// timeout, or Stop(). It holds no goroutine or lock of its own - the
// recorder's single consumer loop owns it, so access is not concurrent.
type textCoalescer struct {
	state     coalescerState
	buf       strings.Builder
	firstTime uint64
	lastTime  uint64
}

// push appends ch captured at time t, entering Buffering if Empty.
func (c *textCoalescer) push(ch rune, t uint64) {
	if c.state == stateEmpty {
		c.state = stateBuffering
		c.firstTime = t
	}
	c.buf.WriteRune(ch)
	c.lastTime = t
}

// idleElapsed reports whether now-lastTime has reached timeout while
// Buffering. Empty never times out.
func (c *textCoalescer) idleElapsed(now uint64, timeoutMs uint64) bool {
	return c.state == stateBuffering && now-c.lastTime >= timeoutMs
}

// flush returns the buffered text and its emission timestamp
// (the buffer's last_time), resetting to Empty. Returns ok=false
// if there was nothing buffered.
func (c *textCoalescer) flush() (text string, t uint64, ok bool) {
	if c.state == stateEmpty {
		return "", 0, false
	}
	text = c.buf.String()
	t = c.lastTime
	c.buf.Reset()
	c.state = stateEmpty
	c.firstTime, c.lastTime = 0, 0
	return text, t, true
}
