// Package locator composes a selector, an optional root, and a timeout
// into a polled element lookup: Find, Wait, WaitGone, Exists, and
// the composite Click/TypeText actions.
package locator

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/corvidlabs/deskctl/pkg/deskerr"
	"github.com/corvidlabs/deskctl/pkg/element"
	"github.com/corvidlabs/deskctl/pkg/input"
	"github.com/corvidlabs/deskctl/pkg/logging"
	"github.com/corvidlabs/deskctl/pkg/selector"
)

const (
	// DefaultTimeout is used when Config.Timeout is zero.
	DefaultTimeout = 5 * time.Second
	// DefaultMaxDepth is used when Config.MaxDepth is zero.
	DefaultMaxDepth = 30
	// pollInterval is the fixed cadence for Wait/WaitGone polling.
	pollInterval = 100 * time.Millisecond
	// maxMatchContext bounds how many info snapshots MultipleMatches attaches.
	maxMatchContext = 5
)

// Config configures a Locator.
type Config struct {
	Selector *selector.Selector
	// Root restricts the search to this element's subtree. Nil means the
	// focused application's subtree (via the Finder); the system-wide root
	// element is not searched.
	Root *element.Element
	// Timeout bounds Wait/WaitGone; zero uses DefaultTimeout.
	Timeout time.Duration
	// MaxDepth bounds tree recursion; zero uses DefaultMaxDepth.
	MaxDepth int
}

// Locator is a configured, repeatable element lookup.
type Locator struct {
	cfg    Config
	finder *element.Finder
}

// New creates a Locator bound to finder (used to resolve the focused
// application when cfg.Root is nil).
func New(finder *element.Finder, cfg Config) *Locator {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	return &Locator{cfg: cfg, finder: finder}
}

func (l *Locator) root() (*element.Element, error) {
	if l.cfg.Root != nil {
		return l.cfg.Root, nil
	}
	return l.finder.FocusedApplication()
}

// candidates compiles the selector's non-index conditions onto the
// element combinators and runs Finder.FindAllIn: one DFS from the
// configured root, bounded to MaxDepth, results in pre-order.
func (l *Locator) candidates() ([]*element.Element, error) {
	root, err := l.root()
	if err != nil {
		return nil, err
	}
	return l.finder.FindAllIn(root, l.cfg.Selector.AsElementSelector(), l.cfg.MaxDepth)
}

// Find returns the single matching element. Zero matches fails with
// ElementNotFound; more than one fails with MultipleMatches unless the
// selector carries an `index` condition selecting one candidate.
func (l *Locator) Find() (*element.Element, error) {
	matches, err := l.candidates()
	if err != nil {
		return nil, err
	}

	if idx, ok, err := l.cfg.Selector.IndexFilter(); err != nil {
		return nil, err
	} else if ok {
		if idx < 0 || idx >= len(matches) {
			return nil, deskerr.Newf(deskerr.CodeElementNotFound, "index %d out of range (%d candidates)", idx, len(matches))
		}
		return matches[idx], nil
	}

	switch len(matches) {
	case 0:
		return nil, deskerr.New(deskerr.CodeElementNotFound, "no element matched the selector").
			WithSuggestions("widen the selector or check the element exists")
	case 1:
		return matches[0], nil
	default:
		e := deskerr.Newf(deskerr.CodeMultipleMatches, "%d elements matched the selector", len(matches)).
			WithSuggestions("add more conditions", "use index:k to disambiguate")
		n := len(matches)
		if n > maxMatchContext {
			n = maxMatchContext
		}
		for i := 0; i < n; i++ {
			e = e.WithContext(fmt.Sprintf("match_%d", i), matches[i].Info())
		}
		return nil, e
	}
}

// FindAll returns every element matching the selector; never fails with
// MultipleMatches (a selector's index condition is still honoured).
func (l *Locator) FindAll() ([]*element.Element, error) {
	matches, err := l.candidates()
	if err != nil {
		return nil, err
	}
	if idx, ok, err := l.cfg.Selector.IndexFilter(); err != nil {
		return nil, err
	} else if ok {
		if idx < 0 || idx >= len(matches) {
			return nil, nil
		}
		return matches[idx : idx+1], nil
	}
	return matches, nil
}

// Exists is a single-shot, non-throwing existence check.
func (l *Locator) Exists() bool {
	_, err := l.Find()
	return err == nil
}

// Wait polls Find every 100ms until success or Timeout elapses.
func (l *Locator) Wait() (*element.Element, error) {
	deadline := time.Now().Add(l.cfg.Timeout)
	attempt := 0
	for {
		e, err := l.Find()
		if err == nil {
			if attempt > 0 {
				logging.Debug("locator: selector matched after retrying", zap.Int("attempt", attempt))
			}
			return e, nil
		}
		if !deskerr.Is(err, deskerr.CodeElementNotFound) {
			logging.Warn("locator: wait aborted by non-retryable error", zap.Error(err))
			return nil, err
		}
		if time.Now().After(deadline) {
			logging.Warn("locator: wait timed out", zap.Duration("timeout", l.cfg.Timeout), zap.Int("attempts", attempt+1))
			return nil, deskerr.Newf(deskerr.CodeTimeout, "timed out after %s waiting for selector", l.cfg.Timeout)
		}
		attempt++
		time.Sleep(pollInterval)
	}
}

// WaitGone polls Find every 100ms until it fails with ElementNotFound
// (the element has disappeared) or Timeout elapses.
func (l *Locator) WaitGone() error {
	deadline := time.Now().Add(l.cfg.Timeout)
	for {
		_, err := l.Find()
		if deskerr.Is(err, deskerr.CodeElementNotFound) {
			return nil
		}
		if err != nil && !deskerr.Is(err, deskerr.CodeElementNotFound) {
			logging.Warn("locator: wait-gone aborted by non-retryable error", zap.Error(err))
			return err
		}
		if time.Now().After(deadline) {
			logging.Warn("locator: wait-gone timed out", zap.Duration("timeout", l.cfg.Timeout))
			return deskerr.Newf(deskerr.CodeTimeout, "timed out after %s waiting for selector to disappear", l.cfg.Timeout)
		}
		time.Sleep(pollInterval)
	}
}

// Click performs Find() then Click() on the result.
func (l *Locator) Click() error {
	e, err := l.Find()
	if err != nil {
		return err
	}
	return e.Click(input.ClickXY)
}

// TypeText performs Find() -> Click() -> sleep(100ms) -> SetValue(text).
// The pause gives the target widget time to receive focus before value
// injection.
func (l *Locator) TypeText(text string) error {
	e, err := l.Find()
	if err != nil {
		return err
	}
	if err := e.Click(input.ClickXY); err != nil {
		return err
	}
	time.Sleep(100 * time.Millisecond)
	return e.SetValue(text)
}
