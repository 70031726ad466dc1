package locator

import (
	"testing"
	"time"

	"github.com/corvidlabs/deskctl/pkg/deskerr"
	"github.com/corvidlabs/deskctl/pkg/element"
	"github.com/corvidlabs/deskctl/pkg/selector"
)

func buildSampleTree() *element.Element {
	root := &element.Element{Name: "root", Role: element.RoleWindow}
	a := &element.Element{Name: "A", Role: element.RoleGroup, Parent: root}
	b := &element.Element{Name: "B", Role: element.RoleButton, Parent: a}
	c := &element.Element{Name: "C", Role: element.RoleButton, Parent: root}
	a.Children = []*element.Element{b}
	root.Children = []*element.Element{a, c}
	return root
}

func newLocator(t *testing.T, sel string, cfg Config) *Locator {
	t.Helper()
	parsed, err := selector.Parse(sel)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", sel, err)
	}
	cfg.Selector = parsed
	cfg.Root = buildSampleTree()
	return New(nil, cfg)
}

func TestFindSingleMatch(t *testing.T) {
	l := newLocator(t, "name:A", Config{})
	e, err := l.Find()
	if err != nil {
		t.Fatalf("Find() error: %v", err)
	}
	if e.Name != "A" {
		t.Errorf("Find() got %s, want A", e.Name)
	}
}

func TestFindNoMatch(t *testing.T) {
	l := newLocator(t, "name:Nonexistent", Config{})
	_, err := l.Find()
	if !deskerr.Is(err, deskerr.CodeElementNotFound) {
		t.Fatalf("expected ElementNotFound, got %v", err)
	}
}

func TestFindMultipleMatches(t *testing.T) {
	l := newLocator(t, "role:Button", Config{})
	_, err := l.Find()
	if !deskerr.Is(err, deskerr.CodeMultipleMatches) {
		t.Fatalf("expected MultipleMatches, got %v", err)
	}
}

func TestFindWithIndexDisambiguator(t *testing.T) {
	l := newLocator(t, "role:Button AND index:1", Config{})
	e, err := l.Find()
	if err != nil {
		t.Fatalf("Find() error: %v", err)
	}
	if e.Name != "C" {
		t.Errorf("Find() got %s, want C (DFS order puts B before C)", e.Name)
	}
}

func TestFindAllNeverMultipleMatches(t *testing.T) {
	l := newLocator(t, "role:Button", Config{})
	matches, err := l.FindAll()
	if err != nil {
		t.Fatalf("FindAll() error: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("FindAll() got %d, want 2", len(matches))
	}
}

func TestMaxDepthZeroReturnsOnlyRoot(t *testing.T) {
	root := buildSampleTree()
	sel, _ := selector.Parse("role:Window")
	l := New(nil, Config{Selector: sel, Root: root, MaxDepth: 0})
	matches, err := l.FindAll()
	if err != nil {
		t.Fatalf("FindAll() error: %v", err)
	}
	if len(matches) != 1 || matches[0].Name != "root" {
		t.Errorf("MaxDepth=0 should only see root, got %+v", matches)
	}
}

func TestWaitTimesOutWhenNeverFound(t *testing.T) {
	l := newLocator(t, "name:Nonexistent", Config{Timeout: 150 * time.Millisecond})
	start := time.Now()
	_, err := l.Wait()
	elapsed := time.Since(start)
	if !deskerr.Is(err, deskerr.CodeTimeout) {
		t.Fatalf("expected Timeout, got %v", err)
	}
	if elapsed < 150*time.Millisecond {
		t.Errorf("Wait() returned too early: %v", elapsed)
	}
}

func TestExists(t *testing.T) {
	l := newLocator(t, "name:A", Config{})
	if !l.Exists() {
		t.Error("Exists() should be true")
	}
	l2 := newLocator(t, "name:Nope", Config{})
	if l2.Exists() {
		t.Error("Exists() should be false")
	}
}
