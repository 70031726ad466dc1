package replay

import (
	"context"
	"testing"
	"time"

	"github.com/corvidlabs/deskctl/pkg/workflow"
)

// fakeSynth records every call it receives instead of touching the OS,
// so replay scheduling and dispatch can be verified deterministically.
type fakeSynth struct {
	moves   []workflow.Move
	downs   []workflow.Button
	ups     []workflow.Button
	scrolls []workflow.Scroll
	keys    []string // "down:name" / "up:name"
}

func (f *fakeSynth) MoveTo(x, y int) error {
	f.moves = append(f.moves, workflow.Move{X: x, Y: y})
	return nil
}

func (f *fakeSynth) MouseDown(b workflow.Button) error {
	f.downs = append(f.downs, b)
	return nil
}

func (f *fakeSynth) MouseUp(b workflow.Button) error {
	f.ups = append(f.ups, b)
	return nil
}

func (f *fakeSynth) Scroll(x, y, dx, dy int) error {
	f.scrolls = append(f.scrolls, workflow.Scroll{X: x, Y: y, Dx: dx, Dy: dy})
	return nil
}

func (f *fakeSynth) KeyDown(name string, mods workflow.Modifiers) error {
	f.keys = append(f.keys, "down:"+name)
	return nil
}

func (f *fakeSynth) KeyUp(name string, mods workflow.Modifiers) error {
	f.keys = append(f.keys, "up:"+name)
	return nil
}

func TestReplayRejectsNonPositiveSpeed(t *testing.T) {
	e := NewWithSynthesizer(&fakeSynth{})
	if _, err := e.Replay(context.Background(), workflow.RecordedWorkflow{}, 0); err == nil {
		t.Fatal("expected an error for speed=0")
	}
	if _, err := e.Replay(context.Background(), workflow.RecordedWorkflow{}, -1); err == nil {
		t.Fatal("expected an error for negative speed")
	}
}

func TestReplayDispatchesClickMoveScroll(t *testing.T) {
	fs := &fakeSynth{}
	e := NewWithSynthesizer(fs)
	wf := workflow.RecordedWorkflow{Events: []workflow.Event{
		{T: 0, Data: workflow.EventData{Tag: workflow.TagMove, Move: &workflow.Move{X: 10, Y: 10}}},
		{T: 5, Data: workflow.EventData{Tag: workflow.TagClick, Click: &workflow.Click{X: 20, Y: 20, Button: workflow.ButtonLeft, Clicks: 1}}},
		{T: 10, Data: workflow.EventData{Tag: workflow.TagScroll, Scroll: &workflow.Scroll{X: 20, Y: 20, Dx: 0, Dy: -3}}},
	}}

	stats, err := e.Replay(context.Background(), wf, 100) // fast: keep the test quick
	if err != nil {
		t.Fatalf("Replay returned error: %v", err)
	}
	if stats.Moves != 1 || stats.Clicks != 1 || stats.Scrolls != 1 {
		t.Fatalf("stats = %+v, want one of each", stats)
	}
	if len(fs.moves) != 2 { // one explicit Move plus the click's move-to
		t.Fatalf("got %d moves, want 2", len(fs.moves))
	}
	if len(fs.downs) != 1 || len(fs.ups) != 1 {
		t.Fatalf("got %d downs / %d ups, want 1/1", len(fs.downs), len(fs.ups))
	}
	if len(fs.scrolls) != 1 || fs.scrolls[0].Dy != -3 {
		t.Fatalf("scroll sign not preserved: %+v", fs.scrolls)
	}
}

func TestReplayMultiClickInsertsDownUpPairsPerClick(t *testing.T) {
	fs := &fakeSynth{}
	e := NewWithSynthesizer(fs)
	wf := workflow.RecordedWorkflow{Events: []workflow.Event{
		{T: 0, Data: workflow.EventData{Tag: workflow.TagClick, Click: &workflow.Click{X: 1, Y: 1, Button: workflow.ButtonLeft, Clicks: 2}}},
	}}
	if _, err := e.Replay(context.Background(), wf, 100); err != nil {
		t.Fatalf("Replay returned error: %v", err)
	}
	if len(fs.downs) != 2 || len(fs.ups) != 2 {
		t.Fatalf("double click should emit 2 down/up pairs, got %d/%d", len(fs.downs), len(fs.ups))
	}
}

func TestReplayTextSkipsUnmappedRunes(t *testing.T) {
	fs := &fakeSynth{}
	e := NewWithSynthesizer(fs)
	wf := workflow.RecordedWorkflow{Events: []workflow.Event{
		{T: 0, Data: workflow.EventData{Tag: workflow.TagText, Text: &workflow.Text{Value: "a☃b"}}}, // snowman is unmapped
	}}
	stats, err := e.Replay(context.Background(), wf, 100)
	if err != nil {
		t.Fatalf("Replay returned error: %v", err)
	}
	if stats.TextChars != 2 {
		t.Fatalf("TextChars = %d, want 2 (unmapped rune skipped)", stats.TextChars)
	}
}

func TestReplayIgnoresInformationalEvents(t *testing.T) {
	fs := &fakeSynth{}
	e := NewWithSynthesizer(fs)
	wf := workflow.RecordedWorkflow{Events: []workflow.Event{
		{T: 0, Data: workflow.EventData{Tag: workflow.TagApp, App: &workflow.App{Name: "Finder"}}},
		{T: 0, Data: workflow.EventData{Tag: workflow.TagWindow, Window: &workflow.Window{App: "Finder", Title: "Desktop"}}},
		{T: 0, Data: workflow.EventData{Tag: workflow.TagPaste, Paste: &workflow.Paste{Op: workflow.ClipboardPaste, Preview: "hi"}}},
		{T: 0, Data: workflow.EventData{Tag: workflow.TagContext, Context: &workflow.Context{Role: "Button"}}},
	}}
	stats, err := e.Replay(context.Background(), wf, 100)
	if err != nil {
		t.Fatalf("Replay returned error: %v", err)
	}
	if stats != (Stats{}) {
		t.Fatalf("informational events must not be synthesized, got %+v", stats)
	}
	if len(fs.moves)+len(fs.downs)+len(fs.keys) != 0 {
		t.Fatal("fake synthesizer should have received no calls")
	}
}

func TestReplayRespectsContextCancellation(t *testing.T) {
	fs := &fakeSynth{}
	e := NewWithSynthesizer(fs)
	wf := workflow.RecordedWorkflow{Events: []workflow.Event{
		{T: 0, Data: workflow.EventData{Tag: workflow.TagMove, Move: &workflow.Move{X: 1, Y: 1}}},
		{T: 100000, Data: workflow.EventData{Tag: workflow.TagMove, Move: &workflow.Move{X: 2, Y: 2}}},
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	stats, err := e.Replay(ctx, wf, 1) // speed=1 makes the second event's gap ~100s, far past the ctx timeout
	if err == nil {
		t.Fatal("expected a context-deadline error")
	}
	if stats.Moves != 1 {
		t.Fatalf("expected exactly the first move to have been synthesized before cancellation, got %+v", stats)
	}
}
