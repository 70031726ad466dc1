package workflow

import (
	"bytes"
	"testing"
	"time"
)

func sampleWorkflow() RecordedWorkflow {
	return RecordedWorkflow{
		Name: "demo",
		Events: []Event{
			{T: 100, Data: EventData{Tag: TagClick, Click: &Click{X: 10, Y: 20, Button: ButtonLeft, Clicks: 1, Mods: ModShift}}},
			{T: 150, Data: EventData{Tag: TagMove, Move: &Move{X: 12, Y: 22}}},
			{T: 200, Data: EventData{Tag: TagScroll, Scroll: &Scroll{X: 10, Y: 20, Dx: -1, Dy: 3}}},
			{T: 250, Data: EventData{Tag: TagKey, Key: &Key{Keycode: 36, Mods: ModCtrl | ModCmd}}},
			{T: 300, Data: EventData{Tag: TagText, Text: &Text{Value: "hello"}}},
			{T: 350, Data: EventData{Tag: TagApp, App: &App{Name: "Finder", PID: 321}}},
			{T: 400, Data: EventData{Tag: TagWindow, Window: &Window{App: "Finder", Title: "Downloads"}}},
			{T: 450, Data: EventData{Tag: TagPaste, Paste: &Paste{Op: ClipboardPaste, Preview: "clipboard text"}}},
			{T: 500, Data: EventData{Tag: TagContext, Context: &Context{Role: "Button", Name: "Save", Value: ""}}},
		},
	}
}

func TestWorkflowRoundTrip(t *testing.T) {
	wf := sampleWorkflow()

	var buf bytes.Buffer
	if err := NewWriter(&buf).Write(wf); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	got, err := ReadAll(&buf)
	if err != nil {
		t.Fatalf("ReadAll() error: %v", err)
	}

	if got.Name != wf.Name {
		t.Errorf("Name = %q, want %q", got.Name, wf.Name)
	}
	if len(got.Events) != len(wf.Events) {
		t.Fatalf("len(Events) = %d, want %d", len(got.Events), len(wf.Events))
	}
	for i := range wf.Events {
		want, err := marshalEvent(wf.Events[i])
		if err != nil {
			t.Fatalf("marshalEvent(want[%d]) error: %v", i, err)
		}
		gotBytes, err := marshalEvent(got.Events[i])
		if err != nil {
			t.Fatalf("marshalEvent(got[%d]) error: %v", i, err)
		}
		if !bytes.Equal(want, gotBytes) {
			t.Errorf("event %d not byte-equal after round-trip: got %s, want %s", i, gotBytes, want)
		}
	}
}

func TestWindowEventOmitsEmptyTitle(t *testing.T) {
	e := Event{T: 1, Data: EventData{Tag: TagWindow, Window: &Window{App: "Finder"}}}
	line, err := marshalEvent(e)
	if err != nil {
		t.Fatalf("marshalEvent() error: %v", err)
	}
	if bytes.Contains(line, []byte(`"w":`)) {
		t.Errorf("expected empty title to be omitted, got %s", line)
	}
}

func TestContextEventOptionalFieldsOmitted(t *testing.T) {
	e := Event{T: 1, Data: EventData{Tag: TagContext, Context: &Context{Role: "Button"}}}
	line, err := marshalEvent(e)
	if err != nil {
		t.Fatalf("marshalEvent() error: %v", err)
	}
	if bytes.Contains(line, []byte(`"n"`)) || bytes.Contains(line, []byte(`"v"`)) {
		t.Errorf("expected absent name/value to be omitted, got %s", line)
	}
}

func TestReaderSkipsUnknownTags(t *testing.T) {
	raw := `{"name":"demo","events":2}
{"t":1,"e":"c","x":1,"y":2,"b":0,"n":1,"m":0}
{"t":2,"e":"z","foo":"bar"}
{"t":3,"e":"m","x":5,"y":6}
`
	wf, err := ReadAll(bytes.NewBufferString(raw))
	if err != nil {
		t.Fatalf("ReadAll() error: %v", err)
	}
	if len(wf.Events) != 2 {
		t.Fatalf("got %d events, want 2 (unknown tag should be skipped)", len(wf.Events))
	}
	if wf.Events[1].Data.Tag != TagMove {
		t.Errorf("expected second surviving event to be Move, got %s", wf.Events[1].Data.Tag)
	}
}

func TestSanitizeName(t *testing.T) {
	cases := map[string]string{
		"my workflow":    "my_workflow",
		"login/flow #1":  "login_flow__1",
		"already-ok_name": "already-ok_name",
	}
	for in, want := range cases {
		if got := SanitizeName(in); got != want {
			t.Errorf("SanitizeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFilename(t *testing.T) {
	ts := time.Date(2026, 7, 31, 14, 5, 9, 0, time.UTC)
	got := Filename("my workflow", ts)
	want := "my_workflow_20260731_140509.jsonl"
	if got != want {
		t.Errorf("Filename() = %q, want %q", got, want)
	}
}

func TestModifiersRoundTrip(t *testing.T) {
	for m := 0; m <= 0x3F; m++ {
		mods := Modifiers(m)
		if Modifiers(int(mods)) != mods {
			t.Errorf("Modifiers round-trip failed for %d", m)
		}
	}
}
