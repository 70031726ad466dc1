package workflow

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/corvidlabs/deskctl/pkg/deskerr"
)

// metaLine is the first line of a workflow file: {"name": ..., "events": ...}
type metaLine struct {
	Name   string `json:"name"`
	Events int    `json:"events"`
}

// marshalEvent renders one event to its wire shape:
// {"t": <u64>, "e": <tag>, <tag-specific fields>}. Fields are built by
// hand per tag (rather than one struct with shared json tags) so that
// reused wire keys across variants - "n" means Click.clicks for `c` and
// Context.name for `x` - don't collide in a single Go struct, and so
// absent optional fields are omitted rather than serialised as zero
// values.
func marshalEvent(e Event) ([]byte, error) {
	m := map[string]any{
		"t": e.T,
		"e": string(e.Data.Tag),
	}

	switch e.Data.Tag {
	case TagClick:
		c := e.Data.Click
		m["x"], m["y"] = c.X, c.Y
		m["b"], m["n"], m["m"] = int(c.Button), c.Clicks, int(c.Mods)
	case TagMove:
		mv := e.Data.Move
		m["x"], m["y"] = mv.X, mv.Y
	case TagScroll:
		s := e.Data.Scroll
		m["x"], m["y"], m["dx"], m["dy"] = s.X, s.Y, s.Dx, s.Dy
	case TagKey:
		k := e.Data.Key
		m["k"], m["m"] = k.Keycode, int(k.Mods)
	case TagText:
		m["s"] = e.Data.Text.Value
	case TagApp:
		a := e.Data.App
		m["n"], m["p"] = a.Name, a.PID
	case TagWindow:
		w := e.Data.Window
		m["a"] = w.App
		if w.Title != "" {
			m["w"] = w.Title
		}
	case TagPaste:
		p := e.Data.Paste
		m["o"], m["s"] = string(p.Op), p.Preview
	case TagContext:
		c := e.Data.Context
		m["r"] = c.Role
		if c.Name != "" {
			m["n"] = c.Name
		}
		if c.Value != "" {
			m["v"] = c.Value
		}
	default:
		return nil, deskerr.Newf(deskerr.CodeUnknown, "unknown event tag %q", e.Data.Tag)
	}

	return json.Marshal(m)
}

// unmarshalEvent parses one wire-shape line. Unknown tags return
// errUnknownTag so the reader can skip them (readers must tolerate
// unknown tags).
func unmarshalEvent(line []byte) (Event, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(line, &raw); err != nil {
		return Event{}, err
	}

	var t uint64
	if v, ok := raw["t"]; ok {
		if err := json.Unmarshal(v, &t); err != nil {
			return Event{}, err
		}
	}

	var tag string
	if v, ok := raw["e"]; ok {
		if err := json.Unmarshal(v, &tag); err != nil {
			return Event{}, err
		}
	}

	e := Event{T: t, Data: EventData{Tag: Tag(tag)}}

	getInt := func(key string) int {
		var n int
		if v, ok := raw[key]; ok {
			_ = json.Unmarshal(v, &n)
		}
		return n
	}
	getString := func(key string) string {
		var s string
		if v, ok := raw[key]; ok {
			_ = json.Unmarshal(v, &s)
		}
		return s
	}

	switch Tag(tag) {
	case TagClick:
		e.Data.Click = &Click{
			X: getInt("x"), Y: getInt("y"),
			Button: Button(getInt("b")), Clicks: getInt("n"), Mods: Modifiers(getInt("m")),
		}
	case TagMove:
		e.Data.Move = &Move{X: getInt("x"), Y: getInt("y")}
	case TagScroll:
		e.Data.Scroll = &Scroll{X: getInt("x"), Y: getInt("y"), Dx: getInt("dx"), Dy: getInt("dy")}
	case TagKey:
		e.Data.Key = &Key{Keycode: uint16(getInt("k")), Mods: Modifiers(getInt("m"))}
	case TagText:
		e.Data.Text = &Text{Value: getString("s")}
	case TagApp:
		e.Data.App = &App{Name: getString("n"), PID: getInt("p")}
	case TagWindow:
		e.Data.Window = &Window{App: getString("a"), Title: getString("w")}
	case TagPaste:
		e.Data.Paste = &Paste{Op: ClipboardOp(getString("o")), Preview: getString("s")}
	case TagContext:
		e.Data.Context = &Context{Role: getString("r"), Name: getString("n"), Value: getString("v")}
	default:
		return Event{}, errUnknownTag
	}

	return e, nil
}

var errUnknownTag = deskerr.New(deskerr.CodeUnknown, "workflow: unknown event tag")

// Writer streams a workflow to an io.Writer as newline-delimited JSON:
// a metadata line, then one line per event. A live recorder that doesn't
// know the final event count up front may call WriteMeta once and then
// WriteEvent per event; the metadata line is never rewritten afterwards,
// so callers that need an accurate "events" count buffer the events and
// call Write once with the complete RecordedWorkflow.
type Writer struct {
	w   io.Writer
	enc *json.Encoder
}

// NewWriter wraps w for workflow JSONL output.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, enc: json.NewEncoder(w)}
}

// Write emits the full workflow: metadata line followed by every event.
func (w *Writer) Write(wf RecordedWorkflow) error {
	if err := w.enc.Encode(metaLine{Name: wf.Name, Events: len(wf.Events)}); err != nil {
		return err
	}
	for _, e := range wf.Events {
		if err := w.WriteEvent(e); err != nil {
			return err
		}
	}
	return nil
}

// WriteMeta emits only the metadata line, for streaming recorders that
// write events incrementally as they're captured.
func (w *Writer) WriteMeta(name string, eventCount int) error {
	return w.enc.Encode(metaLine{Name: name, Events: eventCount})
}

// WriteEvent emits a single event line.
func (w *Writer) WriteEvent(e Event) error {
	line, err := marshalEvent(e)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(line); err != nil {
		return err
	}
	_, err = w.w.Write([]byte("\n"))
	return err
}

// Reader reads a workflow written by Writer. Readers tolerate unknown
// tags by skipping the offending line rather than failing the whole
// read.
type Reader struct {
	sc   *bufio.Scanner
	meta metaLine
}

// NewReader reads and parses the metadata header line from r.
func NewReader(r io.Reader) (*Reader, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, deskerr.New(deskerr.CodeUnknown, "workflow: empty file, missing metadata line")
	}
	var meta metaLine
	if err := json.Unmarshal(sc.Bytes(), &meta); err != nil {
		return nil, deskerr.Wrap(err, deskerr.CodeUnknown, "workflow: invalid metadata line")
	}
	return &Reader{sc: sc, meta: meta}, nil
}

// Name returns the workflow name from the metadata line.
func (r *Reader) Name() string { return r.meta.Name }

// DeclaredEvents returns the "events" count from the metadata line. A
// reader should not assume this matches the number of lines it will
// actually see - readers skip unknown tags, so it is an upper bound.
func (r *Reader) DeclaredEvents() int { return r.meta.Events }

// Next reads and returns the next event, skipping lines with unknown or
// malformed tags. It returns io.EOF when the stream is exhausted.
func (r *Reader) Next() (Event, error) {
	for r.sc.Scan() {
		line := bytes.TrimSpace(r.sc.Bytes())
		if len(line) == 0 {
			continue
		}
		e, err := unmarshalEvent(line)
		if err == errUnknownTag {
			continue
		}
		if err != nil {
			continue
		}
		return e, nil
	}
	if err := r.sc.Err(); err != nil {
		return Event{}, err
	}
	return Event{}, io.EOF
}

// ReadAll drains the reader into a RecordedWorkflow.
func ReadAll(r io.Reader) (RecordedWorkflow, error) {
	rd, err := NewReader(r)
	if err != nil {
		return RecordedWorkflow{}, err
	}
	wf := RecordedWorkflow{Name: rd.Name()}
	for {
		e, err := rd.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return RecordedWorkflow{}, err
		}
		wf.Events = append(wf.Events, e)
	}
	return wf, nil
}

var sanitizeRe = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// SanitizeName replaces any character that isn't alphanumeric, `-`, or
// `_` with `_`.
func SanitizeName(name string) string {
	return sanitizeRe.ReplaceAllString(name, "_")
}

// Filename builds the `<sanitized-name>_<YYYYMMDD>_<HHMMSS>.jsonl`
// filename for a workflow recorded at t.
func Filename(name string, t time.Time) string {
	return fmt.Sprintf("%s_%s.jsonl", SanitizeName(name), t.Format("20060102_150405"))
}
