package capture

import (
	"time"

	"github.com/corvidlabs/deskctl/pkg/input"
	"github.com/corvidlabs/deskctl/pkg/workflow"
)

const (
	// clipboardPreviewLen bounds a Paste event's preview field.
	clipboardPreviewLen = 100
	// clipboardSettleDelay gives the OS time to populate the clipboard
	// after a Cmd/Ctrl+C or +X before reading it back.
	clipboardSettleDelay = 50 * time.Millisecond
)

// clipboardPreview truncates s to at most clipboardPreviewLen runes.
func clipboardPreview(s string) string {
	r := []rune(s)
	if len(r) <= clipboardPreviewLen {
		return s
	}
	return string(r[:clipboardPreviewLen])
}

// resolveCopyOrCut spawns a detached goroutine that waits for the OS to
// populate the clipboard, then reads it and emits a Paste event. Clipboard
// enrichment is best-effort: any read failure is dropped silently.
func (r *Recorder) resolveCopyOrCut(op workflow.ClipboardOp, t uint64) {
	r.helpers.Add(1)
	go func() {
		defer r.helpers.Done()
		time.Sleep(clipboardSettleDelay)
		text, err := input.ReadFromClipboard()
		if err != nil {
			return
		}
		r.emitPaste(op, text, t)
	}()
}

// resolvePasteSync reads the clipboard synchronously, before the caller
// emits the originating Key event, since a V paste is about to consume
// whatever is there right now.
func (r *Recorder) resolvePasteSync(t uint64) {
	text, err := input.ReadFromClipboard()
	if err != nil {
		return
	}
	r.emitPaste(workflow.ClipboardPaste, text, t)
}

func (r *Recorder) emitPaste(op workflow.ClipboardOp, text string, t uint64) {
	r.trySendEvent(workflow.Event{
		T: t,
		Data: workflow.EventData{
			Tag:   workflow.TagPaste,
			Paste: &workflow.Paste{Op: op, Preview: clipboardPreview(text)},
		},
	})
}
