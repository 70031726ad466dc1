package capture

import (
	"time"

	"go.uber.org/zap"

	"github.com/corvidlabs/deskctl/pkg/element"
	"github.com/corvidlabs/deskctl/pkg/logging"
	"github.com/corvidlabs/deskctl/pkg/workflow"
)

// focusState tracks T-focus's last-observed app/window so it only emits on
// change: App then Window on an app change,
// Window alone when only the focused window changed within the same app.
type focusState struct {
	appName     string
	appPID      int
	windowTitle string
}

// runFocusLoop polls the focused application and its window title at
// cfg.FocusPollMs cadence until Stop closes stopCh. It is a no-op when the
// Recorder was built without an *element.Finder.
func (r *Recorder) runFocusLoop() {
	defer r.wg.Done()

	if r.finder == nil {
		<-r.stopCh
		return
	}

	var state focusState
	ticker := time.NewTicker(r.cfg.FocusPollInterval())
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.pollFocus(&state)
		}
	}
}

func (r *Recorder) pollFocus(state *focusState) {
	app, err := r.finder.FocusedApplication()
	if err != nil {
		logging.Debug("capture: focus poll failed", zap.Error(err))
		return
	}
	title := focusedWindowTitle(app)

	appChanged := app.Name != state.appName || app.ProcessID != state.appPID
	windowChanged := title != state.windowTitle
	if !appChanged && !windowChanged {
		return
	}

	t := r.elapsedMs()
	if appChanged {
		state.appName, state.appPID = app.Name, app.ProcessID
		r.trySendEvent(workflow.Event{
			T:    t,
			Data: workflow.EventData{Tag: workflow.TagApp, App: &workflow.App{Name: app.Name, PID: app.ProcessID}},
		})
	}
	state.windowTitle = title
	r.trySendEvent(workflow.Event{
		T:    t,
		Data: workflow.EventData{Tag: workflow.TagWindow, Window: &workflow.Window{App: app.Name, Title: title}},
	})
}

// focusedWindowTitle returns the title of app's first Window-role
// descendant in pre-order, falling back to the application element's own
// title when no window is found.
func focusedWindowTitle(app *element.Element) string {
	if w := element.Find(app, func(e *element.Element) bool { return e.Role == element.RoleWindow }); w != nil {
		return w.Title
	}
	return app.Title
}
