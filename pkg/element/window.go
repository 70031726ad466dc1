package element

import (
	"strings"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/corvidlabs/deskctl/pkg/deskerr"
)

// windowLikeRoles are the control types EnumerateTopWindows keeps when
// filtering the root's first-level children.
func isWindowLike(r Role) bool {
	return r == RoleWindow || r == RolePane
}

// EnumerateTopWindows returns the first-level children of the root
// filtered to window/pane-like control types. On Windows the UIA root's
// children are the top-level windows directly; on macOS the system-wide
// element exposes no useful children, so the running applications are
// enumerated instead and each contributes its first-level window
// children.
func (f *Finder) EnumerateTopWindows() ([]*Element, error) {
	root, err := f.Root()
	if err != nil {
		return nil, err
	}
	if root.Children == nil {
		_ = root.LoadChildren()
	}

	var windows []*Element
	for _, child := range root.Children {
		if isWindowLike(child.Role) {
			windows = append(windows, child)
		}
	}
	if len(windows) > 0 {
		return windows, nil
	}

	apps, err := f.AllApplications()
	if err != nil {
		return nil, err
	}
	for _, app := range apps {
		if app.Children == nil {
			_ = app.LoadChildren()
		}
		for _, child := range app.Children {
			if isWindowLike(child.Role) {
				windows = append(windows, child)
			}
		}
	}
	return windows, nil
}

// FindWindow locates a top-level window by application name using the
// two-phase lookup: a case-insensitive substring match against top-window
// titles first, then a fallback over the OS process list matching the
// executable name (substring, case-insensitive, ignoring ".exe" and "-")
// and descending one level into the matched process's element. The
// fallback exists because modern apps (Electron, Tauri) expose window
// titles unrelated to their process names.
func (f *Finder) FindWindow(name string) (*Element, error) {
	windows, err := f.EnumerateTopWindows()
	if err == nil {
		for _, w := range windows {
			if titleMatches(w, name) {
				return w, nil
			}
		}
	}

	pid, found := findProcessByName(name)
	if !found {
		return nil, deskerr.Newf(deskerr.CodeAppNotRunning, "no window or process matching %q", name).
			WithSuggestions("check the application is running", "try the window title instead of the process name")
	}

	app, err := f.ApplicationByPID(pid)
	if err != nil {
		return nil, deskerr.Wrapf(err, deskerr.CodeAppNotRunning, "process %d matched %q but has no accessible element", pid, name)
	}
	if w := firstTopWindow(app); w != nil {
		return w, nil
	}
	return app, nil
}

// titleMatches reports a case-insensitive substring match of query
// against w's title or name.
func titleMatches(w *Element, query string) bool {
	q := strings.ToLower(query)
	return (w.Title != "" && strings.Contains(strings.ToLower(w.Title), q)) ||
		(w.Name != "" && strings.Contains(strings.ToLower(w.Name), q))
}

// firstTopWindow returns app itself if it is already window-like,
// otherwise the first window-like element among its immediate children
// (one level of descent, per the lookup contract).
func firstTopWindow(app *Element) *Element {
	if isWindowLike(app.Role) {
		return app
	}
	if app.Children == nil {
		_ = app.LoadChildren()
	}
	for _, child := range app.Children {
		if isWindowLike(child.Role) {
			return child
		}
	}
	return nil
}

// findProcessByName scans the OS process list for the first PID whose
// executable name matches query under normalizeProcName.
func findProcessByName(query string) (pid int, found bool) {
	procs, err := process.Processes()
	if err != nil {
		return 0, false
	}
	q := normalizeProcName(query)
	if q == "" {
		return 0, false
	}
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue
		}
		if strings.Contains(normalizeProcName(name), q) {
			return int(p.Pid), true
		}
	}
	return 0, false
}

// normalizeProcName lowercases, strips a trailing ".exe", and removes
// "-" so that e.g. "Visual-Studio-Code.exe" matches "visual studio code"
// queries the same way on every platform.
func normalizeProcName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimSuffix(s, ".exe")
	return strings.ReplaceAll(s, "-", "")
}
