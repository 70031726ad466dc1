// Package element provides cross-platform UI element access via native
// accessibility APIs.
//
// # Platform Support
//
//   - macOS: AXUIElement API via CGo bindings
//   - Windows: UI Automation API via raw COM calls
//
// # Basic Usage
//
//	finder, err := element.NewFinder()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer finder.Close()
//
//	app, err := finder.FocusedApplication()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	buttons, err := finder.FindAllIn(app, element.ByRole(element.RoleButton), 30)
//
// # Permissions
//
// On macOS, accessibility permissions are required: System Settings >
// Privacy & Security > Accessibility. On Windows, some applications may
// require running as Administrator.
package element

import (
	"fmt"
	"strings"

	"github.com/corvidlabs/deskctl/pkg/deskerr"
)

// Role is a canonical, platform-independent UI element role. Every native
// role (AX-prefixed identifiers on macOS, numeric ControlType IDs 50000+
// on Windows) maps onto this closed set; unmappable roles become
// RoleUnknown.
type Role string

const (
	RoleButton      Role = "Button"
	RoleCalendar    Role = "Calendar"
	RoleCheckBox    Role = "CheckBox"
	RoleComboBox    Role = "ComboBox"
	RoleEdit        Role = "Edit"
	RoleHyperlink   Role = "Hyperlink"
	RoleImage       Role = "Image"
	RoleListItem    Role = "ListItem"
	RoleList        Role = "List"
	RoleMenu        Role = "Menu"
	RoleMenuBar     Role = "MenuBar"
	RoleMenuItem    Role = "MenuItem"
	RoleProgressBar Role = "ProgressBar"
	RoleRadioButton Role = "RadioButton"
	RoleScrollBar   Role = "ScrollBar"
	RoleSlider      Role = "Slider"
	RoleSpinner     Role = "Spinner"
	RoleStatusBar   Role = "StatusBar"
	RoleTab         Role = "Tab"
	RoleTabItem     Role = "TabItem"
	RoleText        Role = "Text"
	RoleToolBar     Role = "ToolBar"
	RoleToolTip     Role = "ToolTip"
	RoleTree        Role = "Tree"
	RoleTreeItem    Role = "TreeItem"
	RoleCustom      Role = "Custom"
	RoleGroup       Role = "Group"
	RoleThumb       Role = "Thumb"
	RoleDataGrid    Role = "DataGrid"
	RoleDataItem    Role = "DataItem"
	RoleDocument    Role = "Document"
	RoleSplitButton Role = "SplitButton"
	RoleWindow      Role = "Window"
	RolePane        Role = "Pane"
	RoleHeader      Role = "Header"
	RoleHeaderItem  Role = "HeaderItem"
	RoleTable       Role = "Table"
	RoleTitleBar    Role = "TitleBar"
	RoleSeparator   Role = "Separator"
	RoleUnknown     Role = "Unknown"
)

// Rect represents a rectangle on screen in pixel coordinates.
type Rect struct {
	X      int // Left edge
	Y      int // Top edge
	Width  int
	Height int
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{
		X: r.X + r.Width/2,
		Y: r.Y + r.Height/2,
	}
}

// Contains returns true if the point is within the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width &&
		p.Y >= r.Y && p.Y < r.Y+r.Height
}

// IsEmpty returns true if the rectangle has zero area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Point represents a point on screen in pixel coordinates.
type Point struct {
	X int
	Y int
}

// Element is a handle to one live UI node. It is a shared-ownership
// reference to an underlying native accessibility object: copying an
// Element is cheap, and the native object is released only when the last
// reference drops (see the platform-specific finalizer in darwin.go /
// windows.go). Elements are transient: if the underlying UI is destroyed,
// subsequent operations fail with deskerr.CodeActionFailed.
type Element struct {
	// ID is a unique identifier for this element within the current tree.
	// This is NOT stable across queries - don't cache it across calls.
	ID string

	// Role is the normalised semantic type of the element.
	Role Role

	// Name is the accessible name/label of the element - what a screen
	// reader would announce.
	Name string

	// Title is the window/element title (may differ from Name).
	Title string

	// Value is the current value for inputs, sliders, etc.
	Value string

	// Description is additional accessible description text.
	Description string

	// Bounds is the screen rectangle containing this element. Absent for
	// elements without screen geometry (zero value; check IsEmpty).
	Bounds Rect

	// Enabled indicates if the element can be interacted with.
	Enabled bool

	// Offscreen indicates the element is currently outside the visible
	// viewport of its container (scrolled out, minimized, etc).
	Offscreen bool

	// ProcessID is the process ID of the owning application.
	ProcessID int

	// AutomationID is a stable, developer-assigned identifier when the
	// native framework exposes one (UIA AutomationId, AX identifier).
	AutomationID string

	// ClassName is the native widget/window class name, when exposed.
	ClassName string

	// ClickablePoint is the platform-suggested point to synthesize a
	// click at; falls back to Bounds.Center() when unset.
	ClickablePoint Point

	// Focused indicates if the element currently has keyboard focus.
	Focused bool

	// Selected indicates if the element is selected (for selectable items).
	Selected bool

	// Children contains child elements in the accessibility tree. Nil
	// until LoadChildren populates it.
	Children []*Element

	// Parent is the parent element. Nil for root elements.
	Parent *Element

	// PID is retained for backward compatibility with ProcessID.
	PID int

	// Attributes holds additional platform-specific attributes not
	// promoted to named fields.
	Attributes map[string]interface{}

	// handle is the platform-specific element reference (unexported).
	// On macOS: AXUIElementRef. On Windows: IUIAutomationElement pointer.
	handle interface{}
}

// ElementInfo is a materialised, handle-free snapshot of an element's
// attributes, safe to retain after the underlying UI node is gone.
type ElementInfo struct {
	Role           Role
	Name           string
	Title          string
	Value          string
	Description    string
	Bounds         Rect
	Enabled        bool
	Offscreen      bool
	ProcessID      int
	AutomationID   string
	ClassName      string
	ClickablePoint Point
}

// Info returns a snapshot of every attribute.
func (e *Element) Info() ElementInfo {
	return ElementInfo{
		Role:           e.Role,
		Name:           e.Name,
		Title:          e.Title,
		Value:          e.Value,
		Description:    e.Description,
		Bounds:         e.Bounds,
		Enabled:        e.Enabled,
		Offscreen:      e.Offscreen,
		ProcessID:      e.ProcessID,
		AutomationID:   e.AutomationID,
		ClassName:      e.ClassName,
		ClickablePoint: e.ClickablePoint,
	}
}

// Focus sets keyboard focus to this element.
func (e *Element) Focus() error {
	return focusElement(e)
}

// PerformAction performs a named action on this element.
// Common actions: "AXPress", "AXConfirm", "AXCancel", "AXRaise".
func (e *Element) PerformAction(action string) error {
	return performAction(e, action)
}

// SetValue sets the value of this element (for text fields, sliders, etc).
// Attempts the native setter; callers needing the focus+type fallback
// should use Locator.TypeText instead.
func (e *Element) SetValue(value string) error {
	return setValue(e, value)
}

// LoadChildren populates the Children slice with immediate child elements.
func (e *Element) LoadChildren() error {
	return loadChildren(e)
}

// Text returns the first non-empty of value, title, description, name -
// this exact precedence order is part of the contract and MUST NOT be
// reordered by callers relying on it.
func (e *Element) Text() string {
	for _, candidate := range []string{e.Value, e.Title, e.Description, e.Name} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

// Click attempts a native press action; if unavailable, falls back to a
// synthesised click at ClickablePoint (or Bounds.Center() if unset).
// synthesize is provided by the caller (pkg/input) to avoid a dependency
// cycle between element and input.
func (e *Element) Click(synthesize func(x, y int) error) error {
	if err := e.PerformAction("AXPress"); err == nil {
		return nil
	}

	pt := e.ClickablePoint
	if pt == (Point{}) {
		if e.Bounds.IsEmpty() {
			return deskerr.New(deskerr.CodeActionFailed, "element has no clickable point or bounds")
		}
		pt = e.Bounds.Center()
	}
	if synthesize == nil {
		return deskerr.New(deskerr.CodeActionFailed, "no synthesizer provided for click fallback")
	}
	if err := synthesize(pt.X, pt.Y); err != nil {
		return deskerr.Wrap(err, deskerr.CodeActionFailed, "synthesized click failed")
	}
	return nil
}

// String returns a human-readable representation of the element.
func (e *Element) String() string {
	name := e.Name
	if name == "" {
		name = e.Title
	}
	if name == "" {
		name = "(no name)"
	}
	return fmt.Sprintf("%s[%s] at (%d,%d) %dx%d",
		e.Role, name, e.Bounds.X, e.Bounds.Y, e.Bounds.Width, e.Bounds.Height)
}

// NormalizeRole maps an arbitrary role string onto the canonical token
// set, falling back to RoleUnknown. Used by pkg/selector's condition
// compiler so `role:button` matches RoleButton regardless of input case.
func NormalizeRole(s string) Role {
	for _, r := range allRoles {
		if strings.EqualFold(string(r), s) {
			return r
		}
	}
	return RoleUnknown
}

var allRoles = []Role{
	RoleButton, RoleCalendar, RoleCheckBox, RoleComboBox, RoleEdit, RoleHyperlink,
	RoleImage, RoleListItem, RoleList, RoleMenu, RoleMenuBar, RoleMenuItem,
	RoleProgressBar, RoleRadioButton, RoleScrollBar, RoleSlider, RoleSpinner,
	RoleStatusBar, RoleTab, RoleTabItem, RoleText, RoleToolBar, RoleToolTip,
	RoleTree, RoleTreeItem, RoleCustom, RoleGroup, RoleThumb, RoleDataGrid,
	RoleDataItem, RoleDocument, RoleSplitButton, RoleWindow, RolePane, RoleHeader,
	RoleHeaderItem, RoleTable, RoleTitleBar, RoleSeparator, RoleUnknown,
}

// Common sentinel-style errors, kept for callers using errors.Is against
// a specific deskerr.Code via deskerr.Is(err, deskerr.CodeXxx).
var (
	ErrNotSupported     = deskerr.New(deskerr.CodeNotImplemented, "operation not supported on this platform")
	ErrPermissionDenied = deskerr.New(deskerr.CodePermissionDenied, "accessibility permission denied")
	ErrNotFound         = deskerr.New(deskerr.CodeElementNotFound, "element not found")
	ErrInvalidElement   = deskerr.New(deskerr.CodeActionFailed, "element reference is invalid")
	ErrNoFocus          = deskerr.New(deskerr.CodeElementNotFound, "no element has keyboard focus")
	ErrTimeout          = deskerr.New(deskerr.CodeTimeout, "timeout waiting for element")
)

// EnsureAccessibility verifies the process holds whatever accessibility
// grant the platform requires before a11y queries can succeed. It
// returns nil when trusted and a PermissionDenied error (with a
// platform-appropriate message and suggestions) when not. Re-entrant:
// calling it again after a grant returns nil.
func EnsureAccessibility() error {
	return ensureAccessibility()
}

// Platform-specific implementations (defined in darwin.go / windows.go)
var (
	// ensureAccessibility defaults to trusted: only macOS gates a11y
	// reads behind an explicit grant.
	ensureAccessibility func() error = func() error { return nil }

	focusElement  func(e *Element) error                = notSupported1[*Element]
	performAction func(e *Element, action string) error = notSupported2[*Element, string]
	setValue      func(e *Element, value string) error  = notSupported2[*Element, string]
	loadChildren  func(e *Element) error                = notSupported1[*Element]
)

func notSupported1[T any](_ T) error {
	return ErrNotSupported
}

func notSupported2[T, U any](_ T, _ U) error {
	return ErrNotSupported
}
