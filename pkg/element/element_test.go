package element

import (
	"runtime"
	"testing"
)

func TestRectCenter(t *testing.T) {
	tests := []struct {
		name string
		rect Rect
		want Point
	}{
		{
			name: "simple rectangle",
			rect: Rect{X: 0, Y: 0, Width: 100, Height: 100},
			want: Point{X: 50, Y: 50},
		},
		{
			name: "offset rectangle",
			rect: Rect{X: 100, Y: 200, Width: 50, Height: 60},
			want: Point{X: 125, Y: 230},
		},
		{
			name: "zero size",
			rect: Rect{X: 10, Y: 20, Width: 0, Height: 0},
			want: Point{X: 10, Y: 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.rect.Center()
			if got != tt.want {
				t.Errorf("Center() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectContains(t *testing.T) {
	rect := Rect{X: 10, Y: 20, Width: 100, Height: 50}

	tests := []struct {
		name  string
		point Point
		want  bool
	}{
		{"inside", Point{50, 40}, true},
		{"top-left corner", Point{10, 20}, true},
		{"bottom-right edge", Point{109, 69}, true},
		{"outside left", Point{5, 40}, false},
		{"outside right", Point{111, 40}, false},
		{"outside top", Point{50, 15}, false},
		{"outside bottom", Point{50, 71}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rect.Contains(tt.point); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.point, got, tt.want)
			}
		})
	}
}

func TestRectIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		rect Rect
		want bool
	}{
		{"normal", Rect{X: 0, Y: 0, Width: 100, Height: 50}, false},
		{"zero width", Rect{X: 0, Y: 0, Width: 0, Height: 50}, true},
		{"zero height", Rect{X: 0, Y: 0, Width: 100, Height: 0}, true},
		{"negative width", Rect{X: 0, Y: 0, Width: -10, Height: 50}, true},
		{"negative height", Rect{X: 0, Y: 0, Width: 100, Height: -10}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rect.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestElementString(t *testing.T) {
	elem := &Element{
		Role:   RoleButton,
		Name:   "Submit",
		Bounds: Rect{X: 100, Y: 200, Width: 80, Height: 30},
	}

	got := elem.String()
	if got == "" {
		t.Error("String() returned empty string")
	}

	// Should contain role and name
	if !containsSubstring(got, "Button") {
		t.Errorf("String() should contain role, got %s", got)
	}
	if !containsSubstring(got, "Submit") {
		t.Errorf("String() should contain name, got %s", got)
	}
}

func TestSelectorByRole(t *testing.T) {
	selector := ByRole(RoleButton)

	tests := []struct {
		name    string
		element *Element
		want    bool
	}{
		{"matches button", &Element{Role: RoleButton}, true},
		{"no match textfield", &Element{Role: RoleEdit}, false},
		{"no match unknown", &Element{Role: RoleUnknown}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := selector.Matches(tt.element); got != tt.want {
				t.Errorf("ByRole(Button).Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelectorByName(t *testing.T) {
	selector := ByName("Submit")

	tests := []struct {
		name    string
		element *Element
		want    bool
	}{
		{"exact match", &Element{Name: "Submit"}, true},
		{"case mismatch", &Element{Name: "submit"}, false},
		{"partial match", &Element{Name: "Submit Button"}, false},
		{"no match", &Element{Name: "Cancel"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := selector.Matches(tt.element); got != tt.want {
				t.Errorf("ByName(Submit).Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelectorByNameContains(t *testing.T) {
	selector := ByNameContains("save")

	tests := []struct {
		name    string
		element *Element
		want    bool
	}{
		{"exact match", &Element{Name: "save"}, true},
		{"contains lowercase", &Element{Name: "save file"}, true},
		{"contains uppercase", &Element{Name: "Save File"}, true},
		{"contains mixed", &Element{Name: "AutoSave"}, true},
		{"no match", &Element{Name: "Cancel"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := selector.Matches(tt.element); got != tt.want {
				t.Errorf("ByNameContains(save).Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelectorAnd(t *testing.T) {
	selector := And(ByRole(RoleButton), ByNameContains("submit"))

	tests := []struct {
		name    string
		element *Element
		want    bool
	}{
		{"both match", &Element{Role: RoleButton, Name: "Submit"}, true},
		{"role only", &Element{Role: RoleButton, Name: "Cancel"}, false},
		{"name only", &Element{Role: RoleEdit, Name: "Submit"}, false},
		{"neither", &Element{Role: RoleEdit, Name: "Cancel"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := selector.Matches(tt.element); got != tt.want {
				t.Errorf("And().Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelectorByPredicate(t *testing.T) {
	// Custom predicate: element width > 100
	selector := ByPredicate(func(e *Element) bool {
		return e.Bounds.Width > 100
	})

	tests := []struct {
		name    string
		element *Element
		want    bool
	}{
		{"wide element", &Element{Bounds: Rect{Width: 200}}, true},
		{"narrow element", &Element{Bounds: Rect{Width: 50}}, false},
		{"exactly 100", &Element{Bounds: Rect{Width: 100}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := selector.Matches(tt.element); got != tt.want {
				t.Errorf("ByPredicate().Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWalkBoundedClampsDepthWithoutLosingSiblings(t *testing.T) {
	root := &Element{Name: "root", Children: []*Element{
		{Name: "child1", Children: []*Element{
			{Name: "grandchild1"},
			{Name: "grandchild2"},
		}},
		{Name: "child2"},
	}}

	var visited []string
	var depths []int
	WalkBounded(root, 1, func(e *Element, depth int) bool {
		visited = append(visited, e.Name)
		depths = append(depths, depth)
		return true
	})

	// depth=1 includes root and its direct children but not grandchildren,
	// and child2 must still be visited despite child1's subtree being deeper.
	expected := []string{"root", "child1", "child2"}
	if len(visited) != len(expected) {
		t.Fatalf("WalkBounded visited %v, want %v", visited, expected)
	}
	for i, name := range expected {
		if visited[i] != name {
			t.Errorf("WalkBounded order[%d] = %s, want %s", i, visited[i], name)
		}
	}
	if depths[0] != 0 || depths[1] != 1 || depths[2] != 1 {
		t.Errorf("WalkBounded depths = %v, want [0 1 1]", depths)
	}
}

func TestTreeFind(t *testing.T) {
	root := &Element{Name: "root", Role: RoleWindow, Children: []*Element{
		{Name: "button1", Role: RoleButton},
		{Name: "text1", Role: RoleEdit},
		{Name: "button2", Role: RoleButton},
	}}

	// Find first button
	found := Find(root, func(e *Element) bool {
		return e.Role == RoleButton
	})

	if found == nil {
		t.Fatal("Find() returned nil")
	}
	if found.Name != "button1" {
		t.Errorf("Find() found %s, want button1", found.Name)
	}
}

func TestFindReturnsFirstWindowDescendant(t *testing.T) {
	app := &Element{Name: "app", Title: "App", Children: []*Element{
		{Name: "toolbar", Role: RoleButton},
		{Name: "main", Role: RoleWindow, Title: "Main Window"},
	}}

	// Mirrors pkg/capture's focusedWindowTitle usage.
	w := Find(app, func(e *Element) bool { return e.Role == RoleWindow })
	if w == nil || w.Title != "Main Window" {
		t.Fatalf("Find() = %+v, want the Main Window element", w)
	}
}

// Integration test - requires accessibility permissions
func TestFinderIntegration(t *testing.T) {
	if runtime.GOOS != "darwin" {
		t.Skip("Finder integration test only available on macOS")
	}

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	finder, err := NewFinder()
	if err != nil {
		if err == ErrPermissionDenied {
			t.Skip("Accessibility permissions not granted")
		}
		t.Fatalf("NewFinder() error: %v", err)
	}
	defer finder.Close()

	// Get frontmost application
	app, err := finder.FocusedApplication()
	if err != nil {
		t.Fatalf("FocusedApplication() error: %v", err)
	}

	t.Logf("Focused app: %s (PID: %d)", app.Name, app.PID)

	// Find all windows in the app
	windows, err := finder.FindAllIn(app, ByRole(RoleWindow), 5)
	if err != nil {
		t.Fatalf("FindAllIn(Window) error: %v", err)
	}

	t.Logf("Found %d windows", len(windows))
	for _, w := range windows {
		t.Logf("  Window: %s at %v", w.Title, w.Bounds)
	}
}

// fakeFinderImpl satisfies finderImpl from a synthetic element tree so
// the Finder surface can be exercised without a real accessibility API.
type fakeFinderImpl struct {
	root    *Element
	focused *Element
	at      *Element
	closed  bool
}

func (f *fakeFinderImpl) Root() (*Element, error)               { return f.root, nil }
func (f *fakeFinderImpl) FocusedApplication() (*Element, error) { return f.focused, nil }
func (f *fakeFinderImpl) FocusedElement() (*Element, error) {
	if f.focused == nil {
		return nil, ErrNoFocus
	}
	return f.focused, nil
}
func (f *fakeFinderImpl) ApplicationByPID(pid int) (*Element, error) {
	if f.focused != nil && f.focused.ProcessID == pid {
		return f.focused, nil
	}
	return nil, ErrNotFound
}
func (f *fakeFinderImpl) AllApplications() ([]*Element, error) { return []*Element{f.focused}, nil }
func (f *fakeFinderImpl) ElementAt(x, y int) (*Element, error) { return f.at, nil }
func (f *fakeFinderImpl) Close() error                         { f.closed = true; return nil }

func newFakeFinder() (*Finder, *fakeFinderImpl) {
	app := &Element{Name: "app", Role: RoleGroup, ProcessID: 42, Children: []*Element{
		{Name: "main", Role: RoleWindow, Title: "Main", Children: []*Element{
			{Name: "OK", Role: RoleButton},
			{Name: "Cancel", Role: RoleButton},
		}},
	}}
	impl := &fakeFinderImpl{
		root:    &Element{Role: RoleGroup, Children: []*Element{app}},
		focused: app,
		at:      app.Children[0].Children[0],
	}
	return &Finder{impl: impl}, impl
}

func TestFinderFindAllInDFSOrder(t *testing.T) {
	f, _ := newFakeFinder()

	buttons, err := f.FindAllIn(nil, ByRole(RoleButton), 30)
	if err != nil {
		t.Fatalf("FindAllIn() error: %v", err)
	}
	if len(buttons) != 2 || buttons[0].Name != "OK" || buttons[1].Name != "Cancel" {
		t.Fatalf("FindAllIn() = %v, want [OK Cancel] in pre-order", buttons)
	}
}

func TestFinderFindAllInRespectsMaxDepth(t *testing.T) {
	f, _ := newFakeFinder()

	app, err := f.FocusedApplication()
	if err != nil {
		t.Fatalf("FocusedApplication() error: %v", err)
	}
	// Buttons live two levels below the app; depth 1 stops at the window.
	buttons, err := f.FindAllIn(app, ByRole(RoleButton), 1)
	if err != nil {
		t.Fatalf("FindAllIn() error: %v", err)
	}
	if len(buttons) != 0 {
		t.Fatalf("FindAllIn(depth=1) = %v, want no buttons", buttons)
	}
	windows, err := f.FindAllIn(app, ByRole(RoleWindow), 1)
	if err != nil {
		t.Fatalf("FindAllIn() error: %v", err)
	}
	if len(windows) != 1 {
		t.Fatalf("FindAllIn(Window, depth=1) = %v, want the one window", windows)
	}
}

func TestFinderDelegation(t *testing.T) {
	f, impl := newFakeFinder()

	if root, err := f.Root(); err != nil || root != impl.root {
		t.Errorf("Root() = %v, %v", root, err)
	}
	if el, err := f.FocusedElement(); err != nil || el != impl.focused {
		t.Errorf("FocusedElement() = %v, %v", el, err)
	}
	if app, err := f.ApplicationByPID(42); err != nil || app != impl.focused {
		t.Errorf("ApplicationByPID(42) = %v, %v", app, err)
	}
	if _, err := f.ApplicationByPID(7); err != ErrNotFound {
		t.Errorf("ApplicationByPID(7) err = %v, want ErrNotFound", err)
	}
	if el, err := f.ElementAt(1, 2); err != nil || el != impl.at {
		t.Errorf("ElementAt() = %v, %v", el, err)
	}
	if err := f.Close(); err != nil || !impl.closed {
		t.Errorf("Close() err = %v, closed = %v", err, impl.closed)
	}
}

// Helper function
func containsSubstring(s, substr string) bool {
	return len(s) >= len(substr) && (s == substr || len(s) > len(substr) && containsAt(s, substr))
}

func containsAt(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}

func TestBuildTreePreOrderIndexing(t *testing.T) {
	// root -> [A -> [B], C]
	root := &Element{Name: "root", Role: RoleWindow, Children: []*Element{
		{Name: "A", Role: RoleGroup, Children: []*Element{
			{Name: "B", Role: RoleButton},
		}},
		{Name: "C", Role: RoleButton},
	}}

	result, session := BuildTree(root, 5)

	wantNames := []string{"root", "A", "B", "C"}
	wantDepths := []int{0, 1, 2, 1}
	if result.Count != len(wantNames) {
		t.Fatalf("Count = %d, want %d", result.Count, len(wantNames))
	}
	for i, n := range result.Nodes {
		if n.Index != i {
			t.Errorf("Nodes[%d].Index = %d, want %d", i, n.Index, i)
		}
		if n.Name != wantNames[i] {
			t.Errorf("Nodes[%d].Name = %s, want %s", i, n.Name, wantNames[i])
		}
		if n.Depth != wantDepths[i] {
			t.Errorf("Nodes[%d].Depth = %d, want %d", i, n.Depth, wantDepths[i])
		}
		if session.ElementByIndex(i) == nil {
			t.Errorf("ElementByIndex(%d) = nil, want the live element", i)
		}
	}
	if session.ElementByIndex(2).Name != "B" {
		t.Errorf("ElementByIndex(2) = %s, want B", session.ElementByIndex(2).Name)
	}
	if session.ElementByIndex(len(wantNames)) != nil {
		t.Error("ElementByIndex out of range must return nil")
	}
}

func TestBuildTreeMaxDepthBoundaries(t *testing.T) {
	root := &Element{Name: "root", Children: []*Element{
		{Name: "child", Children: []*Element{
			{Name: "grandchild"},
		}},
	}}

	onlyRoot, _ := BuildTree(root, 0)
	if onlyRoot.Count != 1 || onlyRoot.Nodes[0].Name != "root" {
		t.Fatalf("maxDepth=0 yielded %v, want only the root", onlyRoot.Nodes)
	}

	oneLevel, _ := BuildTree(root, 1)
	if oneLevel.Count != 2 {
		t.Fatalf("maxDepth=1 yielded %d nodes, want root + child", oneLevel.Count)
	}
}

func TestBuildTreeTruncatesValue(t *testing.T) {
	long := make([]rune, 150)
	for i := range long {
		long[i] = 'v'
	}
	root := &Element{Name: "root", Value: string(long)}

	result, _ := BuildTree(root, 0)
	if got := len([]rune(result.Nodes[0].Value)); got > 100 {
		t.Errorf("Value length = %d, want <= 100", got)
	}
}
