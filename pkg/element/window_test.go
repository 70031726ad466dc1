package element

import "testing"

func TestNormalizeProcName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Code.exe", "code"},
		{"visual-studio-code", "visualstudiocode"},
		{"  Firefox  ", "firefox"},
		{"my-app.exe", "myapp"},
		{"TERMINAL", "terminal"},
	}
	for _, tt := range tests {
		if got := normalizeProcName(tt.in); got != tt.want {
			t.Errorf("normalizeProcName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTitleMatches(t *testing.T) {
	w := &Element{Title: "My Document - Editor", Name: "editor-main"}

	if !titleMatches(w, "document") {
		t.Error("substring of title should match case-insensitively")
	}
	if !titleMatches(w, "EDITOR-MAIN") {
		t.Error("substring of name should match case-insensitively")
	}
	if titleMatches(w, "browser") {
		t.Error("unrelated query must not match")
	}
	if titleMatches(&Element{}, "anything") {
		t.Error("element with no title or name must never match")
	}
}

func TestFirstTopWindowReturnsWindowLikeSelf(t *testing.T) {
	w := &Element{Role: RoleWindow, Title: "already a window"}
	if got := firstTopWindow(w); got != w {
		t.Fatal("a window-like element should be returned as-is")
	}
}

func TestFirstTopWindowDescendsOneLevel(t *testing.T) {
	win := &Element{Role: RoleWindow, Title: "main"}
	app := &Element{Role: RoleGroup, Children: []*Element{
		{Role: RoleMenuBar},
		win,
		{Role: RoleWindow, Title: "secondary"},
	}}

	if got := firstTopWindow(app); got != win {
		t.Fatalf("firstTopWindow = %v, want the first window child", got)
	}
}

func TestFirstTopWindowNoWindowChild(t *testing.T) {
	app := &Element{Role: RoleGroup, Children: []*Element{
		{Role: RoleMenuBar},
		{Role: RoleButton},
	}}
	if got := firstTopWindow(app); got != nil {
		t.Fatalf("firstTopWindow = %v, want nil when no child is window-like", got)
	}
}

func TestIsWindowLike(t *testing.T) {
	if !isWindowLike(RoleWindow) || !isWindowLike(RolePane) {
		t.Error("Window and Pane are window-like")
	}
	if isWindowLike(RoleButton) || isWindowLike(RoleUnknown) {
		t.Error("Button and Unknown are not window-like")
	}
}
