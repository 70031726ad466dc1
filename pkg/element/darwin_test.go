//go:build darwin

package element

import "testing"

func TestMapRole(t *testing.T) {
	tests := []struct {
		axRole string
		want   Role
	}{
		{"AXWindow", RoleWindow},
		{"AXButton", RoleButton},
		{"AXTextField", RoleEdit},
		{"AXStaticText", RoleText},
		{"AXUnknownRole", RoleUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.axRole, func(t *testing.T) {
			got := mapRole(tt.axRole)
			if got != tt.want {
				t.Errorf("mapRole(%s) = %s, want %s", tt.axRole, got, tt.want)
			}
		})
	}
}
