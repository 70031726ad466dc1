//go:build !darwin

package capture

import (
	"os"

	"github.com/corvidlabs/deskctl/pkg/deskerr"
	"github.com/corvidlabs/deskctl/pkg/platform"
)

func init() {
	checkPermissionsFunc = checkOtherPermissions
	requestPermissionsFunc = requestOtherPermissions
}

// checkOtherPermissions has no Windows analogue to AXIsProcessTrustedWithOptions
// - UIA and SetWindowsHookEx both work without an explicit grant - so
// Windows always reports both permissions present. Linux has no uniform
// equivalent either, but a missing display server reliably means no input
// tap is possible, grounded on the DISPLAY/WAYLAND_DISPLAY probe pattern
// used for window lookup on that platform.
func checkOtherPermissions() (Permissions, error) {
	if !platform.IsLinux() {
		return Permissions{Accessibility: true, InputMonitoring: true}, nil
	}
	hasDisplay := os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
	return Permissions{Accessibility: hasDisplay, InputMonitoring: hasDisplay}, nil
}

func requestOtherPermissions() error {
	if !platform.IsLinux() {
		return nil
	}
	if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
		return deskerr.New(deskerr.CodePermissionDenied, "no display server detected").
			WithSuggestions("run under an active X11 or Wayland session")
	}
	return nil
}
