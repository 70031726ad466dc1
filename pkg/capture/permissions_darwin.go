//go:build darwin

package capture

/*
#cgo darwin LDFLAGS: -framework ApplicationServices
#include <ApplicationServices/ApplicationServices.h>

static Boolean deskctl_ax_trusted(Boolean prompt) {
	const void *keys[] = { kAXTrustedCheckOptionPrompt };
	const void *values[] = { prompt ? kCFBooleanTrue : kCFBooleanFalse };
	CFDictionaryRef options = CFDictionaryCreate(kCFAllocatorDefault, keys, values, 1,
		&kCFTypeDictionaryKeyCallBacks, &kCFTypeDictionaryValueCallBacks);
	Boolean trusted = AXIsProcessTrustedWithOptions(options);
	CFRelease(options);
	return trusted;
}
*/
import "C"

import "github.com/corvidlabs/deskctl/pkg/deskerr"

func init() {
	checkPermissionsFunc = checkDarwinPermissions
	requestPermissionsFunc = requestDarwinPermissions
}

// checkDarwinPermissions probes AXIsProcessTrustedWithOptions without the
// prompt flag, so the check itself never surfaces the system dialog.
// Input monitoring is mirrored from the same check since macOS folds
// event-tap listen-only capture under the accessibility grant for
// unsigned/dev builds.
func checkDarwinPermissions() (Permissions, error) {
	trusted := C.deskctl_ax_trusted(C.Boolean(0)) != 0
	return Permissions{Accessibility: trusted, InputMonitoring: trusted}, nil
}

// requestDarwinPermissions re-runs the check with the prompt flag set,
// which triggers the system's "accessibility access" dialog the first
// time it's called for this process.
func requestDarwinPermissions() error {
	if C.deskctl_ax_trusted(C.Boolean(1)) == 0 {
		return deskerr.New(deskerr.CodePermissionDenied, "accessibility permission not granted").
			WithSuggestions("enable accessibility in System Settings > Privacy & Security > Accessibility")
	}
	return nil
}
