package capture

// Permissions reports the two OS-level grants a Recorder needs to capture
// anything meaningful: accessibility (for focus/context resolution) and
// input monitoring (for the global tap itself). Starting a Recorder
// without both produces undefined capture - no events.
type Permissions struct {
	Accessibility   bool
	InputMonitoring bool
}

// checkPermissionsFunc and requestPermissionsFunc are set per-platform in
// permissions_darwin.go / permissions_other.go, following the same
// var-func override pattern pkg/element uses for its finder constructor.
var (
	checkPermissionsFunc   func() (Permissions, error) = func() (Permissions, error) { return Permissions{}, nil }
	requestPermissionsFunc func() error                = func() error { return nil }
)

// CheckPermissions reports the current grant state without prompting.
func CheckPermissions() (Permissions, error) { return checkPermissionsFunc() }

// RequestPermissions prompts the user for any missing grant, where the
// platform supports prompting. It does not block for the user's response.
func RequestPermissions() error { return requestPermissionsFunc() }
