package element

import "strings"

// Finder locates UI elements on screen using the accessibility API.
// Create a Finder with NewFinder() and remember to call Close() when done.
type Finder struct {
	// impl holds the platform-specific implementation
	impl finderImpl
}

// finderImpl is the platform-specific finder implementation.
// Defined in darwin.go / windows.go
type finderImpl interface {
	// Root returns the root element (typically the system-wide element).
	Root() (*Element, error)

	// FocusedApplication returns the frontmost application element.
	FocusedApplication() (*Element, error)

	// FocusedElement returns the element that currently has keyboard focus.
	FocusedElement() (*Element, error)

	// ApplicationByPID returns the application element for a process ID.
	ApplicationByPID(pid int) (*Element, error)

	// AllApplications returns all running application elements.
	AllApplications() ([]*Element, error)

	// ElementAt returns the deepest element at the given screen
	// coordinates, used by pkg/capture's click-context resolver.
	ElementAt(x, y int) (*Element, error)

	// Close releases any resources held by the finder.
	Close() error
}

// NewFinder creates a new Finder for locating UI elements.
// On macOS, this requires accessibility permissions.
// Call Close() when done to release resources.
func NewFinder() (*Finder, error) {
	impl, err := newFinderImpl()
	if err != nil {
		return nil, err
	}
	return &Finder{impl: impl}, nil
}

// Close releases resources held by the Finder.
func (f *Finder) Close() error {
	if f.impl != nil {
		return f.impl.Close()
	}
	return nil
}

// Root returns the system-wide root element. On macOS this element
// exposes no enumerable children; see EnumerateTopWindows.
func (f *Finder) Root() (*Element, error) {
	return f.impl.Root()
}

// FocusedApplication returns the frontmost application.
func (f *Finder) FocusedApplication() (*Element, error) {
	return f.impl.FocusedApplication()
}

// FocusedElement returns the element that currently has keyboard focus.
func (f *Finder) FocusedElement() (*Element, error) {
	return f.impl.FocusedElement()
}

// ApplicationByPID returns the application element for a process ID.
func (f *Finder) ApplicationByPID(pid int) (*Element, error) {
	return f.impl.ApplicationByPID(pid)
}

// AllApplications returns all running application elements.
func (f *Finder) AllApplications() ([]*Element, error) {
	return f.impl.AllApplications()
}

// ElementAt returns the deepest element at the given screen coordinates
// (hit-testing), used to resolve the element under a captured click.
func (f *Finder) ElementAt(x, y int) (*Element, error) {
	return f.impl.ElementAt(x, y)
}

// FindAllIn is the match engine behind pkg/locator: a single DFS from
// root, bounded to maxDepth levels below it, collecting every element
// the selector matches in pre-order. If root is nil, the search starts
// at the focused application. A nil-impl Finder is usable as long as
// root is non-nil (nothing platform-specific is touched then).
func (f *Finder) FindAllIn(root *Element, selector Selector, maxDepth int) ([]*Element, error) {
	if root == nil {
		var err error
		root, err = f.FocusedApplication()
		if err != nil {
			return nil, err
		}
	}

	var results []*Element
	WalkBounded(root, maxDepth, func(e *Element, depth int) bool {
		if selector.Matches(e) {
			results = append(results, e)
		}
		return true
	})
	return results, nil
}

// Selector is used to find elements by various criteria. pkg/selector's
// string grammar compiles down to these combinators; they can also be
// composed directly from Go.
type Selector interface {
	// Matches returns true if the element matches this selector.
	Matches(e *Element) bool
}

// roleSelector matches elements by their role.
type roleSelector struct {
	role Role
}

func (s roleSelector) Matches(e *Element) bool {
	return e.Role == s.role
}

// ByRole creates a selector that matches elements by their role.
func ByRole(role Role) Selector {
	return roleSelector{role: role}
}

// nameSelector matches elements by their exact name.
type nameSelector struct {
	name string
}

func (s nameSelector) Matches(e *Element) bool {
	return e.Name == s.name
}

// ByName creates a selector that matches elements by their exact name.
func ByName(name string) Selector {
	return nameSelector{name: name}
}

// nameContainsSelector matches elements whose name contains a substring.
type nameContainsSelector struct {
	substring string
}

func (s nameContainsSelector) Matches(e *Element) bool {
	return strings.Contains(strings.ToLower(e.Name), strings.ToLower(s.substring))
}

// ByNameContains creates a selector that matches elements whose name contains the substring.
// The match is case-insensitive.
func ByNameContains(substring string) Selector {
	return nameContainsSelector{substring: substring}
}

// titleSelector matches elements by their exact title.
type titleSelector struct {
	title string
}

func (s titleSelector) Matches(e *Element) bool {
	return e.Title == s.title
}

// ByTitle creates a selector that matches elements by their exact title.
func ByTitle(title string) Selector {
	return titleSelector{title: title}
}

// titleContainsSelector matches elements whose title contains a substring.
type titleContainsSelector struct {
	substring string
}

func (s titleContainsSelector) Matches(e *Element) bool {
	return strings.Contains(strings.ToLower(e.Title), strings.ToLower(s.substring))
}

// ByTitleContains creates a selector that matches elements whose title contains the substring.
// The match is case-insensitive.
func ByTitleContains(substring string) Selector {
	return titleContainsSelector{substring: substring}
}

// valueSelector matches elements by their exact value.
type valueSelector struct {
	value string
}

func (s valueSelector) Matches(e *Element) bool {
	return e.Value == s.value
}

// ByValue creates a selector that matches elements by their exact value.
func ByValue(value string) Selector {
	return valueSelector{value: value}
}

// andSelector matches elements that match ALL provided selectors.
type andSelector struct {
	selectors []Selector
}

func (s andSelector) Matches(e *Element) bool {
	for _, sel := range s.selectors {
		if !sel.Matches(e) {
			return false
		}
	}
	return true
}

// And creates a selector that matches elements matching ALL provided selectors.
func And(selectors ...Selector) Selector {
	return andSelector{selectors: selectors}
}

// predicateSelector matches elements using a custom predicate function.
type predicateSelector struct {
	fn func(*Element) bool
}

func (s predicateSelector) Matches(e *Element) bool {
	return s.fn(e)
}

// ByPredicate creates a selector using a custom predicate function.
func ByPredicate(fn func(*Element) bool) Selector {
	return predicateSelector{fn: fn}
}

// Platform-specific implementation constructor (defined in darwin.go / windows.go)
var newFinderImpl func() (finderImpl, error) = func() (finderImpl, error) {
	return nil, ErrNotSupported
}
