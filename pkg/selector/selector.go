// Package selector implements the textual selector grammar used to match
// elements against declarative conditions:
//
//	selector   := condition (' AND ' condition)*
//	condition  := attr ('~' ':' | ':') value
//	attr       := 'role' | 'name' | 'title' | 'value'
//	            | 'desc' | 'description' | 'index' | 'idx'
//	value      := arbitrary text (may contain spaces; not the literal ' AND ')
//
// Parsed selectors compile onto pkg/element's functional Selector
// interface for tree matching; the `index` attribute is special-cased
// since it filters the collected candidate list rather than a per-element
// attribute (see Selector.IndexFilter).
package selector

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/corvidlabs/deskctl/pkg/deskerr"
	"github.com/corvidlabs/deskctl/pkg/element"
)

// Attr is a canonical selector attribute.
type Attr string

const (
	AttrRole        Attr = "role"
	AttrName        Attr = "name"
	AttrTitle       Attr = "title"
	AttrValue       Attr = "value"
	AttrDescription Attr = "description"
	AttrIndex       Attr = "index"
)

// Op is a condition's comparison operator.
type Op int

const (
	OpEquals Op = iota
	OpContains
)

func (op Op) token() string {
	if op == OpContains {
		return "~:"
	}
	return ":"
}

// Condition is a single (attr, op, value) predicate.
type Condition struct {
	Attr  Attr
	Op    Op
	Value string
}

// String renders the condition in canonical textual form: `attr:value`
// for equals, `attr~:value` for contains.
func (c Condition) String() string {
	return string(c.Attr) + c.Op.token() + c.Value
}

// Selector is an ordered conjunction of Conditions.
type Selector struct {
	Conditions []Condition
}

// String renders the selector back to its canonical textual form, joined
// with the literal ' AND '.
func (s *Selector) String() string {
	parts := make([]string, len(s.Conditions))
	for i, c := range s.Conditions {
		parts[i] = c.String()
	}
	return strings.Join(parts, " AND ")
}

// normalizeAttr maps an input attribute token (case-insensitive) onto its
// canonical Attr, folding the desc/description and index/idx aliases.
func normalizeAttr(raw string) (Attr, bool) {
	switch strings.ToLower(raw) {
	case "role":
		return AttrRole, true
	case "name":
		return AttrName, true
	case "title":
		return AttrTitle, true
	case "value":
		return AttrValue, true
	case "desc", "description":
		return AttrDescription, true
	case "index", "idx":
		return AttrIndex, true
	default:
		return "", false
	}
}

// Parse parses a selector string. Attribute names are case-insensitive
// and surrounding whitespace is trimmed; an empty selector or an unknown
// attribute both fail with deskerr.CodeSelectorInvalid.
func Parse(raw string) (*Selector, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, deskerr.New(deskerr.CodeSelectorInvalid, "empty selector").
			WithSuggestions("add at least one condition, e.g. role:Button")
	}

	parts := strings.Split(raw, " AND ")
	conditions := make([]Condition, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, deskerr.New(deskerr.CodeSelectorInvalid, "empty condition in selector")
		}

		cond, err := parseCondition(part)
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, cond)
	}

	return &Selector{Conditions: conditions}, nil
}

func parseCondition(s string) (Condition, error) {
	op := OpEquals
	attrEnd := strings.Index(s, "~:")
	valueStart := -1

	if attrEnd >= 0 {
		op = OpContains
		valueStart = attrEnd + 2
	} else {
		attrEnd = strings.Index(s, ":")
		if attrEnd < 0 {
			return Condition{}, deskerr.Newf(deskerr.CodeSelectorInvalid, "malformed condition %q: missing ':'", s)
		}
		valueStart = attrEnd + 1
	}

	rawAttr := strings.TrimSpace(s[:attrEnd])
	value := s[valueStart:]

	attr, ok := normalizeAttr(rawAttr)
	if !ok {
		return Condition{}, deskerr.Newf(deskerr.CodeSelectorInvalid, "unknown selector attribute %q", rawAttr).
			WithSuggestions("valid attributes: role, name, title, value, description, index")
	}

	return Condition{Attr: attr, Op: op, Value: value}, nil
}

// IndexFilter returns the parsed integer value of the selector's `index`
// condition, if present. index is never evaluated during tree matching -
// it is applied to the collected candidate list as candidates[idx].
func (s *Selector) IndexFilter() (idx int, ok bool, err error) {
	for _, c := range s.Conditions {
		if c.Attr == AttrIndex {
			n, parseErr := strconv.Atoi(c.Value)
			if parseErr != nil {
				return 0, false, deskerr.Newf(deskerr.CodeSelectorInvalid, "invalid index value %q", c.Value)
			}
			return n, true, nil
		}
	}
	return 0, false, nil
}

// Matches evaluates all non-index conditions left-to-right against e,
// short-circuiting on the first false. Missing attributes never satisfy
// a positive condition - a missing attribute is not the same as empty.
func (s *Selector) Matches(e *element.Element) bool {
	for _, c := range s.Conditions {
		if c.Attr == AttrIndex {
			continue
		}
		if !matchCondition(c, e) {
			return false
		}
	}
	return true
}

func matchCondition(c Condition, e *element.Element) bool {
	var actual string
	var present bool

	switch c.Attr {
	case AttrRole:
		actual, present = string(e.Role), e.Role != ""
	case AttrName:
		actual, present = e.Name, e.Name != ""
	case AttrTitle:
		actual, present = e.Title, e.Title != ""
	case AttrValue:
		actual, present = e.Value, e.Value != ""
	case AttrDescription:
		actual, present = e.Description, e.Description != ""
	default:
		return false
	}

	if !present {
		return false
	}

	if c.Op == OpContains {
		return strings.Contains(strings.ToLower(actual), strings.ToLower(c.Value))
	}

	if c.Attr == AttrRole {
		return strings.EqualFold(actual, c.Value)
	}
	return actual == c.Value
}

// AsElementSelector compiles the parsed Selector onto pkg/element's
// functional Selector combinators for use with Finder.FindAllIn,
// ignoring the index condition (which the caller must apply after
// collection). Conditions whose semantics line up exactly with a named
// combinator compile to it; the rest (description, contains on
// value/role, empty values, unnormalisable roles) fall back to a
// predicate over matchCondition so the compiled form always accepts
// the same elements Matches does.
func (s *Selector) AsElementSelector() element.Selector {
	compiled := make([]element.Selector, 0, len(s.Conditions))
	for _, c := range s.Conditions {
		if c.Attr == AttrIndex {
			continue
		}
		compiled = append(compiled, compileCondition(c))
	}
	return element.And(compiled...)
}

func compileCondition(c Condition) element.Selector {
	if c.Value != "" {
		switch {
		case c.Attr == AttrRole && c.Op == OpEquals:
			// Only compile to ByRole when normalisation round-trips;
			// an unrecognised role token must not collapse onto
			// RoleUnknown and start matching real Unknown elements.
			if r := element.NormalizeRole(c.Value); strings.EqualFold(string(r), c.Value) {
				return element.ByRole(r)
			}
		case c.Attr == AttrName && c.Op == OpEquals:
			return element.ByName(c.Value)
		case c.Attr == AttrName && c.Op == OpContains:
			return element.ByNameContains(c.Value)
		case c.Attr == AttrTitle && c.Op == OpEquals:
			return element.ByTitle(c.Value)
		case c.Attr == AttrTitle && c.Op == OpContains:
			return element.ByTitleContains(c.Value)
		case c.Attr == AttrValue && c.Op == OpEquals:
			return element.ByValue(c.Value)
		}
	}
	cond := c
	return element.ByPredicate(func(e *element.Element) bool {
		return matchCondition(cond, e)
	})
}

var _ fmt.Stringer = (*Selector)(nil)
