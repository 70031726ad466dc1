package selector

import (
	"testing"

	"github.com/corvidlabs/deskctl/pkg/deskerr"
	"github.com/corvidlabs/deskctl/pkg/element"
)

func TestParseBasic(t *testing.T) {
	sel, err := Parse("role:Button AND name~:Submit")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(sel.Conditions) != 2 {
		t.Fatalf("got %d conditions, want 2", len(sel.Conditions))
	}
	if sel.Conditions[0] != (Condition{Attr: AttrRole, Op: OpEquals, Value: "Button"}) {
		t.Errorf("condition[0] = %+v", sel.Conditions[0])
	}
	if sel.Conditions[1] != (Condition{Attr: AttrName, Op: OpContains, Value: "Submit"}) {
		t.Errorf("condition[1] = %+v", sel.Conditions[1])
	}
}

func TestParseRoundTrip(t *testing.T) {
	cases := []string{
		"role:Button",
		"role:Button AND name~:Submit",
		"desc:Cancel",
		"idx:3",
	}
	for _, c := range cases {
		sel, err := Parse(c)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", c, err)
		}
		reparsed, err := Parse(sel.String())
		if err != nil {
			t.Fatalf("Parse(reparse of %q) error: %v", c, err)
		}
		if len(reparsed.Conditions) != len(sel.Conditions) {
			t.Fatalf("round-trip condition count mismatch for %q", c)
		}
		for i := range sel.Conditions {
			if sel.Conditions[i] != reparsed.Conditions[i] {
				t.Errorf("round-trip mismatch at %d for %q: %+v != %+v", i, c, sel.Conditions[i], reparsed.Conditions[i])
			}
		}
	}
}

func TestParseEmptySelectorInvalid(t *testing.T) {
	_, err := Parse("")
	if !deskerr.Is(err, deskerr.CodeSelectorInvalid) {
		t.Fatalf("expected CodeSelectorInvalid, got %v", err)
	}
}

func TestParseUnknownAttrInvalid(t *testing.T) {
	_, err := Parse("bogus:foo")
	if !deskerr.Is(err, deskerr.CodeSelectorInvalid) {
		t.Fatalf("expected CodeSelectorInvalid, got %v", err)
	}
}

func TestMatchesMissingAttributeNeverSatisfies(t *testing.T) {
	sel, _ := Parse("name:Submit")
	e := &element.Element{Role: element.RoleButton}
	if sel.Matches(e) {
		t.Error("selector should not match an element with no Name set")
	}
}

func TestMatchesAndCommutativity(t *testing.T) {
	a, _ := Parse("role:Button AND name~:Submit")
	b, _ := Parse("name~:Submit AND role:Button")

	els := []*element.Element{
		{Role: element.RoleButton, Name: "Submit Order"},
		{Role: element.RoleButton, Name: "Cancel"},
		{Role: element.RoleEdit, Name: "Submit Order"},
	}

	for _, e := range els {
		if a.Matches(e) != b.Matches(e) {
			t.Errorf("AND commutativity violated for %+v", e)
		}
	}
}

func TestIndexFilter(t *testing.T) {
	sel, _ := Parse("role:Button AND index:2")
	idx, ok, err := sel.IndexFilter()
	if err != nil || !ok || idx != 2 {
		t.Fatalf("IndexFilter() = %d, %v, %v", idx, ok, err)
	}

	sel2, _ := Parse("role:Button")
	_, ok2, _ := sel2.IndexFilter()
	if ok2 {
		t.Error("expected no index filter")
	}
}

func TestRoleEqualsCaseInsensitive(t *testing.T) {
	sel, _ := Parse("role:button")
	e := &element.Element{Role: element.RoleButton}
	if !sel.Matches(e) {
		t.Error("role equals should be case-insensitive")
	}
}

func TestAsElementSelectorAgreesWithMatches(t *testing.T) {
	elements := []*element.Element{
		{Role: element.RoleButton, Name: "Submit"},
		{Role: element.RoleButton, Name: "Cancel"},
		{Role: element.RoleEdit, Name: "Submit", Value: "draft"},
		{Role: element.RoleUnknown},
		{Name: "Submit"}, // no role
		{Title: "Main Window", Description: "primary surface"},
	}
	selectors := []string{
		"role:Button",
		"role:button AND name:Submit",
		"role:NotARole",
		"name~:sub",
		"title~:window",
		"desc:primary surface",
		"value:draft",
		"role:Button AND index:1",
	}
	for _, raw := range selectors {
		sel, err := Parse(raw)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", raw, err)
		}
		compiled := sel.AsElementSelector()
		for i, e := range elements {
			if got, want := compiled.Matches(e), sel.Matches(e); got != want {
				t.Errorf("selector %q, element %d: compiled.Matches = %v, Matches = %v", raw, i, got, want)
			}
		}
	}
}
