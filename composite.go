package filter

import (
	"fmt"
	"strings"
)

type compositeKind uint8

const (
	allKind compositeKind = iota
	anyKind
	oneKind
)

func (k compositeKind) String() string {
	switch k {
	case allKind:
		return "all"
	case anyKind:
		return "any"
	default:
		return "one"
	}
}

type composite struct {
	kind    compositeKind
	filters []Filter
}

func newComposite(kind compositeKind, filters []Filter) composite {
	cp := make([]Filter, len(filters))
	for i, f := range filters {
		if f == nil {
			panic(fmt.Sprintf("filter: nil child at position %d of %s", i, kind))
		}
		cp[i] = f
	}

	return composite{kind: kind, filters: cp}
}

// Filters returns a copy of the child filters. Children should not be queried
// directly.
func (c *composite) Filters() []Filter {
	cp := make([]Filter, len(c.filters))
	copy(cp, c.filters)
	return cp
}

func (c *composite) sameAs(kind compositeKind, other []Filter) bool {
	return c.kind == kind && equalLists(c.filters, other)
}

func (c *composite) String() string {
	parts := make([]string, len(c.filters))
	for i, f := range c.filters {
		parts[i] = fmt.Sprint(f)
	}

	return c.kind.String() + "(" + strings.Join(parts, ", ") + ")"
}

// AllFilter allows when all of its children allow.
type AllFilter struct {
	composite
}

func All(filters ...Filter) *AllFilter {
	return AllOf(filters)
}

func AllOf(filters []Filter) *AllFilter {
	return &AllFilter{composite: newComposite(allKind, filters)}
}

// Query denies as soon as a child denies. Otherwise it allows if at least one
// child allowed and abstains when every child abstained.
func (f *AllFilter) Query(q Query) Response {
	result := Abstain
	for _, child := range f.filters {
		switch child.Query(q) {
		case Allow:
			result = Allow
		case Deny:
			return Deny
		}
	}

	return result
}

func (f *AllFilter) equal(other Filter) bool {
	o, ok := other.(*AllFilter)
	return ok && f.sameAs(o.kind, o.filters)
}

// AnyFilter allows when any of its children allows.
type AnyFilter struct {
	composite
}

func Any(filters ...Filter) *AnyFilter {
	return AnyOf(filters)
}

func AnyOf(filters []Filter) *AnyFilter {
	return &AnyFilter{composite: newComposite(anyKind, filters)}
}

// Query allows as soon as a child allows. Otherwise it denies if at least one
// child denied and abstains when every child abstained.
func (f *AnyFilter) Query(q Query) Response {
	result := Abstain
	for _, child := range f.filters {
		switch child.Query(q) {
		case Allow:
			return Allow
		case Deny:
			result = Deny
		}
	}

	return result
}

func (f *AnyFilter) equal(other Filter) bool {
	o, ok := other.(*AnyFilter)
	return ok && f.sameAs(o.kind, o.filters)
}

// OneFilter allows when exactly one of its children allows.
type OneFilter struct {
	composite
}

func One(filters ...Filter) *OneFilter {
	return OneOf(filters)
}

func OneOf(filters []Filter) *OneFilter {
	return &OneFilter{composite: newComposite(oneKind, filters)}
}

// Query denies as soon as a second child allows. With no allowing child it
// denies if any child denied and abstains otherwise.
func (f *OneFilter) Query(q Query) Response {
	allowed := false
	denied := false
	for _, child := range f.filters {
		switch child.Query(q) {
		case Allow:
			if allowed {
				return Deny
			}
			allowed = true
		case Deny:
			denied = true
		}
	}

	if allowed {
		return Allow
	}

	if denied {
		return Deny
	}

	return Abstain
}

func (f *OneFilter) equal(other Filter) bool {
	o, ok := other.(*OneFilter)
	return ok && f.sameAs(o.kind, o.filters)
}
