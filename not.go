package filter

import "fmt"

// NotFilter answers with the inverse of its child:
//
//	Allow   -> Deny
//	Abstain -> Abstain
//	Deny    -> Allow
type NotFilter struct {
	filter Filter
}

func Not(f Filter) *NotFilter {
	if f == nil {
		panic("filter: nil child of not")
	}

	return &NotFilter{filter: f}
}

// Filter returns the child filter. It should not be queried directly.
func (f *NotFilter) Filter() Filter {
	return f.filter
}

func (f *NotFilter) Query(q Query) Response {
	return f.filter.Query(q).Inverse()
}

func (f *NotFilter) equal(other Filter) bool {
	o, ok := other.(*NotFilter)
	return ok && Equal(f.filter, o.filter)
}

func (f *NotFilter) String() string {
	return fmt.Sprintf("not(%v)", f.filter)
}
