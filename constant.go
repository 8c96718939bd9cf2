package filter

import "fmt"

// Constant is a filter that gives the same response to every query.
type Constant struct {
	response Response
}

var (
	allowAll   = &Constant{response: Allow}
	abstainAll = &Constant{response: Abstain}
	denyAll    = &Constant{response: Deny}
)

// Always returns the shared constant filter for r. It panics if r is not a
// valid response.
func Always(r Response) *Constant {
	switch r {
	case Allow:
		return allowAll
	case Abstain:
		return abstainAll
	case Deny:
		return denyAll
	default:
		panic(fmt.Sprintf("filter: no constant filter for %s", r))
	}
}

func AllowAll() *Constant { return allowAll }

func AbstainAll() *Constant { return abstainAll }

func DenyAll() *Constant { return denyAll }

func (c *Constant) Response() Response {
	return c.response
}

func (c *Constant) Query(Query) Response {
	return c.response
}

func (c *Constant) equal(other Filter) bool {
	o, ok := other.(*Constant)
	return ok && o.response == c.response
}

func (c *Constant) String() string {
	return "always(" + c.response.String() + ")"
}
