package filter

import (
	"fmt"
	"github.com/rs/zerolog"
)

// LoggedFilter reports every decision of a filter to a zerolog logger at debug
// level.
type LoggedFilter struct {
	name   string
	filter Filter
	logger zerolog.Logger
}

func Logged(name string, f Filter, logger zerolog.Logger) *LoggedFilter {
	return &LoggedFilter{name: name, filter: f, logger: logger}
}

func (lf *LoggedFilter) Query(q Query) Response {
	r := lf.filter.Query(q)

	ev := lf.logger.Debug().
		Str("filter", lf.name).
		Stringer("response", r)
	if keyed, ok := q.(Keyed); ok {
		ev = ev.Str("key", keyed.Key())
	}
	ev.Msg("filter queried")

	return r
}

func (lf *LoggedFilter) Filter() Filter {
	return lf.filter
}

func (lf *LoggedFilter) equal(other Filter) bool {
	o, ok := other.(*LoggedFilter)
	return ok && o.name == lf.name && Equal(lf.filter, o.filter)
}

func (lf *LoggedFilter) String() string {
	return fmt.Sprintf("%s: %v", lf.name, lf.filter)
}
