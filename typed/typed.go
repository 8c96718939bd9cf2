// Package typed provides filters that only answer queries of one Go type and
// abstain on everything else.
package typed

import "github.com/seiama/filter"

// Filter accepts queries of type Q.
type Filter[Q any] interface {
	// QueryableWith reports whether the filter can answer q.
	QueryableWith(q filter.Query) bool

	// TypedQuery answers a query already known to be queryable.
	TypedQuery(q Q) filter.Response
}

type adapter[Q any] struct {
	typed Filter[Q]
}

// Adapt turns a typed filter into a filter.Filter. Queries that are not
// queryable, or are not a Q, are answered with filter.Abstain.
func Adapt[Q any](f Filter[Q]) filter.Filter {
	return &adapter[Q]{typed: f}
}

func (a *adapter[Q]) Query(q filter.Query) filter.Response {
	if !a.typed.QueryableWith(q) {
		return filter.Abstain
	}

	typedQuery, ok := q.(Q)
	if !ok {
		return filter.Abstain
	}

	return a.typed.TypedQuery(typedQuery)
}

// Typed returns the wrapped typed filter.
func (a *adapter[Q]) Typed() Filter[Q] {
	return a.typed
}

type funcFilter[Q any] func(q Q) filter.Response

func (fn funcFilter[Q]) QueryableWith(q filter.Query) bool {
	_, ok := q.(Q)
	return ok
}

func (fn funcFilter[Q]) TypedQuery(q Q) filter.Response {
	return fn(q)
}

// Func builds a filter answering queries of type Q with fn.
func Func[Q any](fn func(q Q) filter.Response) filter.Filter {
	return Adapt[Q](funcFilter[Q](fn))
}

// Predicate is Func for boolean functions.
func Predicate[Q any](fn func(q Q) bool) filter.Filter {
	return Func(func(q Q) filter.Response {
		return filter.FromBool(fn(q))
	})
}
