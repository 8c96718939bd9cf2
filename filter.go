// Package filter provides a three-valued alternative to boolean predicates.
//
// A Filter answers a query with Allow, Deny or Abstain. Abstaining means the
// filter has no opinion about the query, which lets filters be composed without
// every filter having to understand every kind of query.
package filter

import "reflect"

// Query is anything a Filter can be asked about.
type Query interface{}

// QueryLike is implemented by values that can present themselves as a Query.
type QueryLike interface {
	AsQuery() Query
}

type Filter interface {
	Query(q Query) Response
}

// Func adapts an ordinary function to a Filter.
type Func func(q Query) Response

func (fn Func) Query(q Query) Response {
	return fn(q)
}

func unwrap(q Query) Query {
	if ql, ok := q.(QueryLike); ok {
		return ql.AsQuery()
	}

	return q
}

// Evaluate queries f, converting q first when it is QueryLike.
func Evaluate(f Filter, q Query) Response {
	return f.Query(unwrap(q))
}

func Allows(f Filter, q Query) bool {
	return Evaluate(f, q) == Allow
}

func Abstains(f Filter, q Query) bool {
	return Evaluate(f, q) == Abstain
}

func Denies(f Filter, q Query) bool {
	return Evaluate(f, q) == Deny
}

type equaler interface {
	equal(other Filter) bool
}

// Equal reports whether a and b are structurally the same filter.
//
// Filters built by this package compare by kind and children. Any other filter
// compares with == when its dynamic value is comparable and is otherwise only
// equal to nothing.
func Equal(a, b Filter) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if eq, ok := a.(equaler); ok {
		return eq.equal(b)
	}

	if !reflect.ValueOf(a).Comparable() || !reflect.ValueOf(b).Comparable() {
		return false
	}

	return a == b
}

func equalLists(a, b []Filter) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}

	return true
}
