// Package filtertest holds small filters and queries for testing code built on
// package filter.
package filtertest

import (
	"fmt"
	"github.com/seiama/filter"
	"github.com/seiama/filter/typed"
)

// Query carries a single integer.
type Query struct {
	Value int
}

func (q Query) String() string {
	return fmt.Sprintf("query(%d)", q.Value)
}

// Equals allows queries whose value is n and denies the rest.
type Equals int

func (e Equals) QueryableWith(q filter.Query) bool {
	_, ok := q.(Query)
	return ok
}

func (e Equals) TypedQuery(q Query) filter.Response {
	return filter.FromBool(q.Value == int(e))
}

func (e Equals) Query(q filter.Query) filter.Response {
	return typed.Adapt[Query](e).Query(q)
}

// Above allows queries whose value is greater than n.
type Above int

func (a Above) QueryableWith(q filter.Query) bool {
	_, ok := q.(Query)
	return ok
}

func (a Above) TypedQuery(q Query) filter.Response {
	return filter.FromBool(q.Value > int(a))
}

func (a Above) Query(q filter.Query) filter.Response {
	return typed.Adapt[Query](a).Query(q)
}

// Below allows queries whose value is less than n.
type Below int

func (b Below) QueryableWith(q filter.Query) bool {
	_, ok := q.(Query)
	return ok
}

func (b Below) TypedQuery(q Query) filter.Response {
	return filter.FromBool(q.Value < int(b))
}

func (b Below) Query(q filter.Query) filter.Response {
	return typed.Adapt[Query](b).Query(q)
}

// Recorder answers with a fixed response and counts how often it was asked.
type Recorder struct {
	Response filter.Response
	Calls    int
}

func (r *Recorder) Query(filter.Query) filter.Response {
	r.Calls++
	return r.Response
}
