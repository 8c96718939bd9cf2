package filter

import (
	"fmt"
	"reflect"
)

// M is a set of named tag values. Values are strings, booleans, integers or
// floats.
type M map[string]interface{}

// Tagged is a query that carries tags.
type Tagged interface {
	Tags() M
}

type tagTest uint8

const (
	tagEquals tagTest = iota
	tagAbove
	tagBelow
	tagExists
)

// TagFilter answers queries by inspecting a single tag. Queries without tags,
// or without the tag, are abstained from.
type TagFilter struct {
	name  string
	test  tagTest
	value interface{}
}

func TagEquals(name string, value interface{}) *TagFilter {
	return &TagFilter{name: name, test: tagEquals, value: value}
}

func TagAbove(name string, value float64) *TagFilter {
	return &TagFilter{name: name, test: tagAbove, value: value}
}

func TagBelow(name string, value float64) *TagFilter {
	return &TagFilter{name: name, test: tagBelow, value: value}
}

// TagExists allows tagged queries carrying the tag and denies those that do
// not.
func TagExists(name string) *TagFilter {
	return &TagFilter{name: name, test: tagExists}
}

func (f *TagFilter) Name() string {
	return f.name
}

func (f *TagFilter) Query(q Query) Response {
	tagged, ok := q.(Tagged)
	if !ok {
		return Abstain
	}

	v, ok := tagged.Tags()[f.name]
	if f.test == tagExists {
		return FromBool(ok)
	}

	if !ok {
		return Abstain
	}

	switch f.test {
	case tagAbove:
		n, ok := toFloat(v)
		return FromBool(ok && n > f.value.(float64))
	case tagBelow:
		n, ok := toFloat(v)
		return FromBool(ok && n < f.value.(float64))
	default:
		return FromBool(tagValuesEqual(v, f.value))
	}
}

func (f *TagFilter) equal(other Filter) bool {
	o, ok := other.(*TagFilter)
	return ok && o.name == f.name && o.test == f.test && tagValuesEqual(o.value, f.value)
}

func (f *TagFilter) String() string {
	switch f.test {
	case tagAbove:
		return fmt.Sprintf("tag(%s > %v)", f.name, f.value)
	case tagBelow:
		return fmt.Sprintf("tag(%s < %v)", f.name, f.value)
	case tagExists:
		return fmt.Sprintf("tag(%s)", f.name)
	default:
		return fmt.Sprintf("tag(%s = %v)", f.name, f.value)
	}
}

// tagValuesEqual compares numbers by value regardless of their Go type, so an
// int tag matches a float64 decoded from JSON or YAML.
func tagValuesEqual(a, b interface{}) bool {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		return ok && af == bf
	}

	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if !reflect.ValueOf(a).Comparable() || !reflect.ValueOf(b).Comparable() {
		return false
	}

	return a == b
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
