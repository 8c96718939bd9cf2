package filter

import (
	"fmt"
	"github.com/tidwall/gjson"
)

// JSONDocument is a query backed by a JSON body.
type JSONDocument interface {
	JSON() []byte
}

// JSONFilter answers queries by reading one gjson path from the query's JSON
// body. It abstains when the query has no valid JSON body or the path does not
// exist.
type JSONFilter struct {
	path string
	desc string
	test func(v gjson.Result) Response
}

func JSONPath(path string, test func(v gjson.Result) Response) *JSONFilter {
	return &JSONFilter{path: path, desc: "match", test: test}
}

func JSONEquals(path string, value interface{}) *JSONFilter {
	return &JSONFilter{
		path: path,
		desc: fmt.Sprintf("= %v", value),
		test: func(v gjson.Result) Response {
			return FromBool(jsonValueEquals(v, value))
		},
	}
}

func JSONAbove(path string, value float64) *JSONFilter {
	return &JSONFilter{
		path: path,
		desc: fmt.Sprintf("> %v", value),
		test: func(v gjson.Result) Response {
			return FromBool(v.Type == gjson.Number && v.Float() > value)
		},
	}
}

func JSONBelow(path string, value float64) *JSONFilter {
	return &JSONFilter{
		path: path,
		desc: fmt.Sprintf("< %v", value),
		test: func(v gjson.Result) Response {
			return FromBool(v.Type == gjson.Number && v.Float() < value)
		},
	}
}

func (f *JSONFilter) Path() string {
	return f.path
}

func (f *JSONFilter) Query(q Query) Response {
	doc, ok := q.(JSONDocument)
	if !ok {
		return Abstain
	}

	body := doc.JSON()
	if !gjson.ValidBytes(body) {
		return Abstain
	}

	v := gjson.GetBytes(body, f.path)
	if !v.Exists() {
		return Abstain
	}

	return f.test(v)
}

func (f *JSONFilter) String() string {
	return fmt.Sprintf("json(%s %s)", f.path, f.desc)
}

func jsonValueEquals(v gjson.Result, want interface{}) bool {
	if n, ok := toFloat(want); ok {
		return v.Type == gjson.Number && v.Float() == n
	}

	switch w := want.(type) {
	case nil:
		return v.Type == gjson.Null
	case bool:
		return (v.Type == gjson.True || v.Type == gjson.False) && v.Bool() == w
	case string:
		return v.Type == gjson.String && v.String() == w
	default:
		return v.String() == fmt.Sprint(w)
	}
}
