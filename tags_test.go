package filter_test

import (
	"github.com/seiama/filter"
	"github.com/stretchr/testify/assert"
	"testing"
)

func product(tags filter.M) *filter.Document {
	return filter.NewDocument("product:1", nil, tags)
}

func TestTagEquals(t *testing.T) {
	f := filter.TagEquals("type", "tv")

	assert.True(t, filter.Allows(f, product(filter.M{"type": "tv"})))
	assert.True(t, filter.Denies(f, product(filter.M{"type": "radio"})))
	assert.True(t, filter.Denies(f, product(filter.M{"type": 3})), "type mismatch denies")
	assert.True(t, filter.Abstains(f, product(filter.M{"price": 10.0})), "missing tag abstains")
	assert.True(t, filter.Abstains(f, emptyQuery{}), "untagged query abstains")
}

func TestTagEquals_NumbersCompareByValue(t *testing.T) {
	assert.True(t, filter.Allows(filter.TagEquals("count", 3), product(filter.M{"count": 3.0})))
	assert.True(t, filter.Allows(filter.TagEquals("count", 3.0), product(filter.M{"count": int64(3)})))
	assert.True(t, filter.Denies(filter.TagEquals("count", 3), product(filter.M{"count": "3"})))
	assert.True(t, filter.Allows(filter.TagEquals("inStock", true), product(filter.M{"inStock": true})))
}

func TestTagEquals_UncomparableValues(t *testing.T) {
	f := filter.TagEquals("x", boxedFilter{v: []int{1}})

	assert.NotPanics(t, func() {
		assert.True(t, filter.Denies(f, product(filter.M{"x": boxedFilter{v: []int{1}}})))
		assert.True(t, filter.Denies(f, product(filter.M{"x": []int{1}})))
	})
	assert.True(t, filter.Allows(filter.TagEquals("x", boxedFilter{v: "a"}), product(filter.M{"x": boxedFilter{v: "a"}})))
}

func TestTagAboveAndBelow(t *testing.T) {
	above := filter.TagAbove("price", 20)
	below := filter.TagBelow("price", 30)
	between := filter.All(above, below)

	assert.True(t, filter.Allows(between, product(filter.M{"price": 23.45})))
	assert.True(t, filter.Denies(between, product(filter.M{"price": 20})))
	assert.True(t, filter.Denies(between, product(filter.M{"price": 30.0})))
	assert.True(t, filter.Denies(above, product(filter.M{"price": "cheap"})))
	assert.True(t, filter.Abstains(between, product(nil)))
}

func TestTagExists(t *testing.T) {
	f := filter.TagExists("featured")

	assert.True(t, filter.Allows(f, product(filter.M{"featured": false})))
	assert.True(t, filter.Denies(f, product(filter.M{})))
	assert.True(t, filter.Abstains(f, emptyQuery{}))
	assert.Equal(t, "featured", f.Name())
}

func TestTagFilter_Equality(t *testing.T) {
	assert.True(t, filter.Equal(filter.TagEquals("a", 1), filter.TagEquals("a", 1.0)))
	assert.False(t, filter.Equal(filter.TagEquals("a", 1), filter.TagEquals("b", 1)))
	assert.False(t, filter.Equal(filter.TagAbove("a", 1), filter.TagBelow("a", 1)))
	assert.Equal(t, "tag(a > 1)", filter.TagAbove("a", 1).String())
}
