package filter

import (
	"github.com/tidwall/btree"
	"strings"
	"sync"
)

// Keyed is a query identified by a key.
type Keyed interface {
	Key() string
}

// KeyRule is a single entry of a KeySet.
type KeyRule struct {
	Pattern  string
	Prefix   bool
	Response Response
}

func byPattern(a, b interface{}) bool {
	return a.(*KeyRule).Pattern < b.(*KeyRule).Pattern
}

// KeySet answers keyed queries from a set of exact keys and key prefixes.
//
// An exact key takes precedence over prefixes and a longer prefix takes
// precedence over a shorter one. Keys matching nothing are abstained from.
type KeySet struct {
	mu       sync.RWMutex
	exact    *btree.BTree
	prefixes *btree.BTree
}

func NewKeySet() *KeySet {
	return &KeySet{
		exact:    btree.New(byPattern),
		prefixes: btree.New(byPattern),
	}
}

func (ks *KeySet) Allow(keys ...string) *KeySet {
	return ks.set(false, Allow, keys)
}

func (ks *KeySet) Deny(keys ...string) *KeySet {
	return ks.set(false, Deny, keys)
}

func (ks *KeySet) AllowPrefix(prefixes ...string) *KeySet {
	return ks.set(true, Allow, prefixes)
}

func (ks *KeySet) DenyPrefix(prefixes ...string) *KeySet {
	return ks.set(true, Deny, prefixes)
}

// Remove drops an exact key or prefix rule.
func (ks *KeySet) Remove(pattern string, prefix bool) bool {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	return ks.tree(prefix).Delete(&KeyRule{Pattern: pattern}) != nil
}

func (ks *KeySet) set(prefix bool, r Response, patterns []string) *KeySet {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	tr := ks.tree(prefix)
	for _, p := range patterns {
		tr.Set(&KeyRule{Pattern: p, Prefix: prefix, Response: r})
	}

	return ks
}

func (ks *KeySet) tree(prefix bool) *btree.BTree {
	if prefix {
		return ks.prefixes
	}

	return ks.exact
}

func (ks *KeySet) Len() int {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	return ks.exact.Len() + ks.prefixes.Len()
}

// Rules lists exact keys followed by prefixes, each in ascending order.
func (ks *KeySet) Rules() []KeyRule {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	rules := make([]KeyRule, 0, ks.exact.Len()+ks.prefixes.Len())
	collect := func(item interface{}) bool {
		rules = append(rules, *item.(*KeyRule))
		return true
	}

	ks.exact.Ascend(nil, collect)
	ks.prefixes.Ascend(nil, collect)

	return rules
}

func (ks *KeySet) Query(q Query) Response {
	keyed, ok := q.(Keyed)
	if !ok {
		return Abstain
	}

	return ks.Lookup(keyed.Key())
}

// Lookup answers for a raw key.
func (ks *KeySet) Lookup(key string) Response {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	if found := ks.exact.Get(&KeyRule{Pattern: key}); found != nil {
		return found.(*KeyRule).Response
	}

	if ks.prefixes.Len() == 0 {
		return Abstain
	}

	for i := len(key); i >= 0; i-- {
		if found := ks.prefixes.Get(&KeyRule{Pattern: key[:i]}); found != nil {
			return found.(*KeyRule).Response
		}
	}

	return Abstain
}

func (ks *KeySet) String() string {
	rules := ks.Rules()
	parts := make([]string, len(rules))
	for i, r := range rules {
		p := r.Pattern
		if r.Prefix {
			p += "*"
		}
		parts[i] = r.Response.String() + ":" + p
	}

	return "keys(" + strings.Join(parts, ", ") + ")"
}
