package filter_test

import (
	"github.com/seiama/filter"
	"github.com/stretchr/testify/suite"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const storeRules = `
rules:
  staff:
    all:
      - tag: {name: role, equals: staff}
      - not: {ref: banned}
  banned:
    key:
      allow_prefix: ["user:banned:"]
      deny: ["user:banned:42"]
  adults:
    json: {path: age, above: 17}
  affordable:
    one:
      - tag: {name: price, below: 50}
      - tag: {name: sale, exists: true}
  nobody:
    always: deny
  either:
    any:
      - ref: staff
      - ref: adults
`

func TestRules(t *testing.T) {
	t.Parallel()
	suite.Run(t, &rulesTestSuite{})
}

type rulesTestSuite struct {
	suite.Suite
	rules *filter.Rules
}

func (rts *rulesTestSuite) SetupSuite() {
	rules, err := filter.LoadRules(strings.NewReader(storeRules))
	rts.Require().NoError(err)
	rts.rules = rules
}

func (rts *rulesTestSuite) get(name string) filter.Filter {
	f, err := rts.rules.Get(name)
	rts.Require().NoError(err)
	return f
}

func (rts *rulesTestSuite) TestNames() {
	rts.Assert().Equal(
		[]string{"adults", "affordable", "banned", "either", "nobody", "staff"},
		rts.rules.Names(),
	)
}

func (rts *rulesTestSuite) TestUnknownRule() {
	_, err := rts.rules.Get("missing")
	rts.Assert().ErrorIs(err, filter.ErrUnknownRule)
}

func (rts *rulesTestSuite) TestStaff() {
	staff := rts.get("staff")

	member := filter.NewDocument("user:1", nil, filter.M{"role": "staff"})
	banned := filter.NewDocument("user:banned:7", nil, filter.M{"role": "staff"})
	pardoned := filter.NewDocument("user:banned:42", nil, filter.M{"role": "staff"})
	guest := filter.NewDocument("user:2", nil, filter.M{"role": "guest"})

	rts.Assert().True(filter.Allows(staff, member))
	rts.Assert().True(filter.Denies(staff, banned))
	rts.Assert().True(filter.Allows(staff, pardoned), "pardoned keys are not banned")
	rts.Assert().True(filter.Denies(staff, guest))
}

func (rts *rulesTestSuite) TestReferencesShareFilters() {
	staff := rts.get("staff").(*filter.AllFilter)
	not := staff.Filters()[1].(*filter.NotFilter)
	rts.Assert().Same(rts.get("banned"), not.Filter())
}

func (rts *rulesTestSuite) TestAdultsAndEither() {
	adult := filter.NewDocument("user:3", []byte(`{"age": 30}`), nil)
	child := filter.NewDocument("user:4", []byte(`{"age": 9}`), nil)
	unknown := filter.NewDocument("user:5", []byte(`{}`), nil)

	rts.Assert().True(filter.Allows(rts.get("adults"), adult))
	rts.Assert().True(filter.Denies(rts.get("adults"), child))
	rts.Assert().True(filter.Abstains(rts.get("adults"), unknown))

	rts.Assert().True(filter.Allows(rts.get("either"), adult))
	rts.Assert().True(filter.Denies(rts.get("either"), child))
}

func (rts *rulesTestSuite) TestAffordableAndNobody() {
	affordable := rts.get("affordable")
	rts.Assert().True(filter.Allows(affordable, product(filter.M{"price": 10})))
	rts.Assert().True(filter.Denies(affordable, product(filter.M{"price": 10, "sale": true})))
	rts.Assert().True(filter.Allows(affordable, product(filter.M{"price": 100, "sale": true})))

	rts.Assert().True(filter.Equal(filter.DenyAll(), rts.get("nobody")))
}

func (rts *rulesTestSuite) TestLoadRulesFile() {
	path := filepath.Join(rts.T().TempDir(), "rules.yaml")
	rts.Require().NoError(os.WriteFile(path, []byte(storeRules), 0o600))

	rules, err := filter.LoadRulesFile(path)
	rts.Require().NoError(err)
	rts.Assert().Len(rules.Names(), 6)

	_, err = filter.LoadRulesFile(filepath.Join(rts.T().TempDir(), "missing.yaml"))
	rts.Assert().Error(err)
}

func (rts *rulesTestSuite) TestInvalidRules() {
	cases := []struct {
		name string
		doc  string
		err  error
	}{
		{"two kinds", "rules:\n  a:\n    always: allow\n    ref: b\n", filter.ErrInvalidRule},
		{"no kind", "rules:\n  a: {}\n", filter.ErrInvalidRule},
		{"unknown kind", "rules:\n  a:\n    maybe: true\n", filter.ErrInvalidRule},
		{"bad response", "rules:\n  a:\n    always: perhaps\n", filter.ErrInvalidRule},
		{"tag without name", "rules:\n  a:\n    tag: {equals: 1}\n", filter.ErrInvalidRule},
		{"tag without test", "rules:\n  a:\n    tag: {name: x}\n", filter.ErrInvalidRule},
		{"empty key rule", "rules:\n  a:\n    key: {}\n", filter.ErrInvalidRule},
		{"json without path", "rules:\n  a:\n    json: {equals: 1}\n", filter.ErrInvalidRule},
		{"tag equals list", "rules:\n  a:\n    tag: {name: role, equals: [a, b]}\n", filter.ErrInvalidRule},
		{"tag equals map", "rules:\n  a:\n    tag: {name: role, equals: {a: b}}\n", filter.ErrInvalidRule},
		{"json equals map", "rules:\n  a:\n    json: {path: p, equals: {x: 1}}\n", filter.ErrInvalidRule},
		{"nested equals list", "rules:\n  a:\n    all:\n      - json: {path: p, equals: [1]}\n", filter.ErrInvalidRule},
		{"empty not", "rules:\n  a:\n    not:\n", filter.ErrInvalidRule},
		{"unknown ref", "rules:\n  a:\n    ref: b\n", filter.ErrUnknownRule},
		{"self cycle", "rules:\n  a:\n    not: {ref: a}\n", filter.ErrRuleCycle},
		{"cycle", "rules:\n  a:\n    ref: b\n  b:\n    any: [{ref: a}]\n", filter.ErrRuleCycle},
		{"not yaml", "rules: [", filter.ErrInvalidRule},
	}

	for _, c := range cases {
		rts.Run(c.name, func() {
			_, err := filter.LoadRules(strings.NewReader(c.doc))
			rts.Assert().ErrorIs(err, c.err)
		})
	}
}

func (rts *rulesTestSuite) TestEmptyDocument() {
	rules, err := filter.LoadRules(strings.NewReader(""))
	rts.Require().NoError(err)
	rts.Assert().Empty(rules.Names())
}

func (rts *rulesTestSuite) TestMultipleTestsOnOneTag() {
	rules, err := filter.LoadRules(strings.NewReader("rules:\n  mid:\n    tag: {name: n, above: 1, below: 3}\n"))
	rts.Require().NoError(err)

	mid, err := rules.Get("mid")
	rts.Require().NoError(err)
	rts.Assert().True(filter.Allows(mid, product(filter.M{"n": 2})))
	rts.Assert().True(filter.Denies(mid, product(filter.M{"n": 3})))
}
