package filter

import (
	"fmt"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"io"
	"os"
	"sort"
)

var ErrInvalidRule = errors.New("invalid rule")
var ErrUnknownRule = errors.New("unknown rule")
var ErrRuleCycle = errors.New("rule references form a cycle")

// RuleSet is the YAML form of a set of named filters:
//
//	rules:
//	  staff:
//	    all:
//	      - tag: {name: role, equals: staff}
//	      - not: {ref: banned}
//	  banned:
//	    key: {allow_prefix: ["banned:"]}
type RuleSet struct {
	Rules map[string]*RuleNode `yaml:"rules"`
}

// RuleNode describes one filter. Exactly one of its fields must be set.
type RuleNode struct {
	All    []*RuleNode `yaml:"all"`
	Any    []*RuleNode `yaml:"any"`
	One    []*RuleNode `yaml:"one"`
	Not    *RuleNode   `yaml:"not"`
	Always string      `yaml:"always"`
	Tag    *TagRule    `yaml:"tag"`
	Key    *KeyRules   `yaml:"key"`
	JSON   *JSONRule   `yaml:"json"`
	Ref    string      `yaml:"ref"`

	kinds []string
	line  int
}

type TagRule struct {
	Name   string      `yaml:"name"`
	Equals interface{} `yaml:"equals"`
	Above  *float64    `yaml:"above"`
	Below  *float64    `yaml:"below"`
	Exists bool        `yaml:"exists"`
}

type KeyRules struct {
	Allow       []string `yaml:"allow"`
	Deny        []string `yaml:"deny"`
	AllowPrefix []string `yaml:"allow_prefix"`
	DenyPrefix  []string `yaml:"deny_prefix"`
}

type JSONRule struct {
	Path   string      `yaml:"path"`
	Equals interface{} `yaml:"equals"`
	Above  *float64    `yaml:"above"`
	Below  *float64    `yaml:"below"`
}

func (n *RuleNode) UnmarshalYAML(value *yaml.Node) error {
	type plain RuleNode
	if err := value.Decode((*plain)(n)); err != nil {
		return err
	}

	n.line = value.Line
	if value.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(value.Content); i += 2 {
			n.kinds = append(n.kinds, value.Content[i].Value)
		}
	}

	return nil
}

func ParseRuleSet(r io.Reader) (*RuleSet, error) {
	var set RuleSet
	if err := yaml.NewDecoder(r).Decode(&set); err != nil {
		if errors.Is(err, io.EOF) {
			return &set, nil
		}

		return nil, errors.Wrap(ErrInvalidRule, err.Error())
	}

	return &set, nil
}

// LoadRules parses and compiles a YAML rule document.
func LoadRules(r io.Reader) (*Rules, error) {
	set, err := ParseRuleSet(r)
	if err != nil {
		return nil, err
	}

	return CompileRules(set)
}

func LoadRulesFile(path string) (*Rules, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open rules file %s", path)
	}

	defer f.Close()

	rules, err := LoadRules(f)
	if err != nil {
		return nil, errors.Wrapf(err, "rules file %s", path)
	}

	return rules, nil
}

// Rules holds compiled, named filters.
type Rules struct {
	filters map[string]Filter
}

func (r *Rules) Get(name string) (Filter, error) {
	f, ok := r.filters[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownRule, "%q", name)
	}

	return f, nil
}

// Names lists the rule names in ascending order.
func (r *Rules) Names() []string {
	names := make([]string, 0, len(r.filters))
	for name := range r.filters {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

type ruleCompiler struct {
	set      *RuleSet
	compiled map[string]Filter
	visiting map[string]bool
}

func CompileRules(set *RuleSet) (*Rules, error) {
	c := ruleCompiler{
		set:      set,
		compiled: make(map[string]Filter),
		visiting: make(map[string]bool),
	}

	names := make([]string, 0, len(set.Rules))
	for name := range set.Rules {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, err := c.rule(name); err != nil {
			return nil, err
		}
	}

	return &Rules{filters: c.compiled}, nil
}

func (c *ruleCompiler) rule(name string) (Filter, error) {
	if f, ok := c.compiled[name]; ok {
		return f, nil
	}

	node, ok := c.set.Rules[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownRule, "%q", name)
	}

	if c.visiting[name] {
		return nil, errors.Wrapf(ErrRuleCycle, "through %q", name)
	}

	c.visiting[name] = true
	defer delete(c.visiting, name)

	f, err := c.node(name, node)
	if err != nil {
		return nil, err
	}

	c.compiled[name] = f
	return f, nil
}

func (c *ruleCompiler) node(path string, n *RuleNode) (Filter, error) {
	if n == nil {
		return nil, errors.Wrapf(ErrInvalidRule, "%s: empty rule", path)
	}

	if len(n.kinds) != 1 {
		return nil, errors.Wrapf(ErrInvalidRule, "%s (line %d): expected exactly one rule kind, got %v", path, n.line, n.kinds)
	}

	switch kind := n.kinds[0]; kind {
	case "all":
		children, err := c.nodes(path+".all", n.All)
		if err != nil {
			return nil, err
		}
		return AllOf(children), nil
	case "any":
		children, err := c.nodes(path+".any", n.Any)
		if err != nil {
			return nil, err
		}
		return AnyOf(children), nil
	case "one":
		children, err := c.nodes(path+".one", n.One)
		if err != nil {
			return nil, err
		}
		return OneOf(children), nil
	case "not":
		child, err := c.node(path+".not", n.Not)
		if err != nil {
			return nil, err
		}
		return Not(child), nil
	case "always":
		r, err := ParseResponse(n.Always)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidRule, "%s.always: %v", path, err)
		}
		return Always(r), nil
	case "tag":
		return tagRule(path+".tag", n.Tag)
	case "key":
		return keyRule(path+".key", n.Key)
	case "json":
		return jsonRule(path+".json", n.JSON)
	case "ref":
		f, err := c.rule(n.Ref)
		if err != nil {
			return nil, errors.Wrapf(err, "%s.ref", path)
		}
		return f, nil
	default:
		return nil, errors.Wrapf(ErrInvalidRule, "%s (line %d): unknown rule kind %q", path, n.line, kind)
	}
}

func (c *ruleCompiler) nodes(path string, nodes []*RuleNode) ([]Filter, error) {
	filters := make([]Filter, len(nodes))
	for i, n := range nodes {
		f, err := c.node(fmt.Sprintf("%s[%d]", path, i), n)
		if err != nil {
			return nil, err
		}
		filters[i] = f
	}

	return filters, nil
}

func tagRule(path string, t *TagRule) (Filter, error) {
	if t == nil || t.Name == "" {
		return nil, errors.Wrapf(ErrInvalidRule, "%s: tag name is required", path)
	}

	var filters []Filter
	if t.Exists {
		filters = append(filters, TagExists(t.Name))
	}
	if t.Equals != nil {
		if err := scalar(path, t.Equals); err != nil {
			return nil, err
		}
		filters = append(filters, TagEquals(t.Name, t.Equals))
	}
	if t.Above != nil {
		filters = append(filters, TagAbove(t.Name, *t.Above))
	}
	if t.Below != nil {
		filters = append(filters, TagBelow(t.Name, *t.Below))
	}

	return single(path, filters)
}

func keyRule(path string, k *KeyRules) (Filter, error) {
	if k == nil {
		return nil, errors.Wrapf(ErrInvalidRule, "%s: empty key rule", path)
	}

	ks := NewKeySet().
		Allow(k.Allow...).
		Deny(k.Deny...).
		AllowPrefix(k.AllowPrefix...).
		DenyPrefix(k.DenyPrefix...)

	if ks.Len() == 0 {
		return nil, errors.Wrapf(ErrInvalidRule, "%s: no keys or prefixes", path)
	}

	return ks, nil
}

func jsonRule(path string, j *JSONRule) (Filter, error) {
	if j == nil || j.Path == "" {
		return nil, errors.Wrapf(ErrInvalidRule, "%s: json path is required", path)
	}

	var filters []Filter
	if j.Equals != nil {
		if err := scalar(path, j.Equals); err != nil {
			return nil, err
		}
		filters = append(filters, JSONEquals(j.Path, j.Equals))
	}
	if j.Above != nil {
		filters = append(filters, JSONAbove(j.Path, *j.Above))
	}
	if j.Below != nil {
		filters = append(filters, JSONBelow(j.Path, *j.Below))
	}

	return single(path, filters)
}

// scalar rejects equals values that decode to a YAML sequence or mapping.
func scalar(path string, v interface{}) error {
	switch v.(type) {
	case string, bool, int, int64, uint64, float64:
		return nil
	default:
		return errors.Wrapf(ErrInvalidRule, "%s: equals must be a scalar, got %T", path, v)
	}
}

// single combines the tests of one tag or json rule; several tests must all
// hold.
func single(path string, filters []Filter) (Filter, error) {
	switch len(filters) {
	case 0:
		return nil, errors.Wrapf(ErrInvalidRule, "%s: no test given", path)
	case 1:
		return filters[0], nil
	default:
		return AllOf(filters), nil
	}
}
