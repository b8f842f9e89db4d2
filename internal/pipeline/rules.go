package pipeline

import (
	"regexp"

	json "github.com/goccy/go-json"
)

// AssetRule binds a path matcher to a transform chain.
type AssetRule struct {
	Matcher    string          `json:"matcher"`
	Transforms []TransformStep `json:"transforms"`
	Exclude    string          `json:"exclude,omitempty"`
}

type compiledRule struct {
	rule    AssetRule
	matcher *regexp.Regexp
	exclude *regexp.Regexp
}

// RuleTable is an ordered list of asset rules with first-match-wins lookup.
type RuleTable struct {
	rules []compiledRule
}

// BuildRuleTable validates and compiles the declared rules, keeping declaration order.
func BuildRuleTable(decls []AssetRule, catalog TransformCatalog) (*RuleTable, error) {
	table := &RuleTable{rules: make([]compiledRule, 0, len(decls))}
	seen := make(map[string]struct{}, len(decls))

	for _, decl := range decls {
		if _, dup := seen[decl.Matcher]; dup {
			return nil, newConfigError(DuplicateTransformTarget, decl.Matcher, "matcher declared more than once")
		}
		seen[decl.Matcher] = struct{}{}

		if len(decl.Transforms) == 0 {
			return nil, newConfigError(EmptyTransformChain, decl.Matcher, "")
		}
		for _, step := range decl.Transforms {
			if err := catalog.validate(decl.Matcher, step); err != nil {
				return nil, err
			}
		}

		matcher, err := CompilePattern(decl.Matcher)
		if err != nil {
			return nil, &ConfigError{Kind: InvalidMatcher, Declaration: decl.Matcher, Err: err}
		}

		var exclude *regexp.Regexp
		if decl.Exclude != "" {
			exclude, err = CompilePattern(decl.Exclude)
			if err != nil {
				return nil, &ConfigError{Kind: InvalidMatcher, Declaration: decl.Exclude, Err: err}
			}
		}

		table.rules = append(table.rules, compiledRule{
			rule: AssetRule{
				Matcher:    decl.Matcher,
				Transforms: cloneSteps(decl.Transforms),
				Exclude:    decl.Exclude,
			},
			matcher: matcher,
			exclude: exclude,
		})
	}

	return table, nil
}

// Lookup returns the first rule matching path. Rules whose exclude pattern
// also matches are skipped. A false result means the path passes through untransformed.
func (t *RuleTable) Lookup(path string) (AssetRule, bool) {
	if t == nil {
		return AssetRule{}, false
	}
	for _, r := range t.rules {
		if !r.matcher.MatchString(path) {
			continue
		}
		if r.exclude != nil && r.exclude.MatchString(path) {
			continue
		}
		return AssetRule{Matcher: r.rule.Matcher, Transforms: cloneSteps(r.rule.Transforms), Exclude: r.rule.Exclude}, true
	}
	return AssetRule{}, false
}

// Rules returns a copy of the rules in declaration order.
func (t *RuleTable) Rules() []AssetRule {
	if t == nil {
		return nil
	}
	out := make([]AssetRule, len(t.rules))
	for i, r := range t.rules {
		out[i] = AssetRule{Matcher: r.rule.Matcher, Transforms: cloneSteps(r.rule.Transforms), Exclude: r.rule.Exclude}
	}
	return out
}

// Len returns the number of rules.
func (t *RuleTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rules)
}

func (t *RuleTable) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Rules())
}
