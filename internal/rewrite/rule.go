package rewrite

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RuleDefinition is the textual form of a rule, as found in rule files and
// requests.
type RuleDefinition struct {
	Name string `yaml:"name" json:"name" validate:"required"`
	LHS  string `yaml:"lhs" json:"lhs" validate:"required"`
	RHS  string `yaml:"rhs" json:"rhs" validate:"required"`
	// Bidirectional also defines NAME-rev from RHS to LHS.
	Bidirectional bool `yaml:"bidirectional,omitempty" json:"bidirectional,omitempty"`
}

// RulesConfig is the layout of a rule file.
type RulesConfig struct {
	Rules []RuleDefinition `yaml:"rules"`
}

// RuleDefinitionError reports a rule that could not be built.
type RuleDefinitionError struct {
	Rule string
	// Side is "lhs" or "rhs" when the pattern text failed to parse.
	Side string
	Text string
	Err  error
}

func (e *RuleDefinitionError) Error() string {
	if e.Side != "" {
		return fmt.Sprintf("Failed to parse %s of %s: '%s'\n%v", e.Side, e.Rule, e.Text, e.Err)
	}
	return fmt.Sprintf("Invalid rewrite %s: %v", e.Rule, e.Err)
}

func (e *RuleDefinitionError) Unwrap() error { return e.Err }

// Load reads rule definitions from a YAML file.
func Load(path string) ([]RuleDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg RulesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing rule file %s: %w", path, err)
	}
	return cfg.Rules, nil
}

// LoadRewrites reads and compiles a rule file.
func LoadRewrites(path string) ([]*Rewrite, error) {
	defs, err := Load(path)
	if err != nil {
		return nil, err
	}
	return Compile(defs)
}

// Compile builds rewrites from definitions. It fails on the first invalid
// definition and returns nothing in that case.
func Compile(defs []RuleDefinition) ([]*Rewrite, error) {
	rules := make([]*Rewrite, 0, len(defs))
	names := make(map[string]bool, len(defs))
	add := func(r *Rewrite) error {
		if names[r.Name] {
			return &RuleDefinitionError{Rule: r.Name, Err: fmt.Errorf("duplicate rule name")}
		}
		names[r.Name] = true
		rules = append(rules, r)
		return nil
	}

	for _, def := range defs {
		r, err := def.Compile()
		if err != nil {
			return nil, err
		}
		if err := add(r); err != nil {
			return nil, err
		}
		if !def.Bidirectional {
			continue
		}
		rhs, _ := r.RHS()
		rev, err := New(def.Name+"-rev", rhs, r.LHS)
		if err != nil {
			return nil, &RuleDefinitionError{Rule: def.Name + "-rev", Err: err}
		}
		if err := add(rev); err != nil {
			return nil, err
		}
	}
	return rules, nil
}

// Compile parses both sides of d.
func (d RuleDefinition) Compile() (*Rewrite, error) {
	if d.Name == "" {
		return nil, &RuleDefinitionError{Rule: "<unnamed>", Err: fmt.Errorf("rule name is empty")}
	}
	lhs, err := ParsePattern(d.LHS)
	if err != nil {
		return nil, &RuleDefinitionError{Rule: d.Name, Side: "lhs", Text: d.LHS, Err: err}
	}
	rhs, err := ParsePattern(d.RHS)
	if err != nil {
		return nil, &RuleDefinitionError{Rule: d.Name, Side: "rhs", Text: d.RHS, Err: err}
	}
	r, err := New(d.Name, lhs, rhs)
	if err != nil {
		return nil, &RuleDefinitionError{Rule: d.Name, Err: err}
	}
	return r, nil
}
