package rewrite

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		defs      []RuleDefinition
		wantNames []string
		wantErr   string
	}{
		{
			name:      "single rule",
			defs:      []RuleDefinition{{Name: "comm", LHS: "(+ ?a ?b)", RHS: "(+ ?b ?a)"}},
			wantNames: []string{"comm"},
		},
		{
			name: "bidirectional",
			defs: []RuleDefinition{
				{Name: "assoc", LHS: "(* ?a (* ?b ?c))", RHS: "(* (* ?a ?b) ?c)", Bidirectional: true},
				{Name: "one", LHS: "(* ?a 1)", RHS: "?a"},
			},
			wantNames: []string{"assoc", "assoc-rev", "one"},
		},
		{
			name:    "bad lhs",
			defs:    []RuleDefinition{{Name: "bad", LHS: "(+ ?a", RHS: "?a"}},
			wantErr: "Failed to parse lhs of bad: '(+ ?a'\nline 1 col 1: unclosed '('",
		},
		{
			name:    "bad rhs",
			defs:    []RuleDefinition{{Name: "bad", LHS: "?a", RHS: ")"}},
			wantErr: "Failed to parse rhs of bad: ')'",
		},
		{
			name:    "unbound rhs variable",
			defs:    []RuleDefinition{{Name: "r", LHS: "(f ?a)", RHS: "(g ?a ?b)"}},
			wantErr: "Invalid rewrite r: rhs variable ?b is not bound by the lhs",
		},
		{
			name:    "bidirectional drops a variable",
			defs:    []RuleDefinition{{Name: "zero", LHS: "(* ?a 0)", RHS: "0", Bidirectional: true}},
			wantErr: "Invalid rewrite zero-rev",
		},
		{
			name: "duplicate name",
			defs: []RuleDefinition{
				{Name: "r", LHS: "a", RHS: "b"},
				{Name: "r", LHS: "b", RHS: "c"},
			},
			wantErr: "Invalid rewrite r: duplicate rule name",
		},
		{
			name:    "empty name",
			defs:    []RuleDefinition{{LHS: "a", RHS: "b"}},
			wantErr: "rule name is empty",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rules, err := Compile(tt.defs)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Nil(t, rules)
				assert.Contains(t, err.Error(), tt.wantErr)

				var defErr *RuleDefinitionError
				assert.True(t, errors.As(err, &defErr))
				return
			}
			require.NoError(t, err)
			names := make([]string, len(rules))
			for i, r := range rules {
				names[i] = r.Name
			}
			assert.Equal(t, tt.wantNames, names)
		})
	}
}

func TestCompileBidirectionalSwapsSides(t *testing.T) {
	t.Parallel()

	rules, err := Compile([]RuleDefinition{
		{Name: "comm", LHS: "(+ ?a ?b)", RHS: "(+ ?b ?a)", Bidirectional: true},
		{Name: "dist", LHS: "(* ?a (+ ?b ?c))", RHS: "(+ (* ?a ?b) (* ?a ?c))", Bidirectional: true},
	})
	require.NoError(t, err)
	require.Len(t, rules, 4)

	assert.Equal(t, "dist-rev: (+ (* ?a ?b) (* ?a ?c)) => (* ?a (+ ?b ?c))", rules[3].String())
}

func TestLoad(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		content   string
		wantRules []RuleDefinition
		wantErr   bool
	}{
		{
			name: "valid rules",
			content: `
rules:
  - name: comm
    lhs: (+ ?a ?b)
    rhs: (+ ?b ?a)
  - name: assoc
    lhs: "(* ?a (* ?b ?c))"
    rhs: "(* (* ?a ?b) ?c)"
    bidirectional: true
`,
			wantRules: []RuleDefinition{
				{Name: "comm", LHS: "(+ ?a ?b)", RHS: "(+ ?b ?a)"},
				{Name: "assoc", LHS: "(* ?a (* ?b ?c))", RHS: "(* (* ?a ?b) ?c)", Bidirectional: true},
			},
		},
		{
			name:      "empty file",
			content:   "",
			wantRules: nil,
		},
		{
			name: "invalid yaml",
			content: `
rules:
  - name: missing colon
    lhs "(+ ?a ?b)"
`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "rules.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			rules, err := Load(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRules, rules)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadRewrites(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
