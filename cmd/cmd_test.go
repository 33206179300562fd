package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/gnolang/tsat/engine"
	"github.com/gnolang/tsat/internal/session"
)

var sampleResults = []engine.FileResult{
	{Best: []session.Comparison{{InitialExpr: "(* x 1)", InitialCost: 3, FinalExpr: "x", FinalCost: 1}}},
	{Path: "b.sexp", Best: []session.Comparison{{InitialExpr: "(+ 1 2)", InitialCost: 3, FinalExpr: "3", FinalCost: 1}}},
}

func TestPrintResultsText(t *testing.T) {
	logger = zaptest.NewLogger(t)

	var buf bytes.Buffer
	printResults(&buf, sampleResults, false)
	expected := `simplified: (* x 1)
 --> x
  = cost 3 -> 1

b.sexp
simplified: (+ 1 2)
 --> 3
  = cost 3 -> 1

`
	assert.Equal(t, expected, buf.String())
}

func TestPrintResultsJSON(t *testing.T) {
	logger = zaptest.NewLogger(t)

	var buf bytes.Buffer
	printResults(&buf, sampleResults, true)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.NotContains(t, decoded[0], "path")
	assert.Equal(t, "b.sexp", decoded[1]["path"])
	best := decoded[1]["best"].([]any)[0].(map[string]any)
	assert.Equal(t, "3", best["final_expr"])
}

func TestInitWritesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".tsat.yaml")
	rootCmd.SetArgs([]string{"init", "--config", path})
	require.NoError(t, rootCmd.Execute())

	config, err := engine.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, engine.DefaultConfig(), config)
}
