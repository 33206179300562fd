package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/tsat/engine"
	"github.com/gnolang/tsat/formatter"
	"github.com/gnolang/tsat/internal/session"
	"github.com/gnolang/tsat/internal/term"
)

var (
	simplifyRules string
	exprFiles     []string
	jsonOutput    bool
	dotPath       string
)

var simplifyCmd = &cobra.Command{
	Use:   "simplify [exprs...]",
	Short: "Simplify expressions given as arguments or in expression files",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 && len(exprFiles) == 0 {
			fmt.Println("error: Please provide expressions or --file paths")
			os.Exit(1)
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		e := newEngine(simplifyRules)
		if len(e.Rules()) == 0 {
			logger.Fatal("No rules loaded (use --rules or rules: in the configuration)")
		}

		var results []engine.FileResult
		if len(args) > 0 {
			results = append(results, simplifyArgs(ctx, e, args))
		}
		if len(exprFiles) > 0 {
			fileResults, err := e.ProcessFiles(ctx, exprFiles, os.Stderr)
			if err != nil {
				logger.Fatal("Error processing files", zap.Error(err))
			}
			results = append(results, fileResults...)
		}

		printResults(os.Stdout, results, jsonOutput)
	},
}

func init() {
	simplifyCmd.Flags().StringVar(&simplifyRules, "rules", "", "Rule file")
	simplifyCmd.Flags().StringSliceVarP(&exprFiles, "file", "f", nil, "Expression files or directories (one expression per line)")
	simplifyCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")
	simplifyCmd.Flags().StringVar(&dotPath, "dot", "", "Write the saturated e-graph of the argument expressions as GraphViz")
}

func simplifyArgs(ctx context.Context, e *engine.Engine, args []string) engine.FileResult {
	exprs := make([]term.Term, len(args))
	for i, arg := range args {
		t, err := term.Parse(arg)
		if err != nil {
			logger.Fatal("Failed to parse expression", zap.Error(&session.ExprError{Field: "expr", Text: arg, Err: err}))
		}
		exprs[i] = t
	}

	res, err := e.Simplify(ctx, exprs)
	if err != nil {
		logger.Fatal("Error simplifying", zap.Error(err))
	}
	if dotPath != "" {
		if err := writeDot(dotPath, res); err != nil {
			logger.Error("Error writing dot file", zap.String("path", dotPath), zap.Error(err))
		}
	}
	return engine.FileResult{StopReason: res.StopReason, Best: res.Best}
}

func writeDot(path string, res *session.Simplification) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return res.EGraph.WriteDot(f)
}

func printResults(w io.Writer, results []engine.FileResult, isJSON bool) {
	if isJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			logger.Error("Error encoding results", zap.Error(err))
		}
		return
	}
	for _, r := range results {
		fmt.Fprint(w, formatter.FormatComparisons(r.Path, r.Best))
	}
}
