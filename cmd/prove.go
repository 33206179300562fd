package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/tsat/formatter"
	"github.com/gnolang/tsat/internal/session"
	"github.com/gnolang/tsat/internal/term"
)

var (
	proveRules string
	proveJSON  bool
)

var proveCmd = &cobra.Command{
	Use:   "prove LHS RHS",
	Short: "Prove two expressions equal and explain the proof",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		lhs, err := term.Parse(args[0])
		if err != nil {
			logger.Fatal("Failed to parse expression", zap.Error(&session.ExprError{Field: "lhs", Text: args[0], Err: err}))
		}
		rhs, err := term.Parse(args[1])
		if err != nil {
			logger.Fatal("Failed to parse expression", zap.Error(&session.ExprError{Field: "rhs", Text: args[1], Err: err}))
		}

		e := newEngine(proveRules)
		proof, err := e.Prove(ctx, lhs, rhs)
		if err != nil {
			logger.Fatal("Error proving", zap.Error(err))
		}

		if proveJSON {
			printProofJSON(proof)
		} else if proof.Proven {
			fmt.Print(formatter.FormatExplanation(lhs, rhs, proof.Explanation))
		} else {
			fmt.Print(formatter.FormatNotProven(lhs, rhs, proof.StopReason, len(proof.Iterations)))
		}

		if !proof.Proven {
			os.Exit(1)
		}
	},
}

func init() {
	proveCmd.Flags().StringVar(&proveRules, "rules", "", "Rule file")
	proveCmd.Flags().BoolVar(&proveJSON, "json", false, "Output the result in JSON format")
}

func printProofJSON(proof *session.Proof) {
	out := struct {
		Success     bool     `json:"success"`
		StopReason  string   `json:"stop_reason"`
		Explanation []string `json:"explanation"`
	}{
		Success:     proof.Proven,
		StopReason:  proof.StopReason.String(),
		Explanation: []string{},
	}
	if proof.Proven {
		out.Explanation = proof.Explanation.FlatStrings()
	}
	d, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		logger.Error("Error encoding proof", zap.Error(err))
		return
	}
	fmt.Println(string(d))
}
