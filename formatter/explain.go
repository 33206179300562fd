package formatter

import (
	"fmt"
	"strings"

	"github.com/gnolang/tsat/internal/egraph"
	"github.com/gnolang/tsat/internal/runner"
	"github.com/gnolang/tsat/internal/term"
)

// FormatExplanation renders a proof as one numbered line per term, each
// annotated with the step that produced it.
func FormatExplanation(lhs, rhs term.Term, exp *egraph.Explanation) string {
	var builder strings.Builder
	builder.WriteString(suggestionStyle.Sprint("proved: "))
	builder.WriteString(fmt.Sprintf("%s = %s\n", lhs, rhs))

	width := calculateMaxLineNumWidth(len(exp.Terms) - 1)
	padding := strings.Repeat(" ", width+1)

	lines := make([]string, len(exp.Terms))
	longest := 0
	for i, t := range exp.Terms {
		lines[i] = t.String()
		longest = max(longest, len(lines[i]))
	}

	builder.WriteString(lineStyle.Sprintf("%s|\n", padding))
	for i, line := range lines {
		builder.WriteString(lineStyle.Sprintf("%*d | ", width, i))
		builder.WriteString(line)
		if i > 0 {
			builder.WriteString(strings.Repeat(" ", longest-len(line)+2))
			builder.WriteString(justification(exp.Steps[i-1]))
		}
		builder.WriteString("\n")
	}
	builder.WriteString(lineStyle.Sprintf("%s|\n", padding))
	return builder.String()
}

func justification(s egraph.Step) string {
	switch {
	case s.Analysis:
		return "by analysis " + ruleStyle.Sprint(s.Rule)
	case s.Backward:
		return "by " + ruleStyle.Sprint(s.Rule) + " (reversed)"
	default:
		return "by " + ruleStyle.Sprint(s.Rule)
	}
}

// FormatNotProven reports a failed proof attempt.
func FormatNotProven(lhs, rhs term.Term, reason runner.StopReason, iterations int) string {
	var builder strings.Builder
	builder.WriteString(errorStyle.Sprint("not proven: "))
	builder.WriteString(fmt.Sprintf("%s = %s\n", lhs, rhs))
	builder.WriteString(lineStyle.Sprint("  = "))
	builder.WriteString(fmt.Sprintf("stopped: %s after %d iterations\n", reason, iterations))
	return builder.String()
}
