package formatter

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/gnolang/tsat/internal/session"
)

const comparisonTemplate = `{{header .Initial}}
{{arrow .Final}}
{{cost .InitialCost .FinalCost}}
`

type comparisonData struct {
	Initial     string
	Final       string
	InitialCost float64
	FinalCost   float64
}

var comparisonTmpl = template.Must(template.New("comparison").Funcs(template.FuncMap{
	"header": func(expr string) string {
		return suggestionStyle.Sprint("simplified: ") + noStyle.Sprint(expr)
	},
	"arrow": func(expr string) string {
		return lineStyle.Sprint(" --> ") + fileStyle.Sprint(expr)
	},
	"cost": func(from, to float64) string {
		return lineStyle.Sprint("  = ") + fmt.Sprintf("cost %s -> %s", formatCost(from), formatCost(to))
	},
}).Parse(comparisonTemplate))

// FormatComparison renders one simplification result.
func FormatComparison(c session.Comparison) string {
	var buf bytes.Buffer
	err := comparisonTmpl.Execute(&buf, comparisonData{
		Initial:     c.InitialExpr,
		Final:       c.FinalExpr,
		InitialCost: c.InitialCost,
		FinalCost:   c.FinalCost,
	})
	if err != nil {
		return fmt.Sprintf("Error formatting comparison: %v", err)
	}
	return buf.String()
}

// FormatComparisons renders a group of results, preceded by the file they
// came from when name is not empty. Entries are separated by blank lines.
func FormatComparisons(name string, best []session.Comparison) string {
	var builder strings.Builder
	if name != "" {
		builder.WriteString(ruleStyle.Sprintf("%s\n", name))
	}
	for _, c := range best {
		builder.WriteString(FormatComparison(c))
		builder.WriteString("\n")
	}
	return builder.String()
}

func formatCost(c float64) string {
	return strconv.FormatFloat(c, 'g', -1, 64)
}
