// Package formatter renders simplification and proof results for a
// terminal.
package formatter

import (
	"fmt"

	"github.com/fatih/color"
)

var (
	errorStyle      = color.New(color.FgRed, color.Bold)
	ruleStyle       = color.New(color.FgYellow, color.Bold)
	fileStyle       = color.New(color.FgCyan, color.Bold)
	lineStyle       = color.New(color.FgHiBlue, color.Bold)
	suggestionStyle = color.New(color.FgGreen, color.Bold)
	noStyle         = color.New(color.FgWhite)
)

func calculateMaxLineNumWidth(n int) int {
	return len(fmt.Sprintf("%d", n))
}
