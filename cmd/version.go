package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnolang/tsat/internal/session"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(session.Version)
	},
}
