package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/tsat/engine"
)

var (
	cfgFile string
	timeout time.Duration
	verbose bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tsat",
	Short: "tsat - term rewriting by equality saturation",
	// stdout carries command output; usage on every error would pollute it.
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if verbose {
			logger, err = zap.NewDevelopment()
		} else {
			logger, err = zap.NewProduction()
		}
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", engine.DefaultConfigPath, "Path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable development logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Time limit of every saturation run (overrides the configuration)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(simplifyCmd)
	rootCmd.AddCommand(proveCmd)
	rootCmd.AddCommand(versionCmd)
}

// newEngine loads the configuration and, when rulesPath is set, the rule
// file it names in place of the configured one.
func newEngine(rulesPath string) *engine.Engine {
	config, err := engine.LoadConfig(cfgFile)
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.String("path", cfgFile), zap.Error(err))
	}
	if timeout > 0 {
		config = config.WithTimeout(timeout)
	}
	if rulesPath != "" {
		config.Rules = rulesPath
	}

	e, err := engine.New(config, logger)
	if err != nil {
		logger.Fatal("Failed to initialize engine", zap.Error(err))
	}
	return e
}
