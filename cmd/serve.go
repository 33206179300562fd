package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/tsat/internal/rewrite"
)

var (
	serveRules  string
	serveWatch  bool
	metricsAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Answer line-delimited JSON requests on stdin",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		e := newEngine(serveRules)
		s := e.NewSession()
		logger.Info("session started", zap.String("session", s.ID), zap.Int("rules", len(s.Rules())))

		if serveWatch {
			path := e.Config().Rules
			if path == "" {
				logger.Fatal("--watch needs a rule file (--rules or rules: in the configuration)")
			}
			rw, err := e.WatchRules(path)
			if err != nil {
				logger.Fatal("Failed to watch rule file", zap.Error(err))
			}
			go func() {
				_ = rw.Run(ctx, func(rules []*rewrite.Rewrite) { s.SetRules(rules) })
			}()
		}

		if metricsAddr != "" {
			srv := &http.Server{Addr: metricsAddr, Handler: promhttp.Handler()}
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("metrics server stopped", zap.Error(err))
				}
			}()
			defer srv.Close()
		}

		if err := s.Serve(os.Stdin, os.Stdout); err != nil {
			logger.Fatal("Error serving requests", zap.Error(err))
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveRules, "rules", "", "Rule file preloaded into the session")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Reload the rule file whenever it changes")
	serveCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve prometheus metrics on this address")
}
