// Package main provides the sentinel CLI, the scheduled self-audit
// process that checks build health, heals missing files, and sweeps the
// promo queue.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mythicam/eliteanicore/pkg/sentinel"
)

func main() {
	var (
		once     bool
		interval time.Duration
		server   string
		root     string
		lintCmd  string
	)

	rootCmd := &cobra.Command{
		Use:   "sentinel",
		Short: "EliteAniCore health sentinel",
		Long: `Runs the health audit and promotion sweep loop. Each tick lints the
project, checks critical files (restoring what it can), writes a
markdown health report, and posts a heartbeat to the app server.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}))
			slog.SetDefault(logger)

			cfg := sentinel.ConfigFromEnv()
			if cmd.Flags().Changed("interval") {
				cfg.Interval = interval
			}
			if server != "" {
				cfg.ServerURL = server
			}
			if root != "" {
				cfg.RootDir = root
			}
			if cmd.Flags().Changed("lint") {
				cfg.LintCommand = lintCmd
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				sig := <-sigCh
				logger.Info("received shutdown signal", "signal", sig)
				cancel()
			}()

			sentinel.New(cfg, logger).Run(ctx, once)
			return nil
		},
	}

	rootCmd.Flags().BoolVar(&once, "once", false, "Perform exactly one tick and exit")
	rootCmd.Flags().DurationVar(&interval, "interval", 60*time.Second, "Tick interval")
	rootCmd.Flags().StringVar(&server, "server", "", "App server base URL (default http://localhost:8080)")
	rootCmd.Flags().StringVar(&root, "root", "", "Project root to audit (default current directory)")
	rootCmd.Flags().StringVar(&lintCmd, "lint", "", "Lint command to run (default \"go vet ./...\")")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
