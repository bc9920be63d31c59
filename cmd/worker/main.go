// Package main is the entry point for the ledger background worker.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "worker",
	Short: "Background worker for the ledger engine",
	Long: `worker materializes recurring transactions, sweeps saving plans, evaluates
budget thresholds and delivers notifications.

Run "worker run" for the long-lived process or one of the one-shot commands
for maintenance.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error); overrides LOG_LEVEL")
	rootCmd.PersistentFlags().String("log-format", "", "log format (json, text); overrides LOG_FORMAT")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(processRecurringCmd())
	rootCmd.AddCommand(sweepOverdueCmd())
	rootCmd.AddCommand(checkProgressCmd())
	rootCmd.AddCommand(reconcileCmd())
	rootCmd.AddCommand(seedCategoriesCmd())
	rootCmd.AddCommand(drainCmd())
	rootCmd.AddCommand(tokenCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		slog.Error("Worker failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
