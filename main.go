package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/cottand/hunch/cmd"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "hunch [subcommand]",
	Short:        "hunch 🔮\n types and values that know how sure they are",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cmd.LogLevel, "log-level", "l", "", "log level: debug, info, warn or error (overrides hunch.yaml)")
	rootCmd.PersistentFlags().BoolVar(&cmd.DebugErrors, "debug-errors", false, "include where each diagnostic was raised in debug logs")
	rootCmd.AddCommand(cmd.CheckCmd)
	rootCmd.AddCommand(cmd.RunCmd)
	rootCmd.AddCommand(cmd.SubtypeCmd)
}
