package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/cottand/hunch/internal/config"
	"github.com/cottand/hunch/runtime/eval"
	"github.com/spf13/cobra"
)

var RunCmd = &cobra.Command{
	Use:          "run [./folder|program.yaml]",
	Short:        "Check a hunch program, then evaluate its main",
	RunE:         runRun,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
}

var (
	runTimeout *time.Duration
	runPrint   *bool
)

func init() {
	runTimeout = RunCmd.Flags().DurationP("timeout", "t", 0, "abandon the run after this long (overrides hunch.yaml)")
	runPrint = RunCmd.Flags().BoolP("print", "p", false, "print the value main returns")
}

// adapters builds the effects a run may use from hunch.yaml
func (t *target) adapters() eval.Adapters {
	a := eval.Adapters{
		Human:  eval.NoopHuman{Default: t.config.Human.Default},
		Random: eval.FixedRandom(t.config.RandomValue()),
	}
	if allow := t.config.Files.Allow; len(allow) > 0 {
		roots := make([]string, len(allow))
		for i, p := range allow {
			roots[i] = t.path(p)
		}
		a.Files = eval.RootedFiles{Roots: roots, Base: t.root}
	}
	return a
}

func timeout(cmd *cobra.Command, cfg *config.Config) time.Duration {
	if cmd.Flags().Changed("timeout") {
		return *runTimeout
	}
	return cfg.Timeout
}

type runResult struct {
	value eval.Value
	err   error
}

func runRun(cmd *cobra.Command, args []string) error {
	t, err := resolveTarget(args[0])
	if err != nil {
		return err
	}
	u, err := t.load()
	if err != nil {
		return err
	}
	if err := writeText(cmd.ErrOrStderr(), t.name, u); err != nil {
		return err
	}
	if err := failed(u.Diagnostics(), t.config.FailOnWarnings); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if d := timeout(cmd, t.config); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	// evaluation cannot be interrupted, so a timed out run is abandoned
	done := make(chan runResult, 1)
	go func() {
		v, err := u.Run(eval.WithAdapters(t.adapters()), eval.WithOutput(cmd.OutOrStdout()))
		done <- runResult{v, err}
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("run of %s abandoned: %w", u.Name(), ctx.Err())
	case res := <-done:
		if res.err != nil {
			return res.err
		}
		if *runPrint && res.value != eval.Unit {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), res.value.Inspect())
		}
		return nil
	}
}
