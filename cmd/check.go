package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/cottand/hunch/internal/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var CheckCmd = &cobra.Command{
	Use:          "check [./folder|program.yaml]",
	Short:        "Type-check a hunch program and print its diagnostics",
	RunE:         runCheck,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
}

var (
	checkJSON  *bool
	checkWatch *bool
)

func init() {
	checkJSON = CheckCmd.Flags().Bool("json", false, "print diagnostics as JSON")
	checkWatch = CheckCmd.Flags().BoolP("watch", "w", false, "check again whenever the program changes")
}

func runCheck(cmd *cobra.Command, args []string) error {
	t, err := resolveTarget(args[0])
	if err != nil {
		return err
	}
	if !*checkWatch {
		return checkOnce(cmd.OutOrStdout(), t)
	}
	return watch(cmd.Context(), t, func() {
		if err := checkOnce(cmd.OutOrStdout(), t); err != nil {
			cmd.PrintErrln(err)
		}
	})
}

func checkOnce(w io.Writer, t *target) error {
	u, err := t.load()
	if err != nil {
		return err
	}
	if *checkJSON {
		err = writeJSON(w, u)
	} else {
		err = writeText(w, t.name, u)
	}
	if err != nil {
		return fmt.Errorf("could not write diagnostics: %w", err)
	}
	return failed(u.Diagnostics(), t.config.FailOnWarnings)
}

var watchLogger = log.DefaultLogger.With("section", "watch")

// watch calls onChange once, then again after every write to the target,
// until ctx is done
func watch(ctx context.Context, t *target, onChange func()) error {
	if ctx == nil {
		ctx = context.Background()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not start watching: %w", err)
	}
	defer func() { _ = w.Close() }()

	// editors often replace files rather than write them, so watch the directory
	if err := w.Add(t.root); err != nil {
		return fmt.Errorf("could not watch %s: %w", t.root, err)
	}
	onChange()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if t.name != "." && filepath.Base(ev.Name) != t.name {
				continue
			}
			watchLogger.Debug("change detected", "file", ev.Name, "op", ev.Op.String())
			onChange()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			watchLogger.Warn("watch error", "err", err)
		}
	}
}
