package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"codedom/internal/workspace"
)

var (
	watchDebounce time.Duration
	watchExclude  []string
)

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 0, "quiet period before a rebuild (default from [watch] or 200ms)")
	watchCmd.Flags().StringArrayVar(&watchExclude, "exclude", nil, "base-name glob of inputs to ignore (repeatable)")
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild the workspace whenever its inputs change",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := readGlobalOptions(cmd)
		if err != nil {
			return err
		}
		ws, err := openWorkspace(cmd, g)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		report := func(snap *workspace.Snapshot) {
			fmt.Fprintf(out, "v%d: %d project types, %d assemblies, %d diagnostics\n",
				snap.Version, snap.Project.Len(), len(snap.Assemblies), snap.Diagnostics.Len())
			if err := printDiagnostics(cmd, g, snap.Diagnostics, snap.Manifest.Root); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
			}
			if g.timings {
				fmt.Fprint(cmd.ErrOrStderr(), snap.Timings.Summary())
			}
		}
		report(ws.Snapshot())

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		err = ws.Watch(ctx, workspace.WatchOptions{Debounce: watchDebounce, Exclude: watchExclude},
			func(snap *workspace.Snapshot, err error) {
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "rebuild failed: %v\n", err)
					return
				}
				report(snap)
			})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}
