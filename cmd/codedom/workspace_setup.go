package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"codedom/internal/assembly"
	"codedom/internal/diag"
	"codedom/internal/diagfmt"
	"codedom/internal/observ"
	"codedom/internal/workspace"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	workspace      string
	color          bool
	quiet          bool
	timings        bool
	maxDiagnostics int
	diagFormat     string
	jobs           int
	noCache        bool
}

func readGlobalOptions(cmd *cobra.Command) (globalOptions, error) {
	flags := cmd.Root().PersistentFlags()
	var (
		g   globalOptions
		err error
	)
	if g.workspace, err = flags.GetString("workspace"); err != nil {
		return g, err
	}
	colorMode, err := flags.GetString("color")
	if err != nil {
		return g, err
	}
	if g.color, err = resolveColor(colorMode, cmd.OutOrStdout()); err != nil {
		return g, err
	}
	if g.quiet, err = flags.GetBool("quiet"); err != nil {
		return g, err
	}
	if g.timings, err = flags.GetBool("timings"); err != nil {
		return g, err
	}
	if g.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
		return g, err
	}
	if g.diagFormat, err = flags.GetString("diagnostics-format"); err != nil {
		return g, err
	}
	switch g.diagFormat = strings.ToLower(g.diagFormat); g.diagFormat {
	case "pretty", "json":
	default:
		return g, fmt.Errorf("unsupported diagnostics format %q (must be pretty or json)", g.diagFormat)
	}
	if g.jobs, err = flags.GetInt("jobs"); err != nil {
		return g, err
	}
	if g.noCache, err = flags.GetBool("no-cache"); err != nil {
		return g, err
	}
	return g, nil
}

// resolveColor maps --color to a decision; auto colors only terminals.
func resolveColor(mode string, out io.Writer) (bool, error) {
	switch strings.ToLower(mode) {
	case "on", "always", "true":
		return true, nil
	case "off", "never", "false":
		return false, nil
	case "auto", "":
		f, ok := out.(*os.File)
		return ok && isTerminal(f), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (auto|on|off)", mode)
	}
}

// openWorkspace loads the workspace named by --workspace. Cache problems are
// not fatal: the workspace is loaded without a cache.
func openWorkspace(cmd *cobra.Command, g globalOptions) (*workspace.Workspace, error) {
	opts := workspace.Options{Jobs: g.jobs, MaxDiagnostics: g.maxDiagnostics}
	if !g.noCache {
		cache, err := assembly.OpenCache("codedom")
		if err != nil {
			if !g.quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: bundle cache disabled: %v\n", err)
			}
		} else {
			opts.Cache = cache
		}
	}
	ws, err := workspace.Load(cmd.Context(), g.workspace, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load workspace: %w", err)
	}
	return ws, nil
}

// printDiagnostics writes bag to stderr. Warnings and infos are dropped in
// quiet mode.
func printDiagnostics(cmd *cobra.Command, g globalOptions, bag *diag.Bag, baseDir string) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	if g.quiet && !bag.HasErrors() {
		return nil
	}
	out := cmd.ErrOrStderr()
	if g.diagFormat == "json" {
		return diagfmt.JSON(out, bag, diagfmt.JSONOpts{BaseDir: baseDir, Max: g.maxDiagnostics, IncludeNotes: true})
	}
	diagfmt.Pretty(out, bag, diagfmt.PrettyOpts{
		Color:     g.color,
		BaseDir:   baseDir,
		ShowNotes: true,
		Max:       g.maxDiagnostics,
	})
	return nil
}

func printTimings(cmd *cobra.Command, g globalOptions, build observ.Report, timer *observ.Timer) {
	if !g.timings {
		return
	}
	report := timer.Report().Merge("build/", build)
	fmt.Fprint(cmd.ErrOrStderr(), report.Summary())
}

// withSnapshot loads the workspace, prints its diagnostics and hands the
// snapshot to fn. Timings cover both the build and fn.
func withSnapshot(cmd *cobra.Command, fn func(g globalOptions, snap *workspace.Snapshot, timer *observ.Timer) error) error {
	g, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}
	ws, err := openWorkspace(cmd, g)
	if err != nil {
		return err
	}
	snap := ws.Snapshot()
	if err := printDiagnostics(cmd, g, snap.Diagnostics, snap.Manifest.Root); err != nil {
		return err
	}
	timer := observ.NewTimer()
	err = fn(g, snap, timer)
	printTimings(cmd, g, snap.Timings, timer)
	return err
}
