package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"codedom/internal/trace"
	"codedom/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "codedom",
	Short: "Code completion and navigation over reflected assemblies",
	Long: `codedom resolves expressions against a project's symbol tables and
answers completion and go-to-definition queries from the command line.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		stopProfiling, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		stopTracing, err := setupTracing(cmd)
		if err != nil {
			stopProfiling()
			return err
		}
		cleanups = append(cleanups, stopTracing, stopProfiling)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		runCleanups()
	},
}

// cleanups run in order after the command, and from main when it fails.
var cleanups []func()

func runCleanups() {
	for _, fn := range cleanups {
		fn()
	}
	cleanups = nil
}

func init() {
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(definitionCmd)
	rootCmd.AddCommand(typesCmd)
	rootCmd.AddCommand(packCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)

	flags := rootCmd.PersistentFlags()
	flags.StringP("workspace", "w", ".", "codedom.toml or a directory to search upwards from")
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "show timing information")
	flags.Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	flags.String("diagnostics-format", "pretty", "diagnostics output format (pretty|json)")
	flags.Int("jobs", 0, "parallel bundle loads (0 = GOMAXPROCS)")
	flags.Bool("no-cache", false, "do not use the bundle cache")

	flags.String("trace", "", "trace output file (- for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-mode", "stream", "trace storage mode (stream|ring|both)")
	flags.Int("trace-ring-size", 4096, "ring buffer size for ring mode")
	flags.Duration("trace-heartbeat", 0, "heartbeat interval (0 = disabled)")

	flags.String("cpu-profile", "", "write a CPU profile to file")
	flags.String("mem-profile", "", "write a heap profile to file")
	flags.String("runtime-trace", "", "write a Go runtime trace to file")
}

// main runs the root command. A failing command exits with status 1.
func main() {
	rootCmd.Version = version.Current().Version
	if err := rootCmd.Execute(); err != nil {
		if ctx := rootCmd.Context(); ctx != nil {
			_ = trace.DumpOnFailure(ctx, os.Stderr)
		}
		runCleanups()
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
