package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"codedom/internal/ast"
	"codedom/internal/diag"
	"codedom/internal/observ"
	"codedom/internal/resolve"
	"codedom/internal/symbols"
	"codedom/internal/workspace"
)

var (
	positionClass  string
	positionMember string
	completeStatic bool
	completeFormat string
)

func addPositionFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&positionClass, "class", "", "qualified name of the class the caret is in")
	cmd.Flags().StringVar(&positionMember, "member", "", "member of --class the caret is in")
}

func init() {
	addPositionFlags(completeCmd)
	completeCmd.Flags().BoolVar(&completeStatic, "static", false, "list static members (default: only for type expressions)")
	completeCmd.Flags().StringVar(&completeFormat, "format", "table", "output format (table|names|json)")
}

var completeCmd = &cobra.Command{
	Use:   "complete [flags] <expression>",
	Short: "List completion entries after an expression",
	Long: `complete resolves the expression (a trailing dot is allowed) at the
position given by --class/--member and lists the members it offers.`,
	Example: `  codedom complete --class Acme.Widget --member Run "names."
  codedom complete --class Acme.Widget System.Collections`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch completeFormat {
		case "table", "names", "json":
		default:
			return fmt.Errorf("unsupported format %q (table|names|json)", completeFormat)
		}
		return withSnapshot(cmd, func(g globalOptions, snap *workspace.Snapshot, timer *observ.Timer) error {
			res, err := resolveAtPosition(cmd, g, snap, timer, args[0])
			if err != nil {
				return err
			}
			phase := timer.Begin("complete")
			var entries []symbols.Entry
			if cmd.Flags().Changed("static") {
				entries = resolve.Completion(res, snap.Project, completeStatic)
			} else {
				entries = resolve.DefaultCompletion(res, snap.Project)
			}
			timer.End(phase, fmt.Sprintf("%d entries", len(entries)))
			return printEntries(cmd, g, res, entries)
		})
	},
}

// resolveAtPosition parses text and resolves it at --class/--member.
func resolveAtPosition(cmd *cobra.Command, g globalOptions, snap *workspace.Snapshot, timer *observ.Timer, text string) (resolve.Result, error) {
	expr, err := ast.ParseExpr(strings.TrimSpace(text))
	if err != nil {
		return nil, fmt.Errorf("invalid expression %q: %w", text, err)
	}
	var c resolve.Context
	if positionClass != "" {
		if c, err = snap.Context(positionClass, positionMember); err != nil {
			return nil, err
		}
	}
	phase := timer.Begin("resolve")
	bag := diag.NewBag(g.maxDiagnostics)
	res, ok := snap.Resolver(diag.BagReporter{Bag: bag}).Resolve(cmd.Context(), expr, c)
	timer.End(phase, expr.String())
	if !ok {
		if err := printDiagnostics(cmd, g, bag, snap.Manifest.Root); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%q does not resolve", expr.String())
	}
	return res, nil
}

type entryJSON struct {
	Kind   string `json:"kind"`
	Name   string `json:"name"`
	Detail string `json:"detail"`
}

func printEntries(cmd *cobra.Command, g globalOptions, res resolve.Result, entries []symbols.Entry) error {
	out := cmd.OutOrStdout()
	switch completeFormat {
	case "names":
		for _, e := range entries {
			fmt.Fprintln(out, e.Name())
		}
		return nil
	case "json":
		payload := make([]entryJSON, 0, len(entries))
		for _, e := range entries {
			payload = append(payload, entryJSON{Kind: entryKind(e), Name: e.Name(), Detail: e.Detail()})
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}
	if !g.quiet {
		fmt.Fprintf(out, "%s\n\n", res)
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{entryKind(e), e.Name(), e.Detail()})
	}
	return writeTable(out, []string{"KIND", "NAME", "DETAIL"}, rows)
}

// entryKind is the most specific kind word: "method" rather than "member".
func entryKind(e symbols.Entry) string {
	switch e.Kind {
	case symbols.EntryMember:
		return e.Member.Kind.String()
	case symbols.EntryType:
		return e.Type.Kind.String()
	default:
		return e.Kind.String()
	}
}
