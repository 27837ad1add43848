package main

import (
	"fmt"
	"strconv"

	"github.com/gobwas/glob"
	"github.com/spf13/cobra"

	"codedom/internal/observ"
	"codedom/internal/types"
	"codedom/internal/workspace"
)

var (
	typesFilters     []string
	typesProjectOnly bool
)

func init() {
	typesCmd.Flags().StringArrayVarP(&typesFilters, "filter", "f", nil,
		"glob over qualified names; * stays inside one segment, ** crosses dots (repeatable)")
	typesCmd.Flags().BoolVar(&typesProjectOnly, "project", false, "only list types declared by the project")
}

var typesCmd = &cobra.Command{
	Use:     "types",
	Short:   "List the types visible to the project",
	Example: `  codedom types -f 'System.Collections.**' -f 'Acme.*'`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filters, err := compileNameGlobs(typesFilters)
		if err != nil {
			return err
		}
		return withSnapshot(cmd, func(g globalOptions, snap *workspace.Snapshot, timer *observ.Timer) error {
			phase := timer.Begin("list")
			decls := snap.Types(func(d *types.TypeDecl) bool {
				if typesProjectOnly && d.Scope != snap.Project.Scope() {
					return false
				}
				return matchAny(filters, d.FullName)
			})
			timer.End(phase, strconv.Itoa(len(decls))+" types")

			rows := make([][]string, 0, len(decls))
			for _, d := range decls {
				rows = append(rows, []string{d.Kind.String(), d.FullName, d.Scope, strconv.Itoa(len(d.Members()))})
			}
			return writeTable(cmd.OutOrStdout(), []string{"KIND", "NAME", "SCOPE", "MEMBERS"}, rows)
		})
	},
}

func compileNameGlobs(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '.')
		if err != nil {
			return nil, fmt.Errorf("invalid filter %q: %w", p, err)
		}
		out = append(out, g)
	}
	return out, nil
}

// matchAny reports whether name matches one of the globs; no globs match
// everything.
func matchAny(globs []glob.Glob, name string) bool {
	if len(globs) == 0 {
		return true
	}
	for _, g := range globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}
