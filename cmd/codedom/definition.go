package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"codedom/internal/diag"
	"codedom/internal/observ"
	"codedom/internal/resolve"
	"codedom/internal/workspace"
)

func init() {
	addPositionFlags(definitionCmd)
}

var definitionCmd = &cobra.Command{
	Use:   "definition [flags] <expression>",
	Short: "Print where the expression's target is declared",
	Example: `  codedom definition --class Acme.Widget --member Run names
  codedom definition Acme.Widget`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSnapshot(cmd, func(g globalOptions, snap *workspace.Snapshot, timer *observ.Timer) error {
			res, err := resolveAtPosition(cmd, g, snap, timer, args[0])
			if err != nil {
				return err
			}
			pos, ok := resolve.DefinitionPosition(cmd.Context(), res)
			if !ok {
				bag := diag.NewBag(1)
				diag.ReportInfo(diag.BagReporter{Bag: bag}, diag.ResolveNoSourceRegion,
					diag.Location{Subject: args[0]}, res.String()+" has no source location").Emit()
				return printDiagnostics(cmd, g, bag, snap.Manifest.Root)
			}
			fmt.Fprintln(cmd.OutOrStdout(), pos)
			return nil
		})
	},
}
