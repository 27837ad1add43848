package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"codedom/internal/assembly"
	"codedom/internal/reflection"
)

var (
	packOutDir string
	packVerify bool
)

func init() {
	packCmd.Flags().StringVarP(&packOutDir, "out", "o", "", "output directory (default: next to each input)")
	packCmd.Flags().BoolVar(&packVerify, "verify", false, "decode every written bundle again")
}

var packCmd = &cobra.Command{
	Use:   "pack <bundle>...",
	Short: "Convert bundles between TOML and msgpack",
	Long: `pack writes a .mp file for every .toml bundle and a .toml file for
every .mp bundle, so bundles can be authored as text and shipped packed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := readGlobalOptions(cmd)
		if err != nil {
			return err
		}
		for _, in := range args {
			out, n, err := packOne(in, packOutDir)
			if err != nil {
				return err
			}
			if packVerify {
				if _, _, err := assembly.ReadFile(out); err != nil {
					return fmt.Errorf("verify %s: %w", out, err)
				}
			}
			if !g.quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%d types)\n", in, out, n)
			}
		}
		return nil
	},
}

func packOne(in, outDir string) (string, int, error) {
	asm, _, err := assembly.ReadFile(in)
	if err != nil {
		return "", 0, err
	}
	var (
		buf bytes.Buffer
		ext string
	)
	switch assembly.FormatOf(in) {
	case assembly.FormatTOML:
		ext = ".mp"
		err = assembly.EncodeMsgpack(&buf, asm)
	case assembly.FormatMsgpack:
		ext = ".toml"
		err = assembly.EncodeTOML(&buf, asm)
	default:
		return "", 0, fmt.Errorf("%s: unknown bundle extension", in)
	}
	if err != nil {
		return "", 0, fmt.Errorf("encode %s: %w", in, err)
	}
	out := outputPath(in, outDir, ext)
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return "", 0, err
	}
	return out, countTypes(asm.Classes), nil
}

func outputPath(in, outDir, ext string) string {
	base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in)) + ext
	if outDir == "" {
		return filepath.Join(filepath.Dir(in), base)
	}
	return filepath.Join(outDir, base)
}

// countTypes counts classes including nested ones.
func countTypes(classes []reflection.ClassDescriptor) int {
	n := len(classes)
	for i := range classes {
		n += countTypes(classes[i].Nested)
	}
	return n
}
