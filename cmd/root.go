package cmd

import (
	"github.com/spf13/cobra"
	"github.com/xyproto/env/v2"
)

var outDir string

var rootCmd = &cobra.Command{
	Use:   "fangless",
	Short: "Fangless CLI — C++ code generator and tree interpreter",
	Long: `Fangless translates serialized syntax trees into C++ translation
units backed by a dynamic value runtime.

Commands:
  build  Translate a syntax tree (.json) into a C++ translation unit
  run    Evaluate a syntax tree directly, without generating C++
  ast    Pretty-print a serialized syntax tree
`,
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outDir, "out", "o",
		env.Str("FANGLESS_OUT", "out"), "output directory for build artifacts")

	rootCmd.AddCommand(BuildCmd, RunCmd, AstCmd)
}
