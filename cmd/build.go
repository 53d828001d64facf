package cmd

import (
	"fmt"

	"github.com/randaguero/fangless/internal/compiler"
	"github.com/spf13/cobra"
	"github.com/xyproto/env/v2"
)

var (
	buildIndent int
	buildMain   bool
)

// build: translate .json -> .cpp plus the runtime sources
var BuildCmd = &cobra.Command{
	Use:   "build <tree.json>",
	Short: "Translate a syntax tree into a C++ translation unit",
	Args:  cobra.ExactArgs(1),
	RunE:  buildRun,
}

func buildRun(cmd *cobra.Command, args []string) error {
	src := args[0]

	fmt.Printf("↪ building %q → %q ...\n", src, outDir+"/")

	outFile, err := compiler.CompileAndWrite(src, outDir, compiler.Options{
		EntryPoint: buildMain,
		Indent:     buildIndent,
	})
	if err != nil {
		return err
	}

	fmt.Printf("✔︎ wrote C++ to %s\n", outFile)
	return nil
}

func init() {
	BuildCmd.Flags().IntVar(&buildIndent, "indent",
		env.Int("FANGLESS_INDENT", 4), "indentation width of the generated C++")
	BuildCmd.Flags().BoolVar(&buildMain, "main",
		env.Str("FANGLESS_MAIN", "true") == "true",
		"emit int main() so the unit is the program entry point")
}
