package cmd

import (
	"github.com/randaguero/fangless/internal/compiler"
	"github.com/randaguero/fangless/internal/interp"
	"github.com/spf13/cobra"
)

// run: evaluate the tree directly against the Go runtime
var RunCmd = &cobra.Command{
	Use:   "run <tree.json>",
	Short: "Evaluate a syntax tree directly, without generating C++",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mod, err := compiler.LoadModule(args[0])
		if err != nil {
			return err
		}
		in := interp.New(interp.Options{
			Stdin:  cmd.InOrStdin(),
			Stdout: cmd.OutOrStdout(),
		})
		return in.Run(mod)
	},
}
