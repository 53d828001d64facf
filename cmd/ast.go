package cmd

import (
	"github.com/randaguero/fangless/internal/compiler"
	"github.com/randaguero/fangless/internal/compiler/ast"
	"github.com/spf13/cobra"
)

// ast: decode and pretty-print the tree for inspection
var AstCmd = &cobra.Command{
	Use:   "ast <tree.json>",
	Short: "Pretty-print a serialized syntax tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mod, err := compiler.LoadModule(args[0])
		if err != nil {
			return err
		}
		ast.Fprint(cmd.OutOrStdout(), mod, "  ")
		return nil
	},
}
