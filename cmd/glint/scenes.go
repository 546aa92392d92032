package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taigrr/glint/pkg/scene"
)

func newScenesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenes",
		Short: "List built-in scenes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range scene.BuiltinNames() {
				s, err := scene.Builtin(name, 1, 1)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %d primitives, %d lights\n",
					name, len(s.Primitives), s.LightCount())
			}
			return nil
		},
	}
}
