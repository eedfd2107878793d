package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/go-subyaml"
	"github.com/example/go-subyaml/errors"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Parse a document and report unbound variables without packing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			forced, _ := cmd.Flags().GetBool("color")
			errors.Colored = colorEnabled(forced)
			color.NoColor = !errors.Colored

			doc, err := subyaml.ParseFile(args[0], subyaml.WithAllowUnboundVariables())
			if err != nil {
				return err
			}
			if len(doc.UnboundVariables) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "ok: no unbound variables")
				return nil
			}
			for _, name := range doc.UnboundVariables {
				fmt.Fprintf(cmd.OutOrStdout(), "unbound variable: $%s\n", name)
			}
			return nil
		},
	}
	return cmd
}
