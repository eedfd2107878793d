// Command subyaml parses and repacks the included-file YAML dialect
// implemented by this module.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(stderrWriter(), err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "subyaml",
		Short:         "Parse and repack the included-file YAML dialect",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().Bool("color", false, "force colored error output")
	root.AddCommand(newPackCmd(), newCheckCmd(), newWatchCmd())
	return root
}
