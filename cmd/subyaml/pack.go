package main

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/go-subyaml"
	"github.com/example/go-subyaml/errors"
)

func newPackCmd() *cobra.Command {
	var outDir string
	var noSubfiles bool

	cmd := &cobra.Command{
		Use:   "pack <file>",
		Short: "Parse a document and repack it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			forced, _ := cmd.Flags().GetBool("color")
			errors.Colored = colorEnabled(forced)
			color.NoColor = !errors.Colored

			cfg := &Config{Input: args[0], OutputDir: outDir, NoSubfiles: noSubfiles}
			if err := cfg.Validate(); err != nil {
				return err
			}

			doc, err := subyaml.ParseFile(cfg.Input, subyaml.WithPresentation())
			if err != nil {
				return err
			}

			env := subyaml.NewPackEnv().SetNoSubfiles(cfg.NoSubfiles)
			if cfg.OutputDir == "" {
				fmt.Fprint(cmd.OutOrStdout(), env.PackToString(doc))
				return nil
			}
			env.SetOutputDir(cfg.OutputDir)
			name := filepath.Base(cfg.Input)
			return env.PackToDirectory(doc, cfg.OutputDir, name)
		},
	}
	cmd.Flags().StringVarP(&outDir, "output-dir", "o", "", "write a directory tree, included files on their own")
	cmd.Flags().BoolVar(&noSubfiles, "no-subfiles", false, "inline included content even with --output-dir")
	return cmd
}
