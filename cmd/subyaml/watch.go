package main

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/example/go-subyaml"
	"github.com/example/go-subyaml/errors"
)

// newWatchCmd re-packs a document whenever a file directly in its
// directory is written or created. Subdirectories are not watched, so a
// change to an included file that lives in one does not trigger a
// re-pack. Each change triggers a full re-parse, not an
// incremental update: the dialect's parse context is not designed for
// concurrent or partial mutation (spec.md §5 Non-goals), so "watch" is
// built on top of the same Parse/Pack calls "pack" uses, just looped.
func newWatchCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-pack a document each time a file in its directory changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			forced, _ := cmd.Flags().GetBool("color")
			errors.Colored = colorEnabled(forced)
			color.NoColor = !errors.Colored

			path := args[0]
			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return err
			}
			defer watcher.Close()
			if err := watcher.Add(filepath.Dir(path)); err != nil {
				return err
			}

			repack := func() {
				doc, err := subyaml.ParseFile(path, subyaml.WithPresentation())
				if err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), err)
					return
				}
				env := subyaml.NewPackEnv()
				if outDir != "" {
					env.SetOutputDir(outDir)
					if err := env.PackToDirectory(doc, outDir, filepath.Base(path)); err != nil {
						fmt.Fprintln(cmd.ErrOrStderr(), err)
					}
					return
				}
				fmt.Fprint(cmd.OutOrStdout(), env.PackToString(doc))
			}

			repack()
			for {
				select {
				case ev, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
						repack()
					}
				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					fmt.Fprintln(cmd.ErrOrStderr(), err)
				}
			}
		},
	}
	cmd.Flags().StringVarP(&outDir, "output-dir", "o", "", "write a directory tree on each change")
	return cmd
}
