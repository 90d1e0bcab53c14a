package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/gameshelf/internal/infrastructure/themesource"
)

func newThemesCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "themes",
		Short: "Manage installed themes",
	}
	cmd.AddCommand(newThemesListCmd(root))
	cmd.AddCommand(newThemesInstallCmd(root))
	return cmd
}

func newThemesListCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List themes in the themes directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig(cmd)
			if err != nil {
				return err
			}
			log, err := newLogger(cmd, cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			dir := themesource.NewDirectory(cfg.Theme.Dir, cfg.Theme.Active, log)
			entries, err := dir.Scan(cmd.Context())
			if err != nil {
				return newCommandError("list themes", "scanning "+cfg.Theme.Dir, err, "Check the themes directory exists and is readable.")
			}

			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "\tNAME\tVERSION\tPATH")
			for _, entry := range entries {
				marker := ""
				if entry.Name == dir.Active() {
					marker = "*"
				}
				fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n", marker, entry.Name, entry.Document.Config.Version, entry.Path)
			}
			return writer.Flush()
		},
	}
}

type installOptions struct {
	branch string
	force  bool
}

func newThemesInstallCmd(root *rootOptions) *cobra.Command {
	opts := &installOptions{}

	cmd := &cobra.Command{
		Use:   "install <repository>",
		Short: "Install themes from a git repository",
		Long: `Clone a git repository and copy every theme document found at its root
or in its themes/ folder into the themes directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig(cmd)
			if err != nil {
				return err
			}
			log, err := newLogger(cmd, cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			installer := themesource.NewInstaller(cfg.Theme.Dir, log)
			installed, err := installer.Install(cmd.Context(), themesource.InstallOptions{
				URL:    args[0],
				Branch: opts.branch,
				Force:  opts.force,
			})
			if errors.Is(err, themesource.ErrThemeExists) {
				return newCommandError("install themes", "copying theme files", err, "Re-run with --force to overwrite.")
			}
			if err != nil {
				return newCommandError("install themes", "cloning "+args[0], err, "Check the repository URL and branch.")
			}

			out := cmd.OutOrStdout()
			for _, name := range installed {
				fmt.Fprintf(out, "✓ installed %s\n", name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.branch, "branch", "", "Branch to clone (default: the repository's default branch)")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite existing theme files")

	return cmd
}
