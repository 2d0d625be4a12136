package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dhamidi/asfmt/config"
	"github.com/dhamidi/asfmt/project"
)

func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project [dir]",
		Short: "Show project structure",
		Long: `Display the detected project: its root, source directory, configuration
and the classes it declares. Classes whose package does not match their
directory are flagged.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			proj, err := project.LoadFrom(dir)
			if err != nil {
				return err
			}
			return runProject(cmd.OutOrStdout(), proj)
		},
	}

	cmd.AddCommand(newConfigCmd())

	return cmd
}

func runProject(out io.Writer, proj *project.Project) error {
	fmt.Fprintf(out, "Root:    %s\n", proj.RootDir)
	fmt.Fprintf(out, "Source:  %s\n", proj.SrcDir)
	if proj.Config.Path != "" {
		fmt.Fprintf(out, "Config:  %s\n", proj.Config.Path)
	} else {
		fmt.Fprintf(out, "Config:  (defaults)\n")
	}

	classes, err := proj.Classes()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nClasses:\n")

	misplaced := 0
	for _, c := range classes {
		kind := "class"
		if c.Interface {
			kind = "interface"
		}
		fmt.Fprintf(out, "  %-9s %s\n", kind, c.FullName())
		if c.Misplaced() {
			misplaced++
			changedStyle.Fprintf(out, "    declared in package %q, directory implies %q\n", c.Package, c.Expected)
		}
	}
	if misplaced > 0 {
		errorStyle.Fprintf(out, "\n%d misplaced classes\n", misplaced)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config [dir]",
		Short: "Print the effective formatter configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			cfg, err := config.ForDir(dir)
			if err != nil {
				return err
			}
			if cfg.Path != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", cfg.Path)
			}
			data, err := config.Encode(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
