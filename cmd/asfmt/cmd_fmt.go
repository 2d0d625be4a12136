package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/asfmt/config"
	"github.com/dhamidi/asfmt/format"
	"github.com/dhamidi/asfmt/project"
)

var (
	changedStyle = color.New(color.FgYellow, color.Bold)
	okStyle      = color.New(color.FgGreen)
	errorStyle   = color.New(color.FgRed, color.Bold)
)

var errUnformatted = errors.New("some files are not formatted")

type fmtFlags struct {
	write      bool
	list       bool
	check      bool
	configPath string
	jobs       int

	indentWidth   int
	useTabs       bool
	maxBlankLines int
	finalNewline  bool
}

func newFmtCmd() *cobra.Command {
	var flags fmtFlags

	cmd := &cobra.Command{
		Use:   "fmt [file|dir ...]",
		Short: "Format ActionScript source",
		Long: `Format ActionScript source.

Without arguments, reads source from stdin and writes the result to stdout.
Directories are searched recursively for .as files, skipping hidden
directories.

Options come from the nearest .asfmt.toml or .asfmt.yaml above each file,
or from --config. Flags override both.

Use -w to rewrite files in place, -l to list files whose formatting
differs, and --check to fail when any file would change. With -l -w both
together, changed files are listed and rewritten.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := &config.Config{}
			if cmd.Flags().Changed("indent-width") {
				overrides.IndentWidth = &flags.indentWidth
			}
			if cmd.Flags().Changed("use-tabs") {
				overrides.UseTabs = &flags.useTabs
			}
			if cmd.Flags().Changed("max-blank-lines") {
				overrides.MaxBlankLines = &flags.maxBlankLines
			}
			if cmd.Flags().Changed("final-newline") {
				overrides.InsertFinalNewline = &flags.finalNewline
			}
			if err := overrides.Validate(); err != nil {
				return err
			}

			r := &optionResolver{overrides: overrides}
			if flags.configPath != "" {
				cfg, err := config.Load(flags.configPath)
				if err != nil {
					return err
				}
				r.explicit = cfg
			}

			if len(args) == 0 {
				return fmtStdin(cmd.InOrStdin(), cmd.OutOrStdout(), flags, r)
			}
			return fmtPaths(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args, flags, r)
		},
	}

	cmd.Flags().BoolVarP(&flags.write, "write", "w", false, "write result to the source file instead of stdout")
	cmd.Flags().BoolVarP(&flags.list, "list", "l", false, "list files whose formatting differs")
	cmd.Flags().BoolVar(&flags.check, "check", false, "exit with an error if any file would be reformatted")
	cmd.Flags().StringVar(&flags.configPath, "config", "", "use this configuration file instead of discovering one")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", runtime.GOMAXPROCS(0), "number of files formatted in parallel")
	cmd.Flags().IntVar(&flags.indentWidth, "indent-width", 4, "columns per indentation level")
	cmd.Flags().BoolVar(&flags.useTabs, "use-tabs", false, "indent with tabs")
	cmd.Flags().IntVar(&flags.maxBlankLines, "max-blank-lines", 1, "maximum consecutive blank lines kept")
	cmd.Flags().BoolVar(&flags.finalNewline, "final-newline", false, "always end output with a newline")

	return cmd
}

// optionResolver picks the options for a file: the explicit configuration or
// the discovered one, then flag overrides.
type optionResolver struct {
	explicit  *config.Config
	overrides *config.Config
}

func (r *optionResolver) options(dir string) (format.Options, error) {
	cfg := r.explicit
	if cfg == nil {
		var err error
		if cfg, err = config.ForDir(dir); err != nil {
			return format.Options{}, err
		}
	}
	return cfg.Merge(r.overrides).Options(), nil
}

func fmtStdin(in io.Reader, out io.Writer, flags fmtFlags, r *optionResolver) error {
	if flags.write {
		return fmt.Errorf("-w requires a file argument")
	}
	src, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	opts, err := r.options(wd)
	if err != nil {
		return err
	}
	formatted, err := format.Source(src, opts)
	if err != nil {
		return fmt.Errorf("format: %w", err)
	}

	changed := !bytes.Equal(src, formatted)
	switch {
	case flags.list || flags.check:
		if changed {
			fmt.Fprintln(out, "<stdin>")
		}
	default:
		if _, err := out.Write(formatted); err != nil {
			return err
		}
	}
	if flags.check && changed {
		return errUnformatted
	}
	return nil
}

type fmtResult struct {
	path      string
	formatted []byte
	changed   bool
}

// expandPaths resolves directories to the .as files below them.
func expandPaths(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() && filepath.Ext(arg) != project.Extension {
			return nil, fmt.Errorf("expected %s file, got %s", project.Extension, arg)
		}
		found, err := project.SourceFiles(arg)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}

// formatFiles formats files concurrently, at most jobs at a time. Results
// are returned in the order of files.
func formatFiles(ctx context.Context, files []string, jobs int, r *optionResolver) ([]fmtResult, error) {
	results := make([]fmtResult, len(files))
	g, ctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			src, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}
			opts, err := r.options(filepath.Dir(path))
			if err != nil {
				return err
			}
			formatted, err := format.Source(src, opts)
			if err != nil {
				return fmt.Errorf("format %s: %w", path, err)
			}
			results[i] = fmtResult{path: path, formatted: formatted, changed: !bytes.Equal(src, formatted)}
			log.Debugf("formatted %s (changed: %t)", path, results[i].changed)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func fmtPaths(ctx context.Context, out, errOut io.Writer, args []string, flags fmtFlags, r *optionResolver) error {
	if ctx == nil {
		ctx = context.Background()
	}
	files, err := expandPaths(args)
	if err != nil {
		return err
	}
	results, err := formatFiles(ctx, files, flags.jobs, r)
	if err != nil {
		return err
	}

	unformatted := 0
	for _, res := range results {
		if res.changed {
			unformatted++
		}
		if flags.check {
			if res.changed {
				changedStyle.Fprint(errOut, "would reformat ")
				fmt.Fprintln(errOut, res.path)
			}
			continue
		}
		if !flags.list && !flags.write {
			if _, err := out.Write(res.formatted); err != nil {
				return err
			}
			continue
		}
		if !res.changed {
			continue
		}
		if flags.list {
			fmt.Fprintln(out, res.path)
		}
		if flags.write {
			if err := os.WriteFile(res.path, res.formatted, 0644); err != nil {
				return fmt.Errorf("write file: %w", err)
			}
			log.Infof("reformatted %s", res.path)
		}
	}

	if flags.check {
		if unformatted > 0 {
			errorStyle.Fprintf(errOut, "%d of %d files would be reformatted\n", unformatted, len(results))
			return errUnformatted
		}
		okStyle.Fprintf(errOut, "%d files already formatted\n", len(results))
	}
	return nil
}
