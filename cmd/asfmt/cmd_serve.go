package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dhamidi/asfmt/actionscript/codebase"
	"github.com/dhamidi/asfmt/ui"
)

func newLSPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := codebase.NewLSPServer(version)
			return server.RunStdio()
		},
	}
}

func newWatchCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Reformat .as files whenever they change",
		Long: `Watch a directory tree and rewrite .as files in place as soon as they
are saved. Use --dry-run to only report files that would change.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, dir, dryRun)
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "report files that would change without writing them")

	return cmd
}

func runWatch(ctx context.Context, dir string, dryRun bool) error {
	cb := codebase.New(dir)
	if err := cb.ScanAll(); err != nil {
		return fmt.Errorf("scan %s: %w", dir, err)
	}
	log.Infof("watching %d files under %s", len(cb.Paths()), dir)

	w, err := codebase.NewFileWatcher(cb)
	if err != nil {
		return err
	}
	w.OnChange = func(path string) {
		out, changed, err := cb.Format(path)
		if err != nil {
			log.Errorf("%s", err.Error())
			return
		}
		if !changed {
			return
		}
		if dryRun {
			changedStyle.Printf("would reformat %s\n", path)
			return
		}
		// the editor may have saved again since the scan
		f := cb.GetFile(path)
		if current, err := os.ReadFile(path); err != nil || f == nil || !bytes.Equal(current, f.Content) {
			return
		}
		if err := os.WriteFile(path, out, 0644); err != nil {
			log.Errorf("write %s: %s", path, err.Error())
			return
		}
		cb.UpdateFile(path, out)
		okStyle.Printf("reformatted %s\n", path)
	}
	w.OnRemove = func(path string) {
		log.Debugf("removed %s", path)
	}

	if err := w.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return w.Stop()
}

func newUICmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "ui [dir]",
		Short: "Start the formatter playground in the browser",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			cb := codebase.New(dir)
			if err := cb.ScanAll(); err != nil {
				return fmt.Errorf("scan %s: %w", dir, err)
			}

			server, err := ui.NewServer(cb)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Serving %d files on http://localhost%s\n", len(cb.Paths()), addr)
			return http.ListenAndServe(addr, server)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "address to listen on")

	return cmd
}
