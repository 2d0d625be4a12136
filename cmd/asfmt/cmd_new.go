package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/dhamidi/asfmt/actionscript/parser"
	"github.com/dhamidi/asfmt/config"
	"github.com/dhamidi/asfmt/format"
	"github.com/dhamidi/asfmt/project"
)

func newNewCmd() *cobra.Command {
	var dir string
	var extends string
	var iface bool

	cmd := &cobra.Command{
		Use:   "new <Name>",
		Short: "Create a class or interface skeleton",
		Long: `Create <dir>/<Name>.as containing an empty public class, or an
interface with -i. The package is derived from the directory's position
below the project's src directory, and the file is laid out with the
project's formatter configuration.

Examples:
  asfmt new Player -d src/com/example     # package com.example
  asfmt new IShape -i -d src/geom`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if !isIdentifier(name) {
				return fmt.Errorf("%q is not a valid class name", name)
			}
			if extends != "" && !isQualifiedName(extends) {
				return fmt.Errorf("--extends: %q is not a valid type name", extends)
			}

			proj, err := project.Load()
			if err != nil {
				return err
			}
			path := filepath.Join(dir, name+project.Extension)
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}

			src := skeleton(proj.PackageFor(dir), name, extends, iface)
			cfg, err := config.ForDir(dir)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out, err := format.Source([]byte(src), cfg.Options())
			if err != nil {
				return fmt.Errorf("format: %w", err)
			}

			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("create directory: %w", err)
			}
			if err := os.WriteFile(path, out, 0644); err != nil {
				return fmt.Errorf("write file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "directory to create the file in")
	cmd.Flags().StringVarP(&extends, "extends", "e", "", "base class or interface")
	cmd.Flags().BoolVarP(&iface, "interface", "i", false, "create an interface")

	return cmd
}

// skeleton returns unformatted source for a new type; the formatter supplies
// the layout.
func skeleton(pkg, name, extends string, iface bool) string {
	var sb strings.Builder
	sb.WriteString("package")
	if pkg != "" {
		sb.WriteString(" " + pkg)
	}
	sb.WriteString("{\n")
	if iface {
		sb.WriteString("public interface " + name)
	} else {
		sb.WriteString("public class " + name)
	}
	if extends != "" {
		sb.WriteString(" extends " + extends)
	}
	sb.WriteString("{\n")
	if !iface {
		sb.WriteString("public function " + name + "(){\n}\n")
	}
	sb.WriteString("}\n}\n")
	return sb.String()
}

// isIdentifier reports whether s lexes as a single identifier token.
func isIdentifier(s string) bool {
	if s == "" || parser.LookupKeyword(s) != parser.TokenIdent {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

// isQualifiedName accepts a type name with an optional package prefix, such
// as flash.display.Sprite.
func isQualifiedName(s string) bool {
	for _, part := range strings.Split(s, ".") {
		if !isIdentifier(part) {
			return false
		}
	}
	return true
}
