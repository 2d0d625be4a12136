package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dhamidi/asfmt/actionscript/outline"
	"github.com/dhamidi/asfmt/actionscript/parser"
	"github.com/dhamidi/asfmt/format"
)

// readSource reads the named file, or stdin for "-" or no argument.
func readSource(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		src, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return src, nil
	}
	src, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return src, nil
}

func newParseCmd() *cobra.Command {
	var outputFormat string
	var keepWhitespace bool

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse an .as file and dump its syntax tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(cmd, args)
			if err != nil {
				return err
			}
			root := parser.Parse(src)

			out := cmd.OutOrStdout()
			switch outputFormat {
			case "json":
				enc := format.NewTreeJSONEncoder(out)
				enc.KeepWhitespace = keepWhitespace
				if err := enc.Encode(root, src); err != nil {
					return fmt.Errorf("encode json: %w", err)
				}
			case "tree":
				fmt.Fprint(out, root.String(src))
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			for _, d := range parser.Diagnose(src, parser.Tokenize(src)) {
				log.Warning(d.String())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", "output format (tree, json)")
	cmd.Flags().BoolVar(&keepWhitespace, "whitespace", false, "include whitespace leaves in json output")

	return cmd
}

var categoryStyles = map[parser.Category]*color.Color{
	parser.CategoryKeyword:     color.New(color.FgMagenta, color.Bold),
	parser.CategoryIdentifier:  color.New(color.FgWhite),
	parser.CategoryString:      color.New(color.FgGreen),
	parser.CategoryNumber:      color.New(color.FgCyan),
	parser.CategoryComment:     color.New(color.FgHiBlack),
	parser.CategoryOperator:    color.New(color.FgYellow),
	parser.CategoryPunctuation: color.New(color.FgBlue),
	parser.CategoryBadChar:     color.New(color.FgRed, color.Bold),
}

func newTokensCmd() *cobra.Command {
	var asJSON bool
	var trivia bool
	var highlight bool

	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Dump the token stream of an .as file",
		Long: `Dump the token stream of an .as file, one token per line:

	line:column	kind	category	"text"

With --highlight, prints the source itself coloured by token category.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(cmd, args)
			if err != nil {
				return err
			}
			tokens := parser.Tokenize(src)
			out := cmd.OutOrStdout()

			switch {
			case asJSON:
				return format.NewTokenJSONEncoder(out).Encode(tokens, src)
			case highlight:
				for _, tok := range tokens {
					text := tok.Text(src)
					if style, ok := categoryStyles[tok.Kind.Category()]; ok {
						style.Fprint(out, text)
					} else {
						fmt.Fprint(out, text)
					}
				}
				return nil
			default:
				enc := format.NewTokenLineEncoder(out)
				enc.Trivia = trivia
				return enc.Encode(tokens, src)
			}
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output JSON")
	cmd.Flags().BoolVar(&trivia, "trivia", false, "include whitespace tokens")
	cmd.Flags().BoolVar(&highlight, "highlight", false, "print the source coloured by token category")

	return cmd
}

func newOutlineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "outline [file]",
		Short: "List the declarations of an .as file",
		Long: `List the declarations of an .as file, one per line:

	kind	name	type	parameters	visibility	modifiers`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(cmd, args)
			if err != nil {
				return err
			}
			return format.NewOutlineLineEncoder(cmd.OutOrStdout()).Encode(outline.Of(parser.Parse(src), src))
		},
	}
}
