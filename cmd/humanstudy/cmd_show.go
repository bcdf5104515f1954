package main

import (
	"fmt"
	"os"

	"github.com/dialogeval/humanstudy/internal/reporting"
	"github.com/dialogeval/humanstudy/internal/results"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const defaultTableWidth = 120

func newShowCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <results.json>",
		Short: "Display generated transcripts",
		Long: `Display the transcripts in a results.json file.

Formats:
  table     One line per round, sized to the terminal (default)
  markdown  Review document for study operators
  html      The markdown review document rendered as a standalone page`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := results.Load(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "table":
				reporting.RenderTable(out, doc, terminalWidth())
			case "markdown", "md":
				fmt.Fprint(out, reporting.RenderMarkdown(doc)) //nolint:errcheck
			case "html":
				return reporting.RenderHTML(out, doc)
			default:
				return fmt.Errorf("unknown format %q (want table, markdown or html)", format)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "Output format: table, markdown, html")

	return cmd
}

func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultTableWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return defaultTableWidth
	}
	return w
}
