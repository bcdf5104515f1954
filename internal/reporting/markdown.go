package reporting

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dialogeval/humanstudy/internal/models"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// RenderMarkdown formats the transcripts as a review document for study
// operators.
func RenderMarkdown(doc *models.OutputDocument) string {
	var b strings.Builder

	b.WriteString("# Dialog transcripts\n\n")
	fmt.Fprintf(&b, "| qbot | abot | beam | decoder | encoder |\n")
	fmt.Fprintf(&b, "|---|---|---|---|---|\n")
	fmt.Fprintf(&b, "| %s | %s | %d | %s | %s |\n\n",
		escapeCell(doc.Opts.QuestionerCheckpoint), escapeCell(doc.Opts.AnswererCheckpoint),
		doc.Opts.BeamSize, escapeCell(doc.Opts.Decoder), escapeCell(doc.Opts.Encoder))

	for _, tr := range doc.Data {
		fmt.Fprintf(&b, "## %s\n\n", escapeInline(tr.ImageID))
		fmt.Fprintf(&b, "*%s*\n\n", escapeInline(tr.Caption))
		for i, ex := range tr.Dialog {
			fmt.Fprintf(&b, "%d. **Q:** %s  \n   **A:** %s\n", i+1,
				escapeInline(strings.TrimSpace(ex.Question)), escapeInline(ex.Answer))
		}
		if len(tr.ImagePool) > 0 {
			fmt.Fprintf(&b, "\nPool: %s\n", escapeInline(strings.Join(tr.ImagePool, ", ")))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// RenderHTML converts the markdown review document to a standalone HTML page.
func RenderHTML(w io.Writer, doc *models.OutputDocument) error {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	var body bytes.Buffer
	if err := md.Convert([]byte(RenderMarkdown(doc)), &body); err != nil {
		return fmt.Errorf("render html: %w", err)
	}

	_, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>Dialog transcripts</title></head>\n<body>\n%s</body></html>\n", body.String())
	return err
}

var inlineEscaper = strings.NewReplacer(
	`\`, `\\`, `*`, `\*`, `_`, `\_`, "`", "\\`", `#`, `\#`,
	`[`, `\[`, `]`, `\]`, `<`, `\<`, `>`, `\>`,
)

func escapeInline(s string) string {
	return inlineEscaper.Replace(s)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(escapeInline(s), "|", `\|`)
}
