package reporting

import (
	"fmt"
	"io"
	"strings"

	"github.com/dialogeval/humanstudy/internal/models"
	"github.com/mattn/go-runewidth"
)

const (
	imageColWidth   = 24
	minTextColWidth = 20
)

// RenderTable prints one line per dialog round, grouped by image, fitted to a
// terminal of the given width.
func RenderTable(w io.Writer, doc *models.OutputDocument, width int) {
	textWidth := max((width-imageColWidth-10)/2, minTextColWidth)

	fmt.Fprintf(w, "%s  %s  %s  %s\n", //nolint:errcheck
		padRight("IMAGE", imageColWidth), padRight("#", 3),
		padRight("QUESTION", textWidth), "ANSWER")
	fmt.Fprintln(w, strings.Repeat("─", imageColWidth+textWidth*2+9)) //nolint:errcheck

	for _, tr := range doc.Data {
		fmt.Fprintf(w, "%s  %s  %s\n", //nolint:errcheck
			padRight(truncate(tr.ImageID, imageColWidth), imageColWidth), padRight("", 3),
			truncate("caption: "+tr.Caption, textWidth*2))
		for i, ex := range tr.Dialog {
			fmt.Fprintf(w, "%s  %s  %s  %s\n", //nolint:errcheck
				padRight("", imageColWidth), padRight(fmt.Sprint(i+1), 3),
				padRight(truncate(strings.TrimSpace(ex.Question), textWidth), textWidth),
				truncate(ex.Answer, textWidth))
		}
	}

	fmt.Fprintf(w, "\n%d dialogs · qbot %s · abot %s · beam %d\n", //nolint:errcheck
		len(doc.Data), doc.Opts.QuestionerCheckpoint, doc.Opts.AnswererCheckpoint, doc.Opts.BeamSize)
}

// truncate shortens s to maxWidth display cells, ending with "…" when cut.
func truncate(s string, maxWidth int) string {
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth, "…")
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}
