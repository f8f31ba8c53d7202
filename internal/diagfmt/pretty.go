package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"ferro/internal/diag"
	"ferro/internal/source"
)

type prettyPalette struct {
	err    *color.Color
	warn   *color.Color
	info   *color.Color
	bold   *color.Color
	gutter *color.Color
	help   *color.Color
}

func newPalette(enabled bool) prettyPalette {
	p := prettyPalette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		bold:   color.New(color.Bold),
		gutter: color.New(color.FgBlue, color.Bold),
		help:   color.New(color.FgGreen),
	}
	if !enabled {
		for _, c := range []*color.Color{p.err, p.warn, p.info, p.bold, p.gutter, p.help} {
			c.DisableColor()
		}
	}
	return p
}

func (p prettyPalette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty renders diagnostics for terminals. For each diagnostic it prints
//
//	<path>:<line>:<col>: <severity>[<CODE>]: <message>
//
// followed by the source line with a caret underline covering the primary
// span, then notes and fix suggestions when enabled. The caller is expected
// to have sorted the bag.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for _, d := range bag.Items() {
		writePrettyDiagnostic(w, d, fs, opts, pal)
	}
}

func writePrettyDiagnostic(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal prettyPalette) {
	sevColor := pal.severity(d.Severity)
	start, _ := fs.Resolve(d.Primary)
	path := formatPrettyPath(fs, d.Primary.File, opts.PathMode)

	fmt.Fprintf(w, "%s: %s: %s\n",
		pal.bold.Sprintf("%s:%d:%d", path, start.Line, start.Col),
		sevColor.Sprintf("%s[%s]", d.Severity.String(), d.Code.ID()),
		pal.bold.Sprint(d.Message),
	)
	writeSnippet(w, fs, d.Primary, "", opts, pal, sevColor)

	if opts.ShowNotes {
		for _, note := range d.Notes {
			writeSnippet(w, fs, note.Span, note.Msg, opts, pal, pal.info)
		}
	}
	if opts.ShowFixes {
		ctx := diag.FixBuildContext{FileSet: fs}
		fixes, err := diag.MaterializeFixes(ctx, d.Fixes)
		if err != nil {
			fixes = d.Fixes
		}
		for _, f := range fixes {
			rendered := ""
			if len(f.Edits) == 1 && f.Edits[0].NewText != "" {
				rendered = fmt.Sprintf(": `%s`", f.Edits[0].NewText)
			}
			fmt.Fprintf(w, "  %s %s%s (%s)\n",
				pal.gutter.Sprint("="),
				pal.help.Sprintf("help: %s", f.Title),
				rendered,
				f.Applicability.String(),
			)
		}
	}
	fmt.Fprintln(w)
}

// writeSnippet prints one annotated source line:
//
//	  12 | let x = nmuber;
//	     |         ^^^^^^ message
//
// Underline alignment accounts for rune display width, so wide characters
// in the prefix do not skew the carets.
func writeSnippet(w io.Writer, fs *source.FileSet, span source.Span, msg string, opts PrettyOpts, pal prettyPalette, caretColor *color.Color) {
	file := fs.Get(span.File)
	if file == nil || file.Flags&source.FileSynthetic != 0 {
		if msg != "" {
			fmt.Fprintf(w, "  %s %s\n", pal.gutter.Sprint("="), pal.info.Sprintf("note: %s", msg))
		}
		return
	}
	start, end := fs.Resolve(span)
	line := file.GetLine(start.Line)
	if line == "" && msg != "" {
		fmt.Fprintf(w, "  %s %s\n", pal.gutter.Sprint("="), pal.info.Sprintf("note: %s", msg))
		return
	}

	lineNo := fmt.Sprintf("%4d", start.Line)
	display := line
	if opts.Width > 0 {
		display = runewidth.Truncate(display, int(opts.Width), "…")
	}
	fmt.Fprintf(w, "%s %s %s\n", pal.gutter.Sprint(lineNo), pal.gutter.Sprint("|"), display)

	prefixBytes := int(start.Col) - 1
	if prefixBytes > len(line) {
		prefixBytes = len(line)
	}
	caretBytes := len(line) - prefixBytes
	if start.Line == end.Line {
		caretBytes = int(end.Col) - int(start.Col)
	}
	if caretBytes < 1 {
		caretBytes = 1
	}
	if prefixBytes+caretBytes > len(line) {
		caretBytes = len(line) - prefixBytes
		if caretBytes < 1 {
			caretBytes = 1
		}
	}

	pad := runewidth.StringWidth(line[:prefixBytes])
	caretWidth := runewidth.StringWidth(line[prefixBytes : prefixBytes+min(caretBytes, len(line)-prefixBytes)])
	if caretWidth < 1 {
		caretWidth = 1
	}
	underline := strings.Repeat(" ", pad) + caretColor.Sprint("^"+strings.Repeat("~", caretWidth-1))
	if msg != "" {
		underline += " " + caretColor.Sprint(msg)
	}
	fmt.Fprintf(w, "%s %s %s\n", strings.Repeat(" ", 4), pal.gutter.Sprint("|"), underline)
}

func formatPrettyPath(fs *source.FileSet, id source.FileID, mode PathMode) string {
	f := fs.Get(id)
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	default:
		return f.FormatPath("auto", fs.BaseDir())
	}
}
