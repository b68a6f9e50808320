package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

var (
	HeaderColor  = color.New(color.FgBlue, color.Bold)
	InfoColor    = color.New(color.FgCyan)
	SuccessColor = color.New(color.FgGreen)
	WarningColor = color.New(color.FgYellow)
	ErrorColor   = color.New(color.FgRed)
	PathColor    = color.New(color.FgYellow)
	PromptColor  = color.New(color.FgMagenta)
	FaintColor   = color.New(color.Faint)
)

// Out and Err are the data and message streams.
var (
	Out io.Writer = os.Stdout
	Err io.Writer = os.Stderr
)

// SetColor forces colour on or off. Without a call fatih/color decides from
// the terminal and NO_COLOR.
func SetColor(enabled bool) {
	color.NoColor = !enabled
}

func Header(format string, a ...interface{}) {
	HeaderColor.Fprintf(Err, format+"\n", a...)
}

func Info(format string, a ...interface{}) {
	InfoColor.Fprintf(Err, format+"\n", a...)
}

func Success(format string, a ...interface{}) {
	SuccessColor.Fprintf(Err, format+"\n", a...)
}

func Warning(format string, a ...interface{}) {
	WarningColor.Fprintf(Err, format+"\n", a...)
}

func Error(format string, a ...interface{}) {
	ErrorColor.Fprintf(Err, format+"\n", a...)
}

func Path(format string, a ...interface{}) {
	PathColor.Fprintf(Err, "  "+format+"\n", a...)
}

func Prompt(format string, a ...interface{}) string {
	return PromptColor.Sprintf(format, a...)
}

// Confirm asks a y/N question on stderr and reads the answer from in.
func Confirm(in io.Reader, question string) bool {
	fmt.Fprint(Err, Prompt("%s (y/N): ", question))
	response, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.TrimSpace(strings.ToLower(response)) {
	case "y", "yes":
		return true
	}
	return false
}

// --- Tables ---

// Row is one line of the preview table.
type Row struct {
	Old       string
	New       string
	Unchanged bool
}

// maxColumn caps the width of the left column so long names do not push the
// arrow off screen.
const maxColumn = 60

// PreviewTable writes rows as two aligned columns. Widths are measured in
// terminal cells so CJK names line up.
func PreviewTable(w io.Writer, rows []Row) {
	width := 0
	for _, r := range rows {
		width = max(width, runewidth.StringWidth(r.Old))
	}
	width = min(width, maxColumn)

	for _, r := range rows {
		left := runewidth.FillRight(runewidth.Truncate(r.Old, width, "…"), width)
		if r.Unchanged {
			fmt.Fprintf(w, "  %s   %s\n", left, FaintColor.Sprint("(unchanged)"))
			continue
		}
		fmt.Fprintf(w, "  %s → %s\n", left, SuccessColor.Sprint(r.New))
	}
}

// PlanText renders rows as plain "old -> new" lines.
func PlanText(rows []Row) string {
	var b strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&b, "%s -> %s\n", r.Old, r.New)
	}
	return b.String()
}

// --- Summaries ---

func PrintRenameSummary(renamed, unchanged, failed []string) {
	Header("\n--- Rename Summary ---")

	if len(renamed) == 0 && len(unchanged) == 0 && len(failed) == 0 {
		Info("No files were renamed.")
		return
	}
	if len(renamed) > 0 {
		Success("Renamed %d file(s):", len(renamed))
		for _, f := range renamed {
			fmt.Fprintf(Out, "  - %s\n", f)
		}
	}
	if len(unchanged) > 0 {
		Info("%d file(s) unchanged.", len(unchanged))
	}
	if len(failed) > 0 {
		Error("Failed to rename %d file(s):", len(failed))
		for _, f := range failed {
			fmt.Fprintf(Out, "  - %s\n", f)
		}
	}
}

func PrintUndoSummary(message string, restored, failed []string) {
	Header("\n--- Undo Summary ---")
	Info("%s", message)
	if len(restored) > 0 {
		Success("Restored %d file(s):", len(restored))
		for _, f := range restored {
			fmt.Fprintf(Out, "  - %s\n", f)
		}
	}
	if len(failed) > 0 {
		Error("Failed to restore %d file(s):", len(failed))
		for _, f := range failed {
			fmt.Fprintf(Out, "  - %s\n", f)
		}
	}
}
