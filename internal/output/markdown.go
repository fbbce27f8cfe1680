package output

import (
	"fmt"
	"strings"
)

// MarkdownWriter writes change reports as Markdown, suitable for a job summary.
type MarkdownWriter struct{}

// Write outputs the change report as Markdown.
func (w *MarkdownWriter) Write(report *ChangeReport, options OutputOptions) error {
	out, file, err := openAppendWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	fmt.Fprintln(out, "# Changed Files")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "**Repository:** %s\n\n", report.RepoPath)
	if report.InitialCommit {
		fmt.Fprintln(out, "Initial commit detected, no range to compare.")
		return nil
	}
	fmt.Fprintf(out, "**Range:** `%s`\n\n", report.Range.String())

	files := report.Set(allChangedAndModifiedKey)
	fmt.Fprintf(out, "**Total Changed Files:** %d\n\n", len(files))

	if len(files) > 0 {
		fmt.Fprintln(out, "| # | Status | Path | Old Path |")
		fmt.Fprintln(out, "|---|--------|------|----------|")
		for i, f := range files {
			oldPath := ""
			if f.OldPath != "" {
				oldPath = "`" + escapeMarkdown(f.OldPath) + "`"
			}
			fmt.Fprintf(out, "| %d | %s %s | `%s` | %s |\n",
				i+1, statusEmoji(f.Kind.Letter()), f.Kind.Letter(), escapeMarkdown(f.FullPath()), oldPath)
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, "| Output | Count |")
	fmt.Fprintln(out, "|--------|-------|")
	for _, set := range report.Sets {
		fmt.Fprintf(out, "| %s | %d |\n", escapeMarkdown(set.Key), len(SetPaths(set.Files, options.Values)))
	}
	fmt.Fprintln(out)

	return nil
}

func statusEmoji(letter string) string {
	switch letter {
	case "A":
		return "🟢"
	case "D":
		return "🔴"
	case "M", "T":
		return "🟡"
	default:
		return "⚪"
	}
}

func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		"|", "\\|",
		"*", "\\*",
		"_", "\\_",
		"`", "\\`",
	)
	return replacer.Replace(s)
}
