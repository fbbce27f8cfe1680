package output

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/masmgr/changed-files-go/internal/changes"
)

const allChangedAndModifiedKey = "all_changed_and_modified_files"

// ConsoleWriter writes change reports to the console.
type ConsoleWriter struct{}

// Write prints the range header, the changed file table and per-set counts.
func (w *ConsoleWriter) Write(report *ChangeReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	header := color.New(color.FgGreen)
	header.Fprintln(out, "Changed Files")
	fmt.Fprintf(out, "Repository: %s\n", report.RepoPath)
	if report.InitialCommit {
		fmt.Fprintln(out, "Range: initial commit")
		return nil
	}
	fmt.Fprintf(out, "Range: %s%s%s\n", shortSHA(report.Range.Previous), report.Range.Operator, shortSHA(report.Range.Current))

	files := report.Set(allChangedAndModifiedKey)
	fmt.Fprintf(out, "Total: %s %s\n\n", humanize.Comma(int64(len(files))), english.PluralWord(len(files), "file", ""))

	if len(files) > 0 {
		fmt.Fprintln(out, renderFileTable(files))
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, renderCountTable(report, options.Values))
	return nil
}

func renderFileTable(files []changes.DiffFile) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"#", "Status", "Path", "Old Path", "Submodule"})
	for i, f := range files {
		tbl.AppendRow(table.Row{i + 1, f.Kind.Letter(), f.FullPath(), f.OldPath, f.Submodule})
	}
	return tbl.Render()
}

func renderCountTable(report *ChangeReport, opts ValueOptions) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateColumns = false
	tbl.AppendHeader(table.Row{"Output", "Count"})

	for _, set := range report.Sets {
		n := len(SetPaths(set.Files, opts))
		tbl.AppendRow(table.Row{set.Key, english.Plural(n, "path", "")})
	}
	tbl.AppendFooter(table.Row{"Sets", humanize.Comma(int64(len(report.Sets)))})
	return tbl.Render()
}
