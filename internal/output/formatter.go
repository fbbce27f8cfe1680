package output

import (
	"time"

	"github.com/masmgr/changed-files-go/internal/changes"
)

// Compile-time interface conformance checks.
var (
	_ ReportWriter = (*ConsoleWriter)(nil)
	_ ReportWriter = (*JSONWriter)(nil)
	_ ReportWriter = (*CSVWriter)(nil)
	_ ReportWriter = (*MarkdownWriter)(nil)
	_ ReportWriter = (*CIWriter)(nil)
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	FormatConsole  OutputFormat = "console"
	FormatJSON     OutputFormat = "json"
	FormatCSV      OutputFormat = "csv"
	FormatMarkdown OutputFormat = "markdown"
	FormatCI       OutputFormat = "ci"
)

// OutputOptions controls output behavior.
type OutputOptions struct {
	Format     OutputFormat
	OutputPath string
	Values     ValueOptions
}

// ValueOptions controls how file lists are rendered into output values.
type ValueOptions struct {
	Separator                    string
	OldNewSeparator              string
	OldNewFilesSeparator         string
	IncludeAllOldNewRenamedFiles bool
	DirNames                     bool
	DirNamesMaxDepth             int
	DirNamesExcludeRoot          bool
	JSON                         bool
	// Relative drops paths outside this directory and strips it from the rest.
	Relative string
}

// SetResult is one reported result set.
type SetResult struct {
	Key   string
	Files []changes.DiffFile
}

// ChangeReport holds the changed files of one run.
type ChangeReport struct {
	RepoPath      string
	Range         changes.RangeContext
	InitialCommit bool
	GeneratedAt   time.Time
	Sets          []SetResult
}

// NewChangeReport orders set results by sets, defaulting to changes.ResultSets.
func NewChangeReport(repoPath string, rc changes.RangeContext, sets []changes.ResultSet, results map[string][]changes.DiffFile) *ChangeReport {
	if sets == nil {
		sets = changes.ResultSets
	}
	report := &ChangeReport{RepoPath: repoPath, Range: rc, GeneratedAt: time.Now()}
	for _, set := range sets {
		report.Sets = append(report.Sets, SetResult{Key: set.Key, Files: results[set.Key]})
	}
	return report
}

// Set returns the files of the named set.
func (r *ChangeReport) Set(key string) []changes.DiffFile {
	for _, s := range r.Sets {
		if s.Key == key {
			return s.Files
		}
	}
	return nil
}

// ReportWriter writes change reports.
type ReportWriter interface {
	Write(report *ChangeReport, options OutputOptions) error
}

// NewReportWriter creates a report writer for the specified format.
func NewReportWriter(format OutputFormat) ReportWriter {
	switch format {
	case FormatJSON:
		return &JSONWriter{}
	case FormatCSV:
		return &CSVWriter{}
	case FormatMarkdown:
		return &MarkdownWriter{}
	case FormatCI:
		return &CIWriter{}
	default:
		return &ConsoleWriter{}
	}
}
