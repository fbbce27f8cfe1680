package output

import (
	"os"
	"testing"
	"time"

	"github.com/masmgr/changed-files-go/internal/changes"
)

func readTestFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func sampleReport() *ChangeReport {
	results := map[string][]changes.DiffFile{
		"added_files":    {{Path: "src/new.go", Kind: changes.Added}},
		"deleted_files":  {{Path: "old.txt", Kind: changes.Deleted}},
		"modified_files": {{Path: "src/main.go", Kind: changes.Modified}, {Path: "core.c", Kind: changes.Modified, Submodule: "libs/core"}},
		"renamed_files":  {{Path: "docs/guide.md", Kind: changes.Renamed, OldPath: "docs/intro.md"}},
	}
	for _, set := range changes.ResultSets {
		if _, ok := results[set.Key]; ok {
			continue
		}
		var files []changes.DiffFile
		for _, key := range []string{"added_files", "deleted_files", "modified_files", "renamed_files"} {
			for _, f := range results[key] {
				if set.Kinds.Has(f.Kind) {
					files = append(files, f)
				}
			}
		}
		results[set.Key] = files
	}

	report := NewChangeReport("/repo", changes.RangeContext{
		Previous: "1111111111111111111111111111111111111111",
		Current:  "2222222222222222222222222222222222222222",
		Operator: changes.ThreeDot,
	}, nil, results)
	report.GeneratedAt = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return report
}

func defaultValueOptions() ValueOptions {
	return ValueOptions{
		Separator:            " ",
		OldNewSeparator:      ",",
		OldNewFilesSeparator: " ",
	}
}

func TestEscapeMarkdown(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "PlainText", input: "hello", want: "hello"},
		{name: "Pipe", input: "a|b", want: "a\\|b"},
		{name: "Asterisk", input: "*bold*", want: "\\*bold\\*"},
		{name: "Underscore", input: "_italic_", want: "\\_italic\\_"},
		{name: "Backtick", input: "`code`", want: "\\`code\\`"},
		{name: "Empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := escapeMarkdown(tt.input); got != tt.want {
				t.Errorf("escapeMarkdown(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStatusEmoji(t *testing.T) {
	tests := []struct {
		letter string
		want   string
	}{
		{letter: "A", want: "🟢"},
		{letter: "D", want: "🔴"},
		{letter: "M", want: "🟡"},
		{letter: "T", want: "🟡"},
		{letter: "R", want: "⚪"},
	}
	for _, tt := range tests {
		if got := statusEmoji(tt.letter); got != tt.want {
			t.Errorf("statusEmoji(%q) = %q, want %q", tt.letter, got, tt.want)
		}
	}
}
