package output

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/masmgr/changed-files-go/internal/changes"
)

func TestJSONWriter_Write(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "report.json")
	options := OutputOptions{Format: FormatJSON, OutputPath: tmpFile, Values: defaultValueOptions()}

	if err := (&JSONWriter{}).Write(sampleReport(), options); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := readTestFile(tmpFile)
	if err != nil {
		t.Fatal(err)
	}
	var got JSONReport
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, data)
	}

	if got.Operator != "..." || got.Previous == "" || got.Current == "" {
		t.Errorf("range = %s %s %s", got.Previous, got.Operator, got.Current)
	}
	if got.GeneratedAt != "2026-03-01T00:00:00" {
		t.Errorf("GeneratedAt = %q", got.GeneratedAt)
	}
	if len(got.Sets) != len(changes.ResultSets) {
		t.Errorf("len(Sets) = %d, expected %d", len(got.Sets), len(changes.ResultSets))
	}
	if files := got.Sets["modified_files"]; len(files) != 2 || files[1] != "libs/core/core.c" {
		t.Errorf("Sets[modified_files] = %v", files)
	}
	if got.Outputs[KeyAnyChanged] != "true" {
		t.Errorf("Outputs[any_changed] = %q", got.Outputs[KeyAnyChanged])
	}
	if len(got.Files) != 5 {
		t.Fatalf("len(Files) = %d, expected 5", len(got.Files))
	}
	renamed := got.Files[4]
	if renamed.Status != "R" || renamed.Kind != "renamed" || renamed.OldPath != "docs/intro.md" {
		t.Errorf("renamed file = %+v", renamed)
	}
}

func TestJSONWriter_InitialCommit(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "report.json")
	report := &ChangeReport{RepoPath: "/repo", InitialCommit: true}

	if err := (&JSONWriter{}).Write(report, OutputOptions{OutputPath: tmpFile}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	data, err := readTestFile(tmpFile)
	if err != nil {
		t.Fatal(err)
	}
	var got JSONReport
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if !got.InitialCommit || got.Operator != "" || got.Files == nil {
		t.Errorf("report = %+v", got)
	}
}

func TestCSVWriter_Write(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "report.csv")
	options := OutputOptions{Format: FormatCSV, OutputPath: tmpFile, Values: defaultValueOptions()}

	if err := (&CSVWriter{}).Write(sampleReport(), options); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	file, err := os.Open(tmpFile)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	if len(records) != 6 {
		t.Fatalf("len(records) = %d, expected header plus 5 rows", len(records))
	}
	if strings.Join(records[0], ",") != "Status,Kind,Path,OldPath,Submodule" {
		t.Errorf("header = %v", records[0])
	}
	sub := records[4]
	if sub[2] != "libs/core/core.c" || sub[4] != "libs/core" {
		t.Errorf("submodule row = %v", sub)
	}
}

func TestCSVWriter_Relative(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "report.csv")
	opts := defaultValueOptions()
	opts.Relative = "src"

	if err := (&CSVWriter{}).Write(sampleReport(), OutputOptions{OutputPath: tmpFile, Values: opts}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	data, err := readTestFile(tmpFile)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 || !strings.Contains(lines[1], ",new.go,") {
		t.Errorf("output = %q", data)
	}
}

func TestMarkdownWriter_Write(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "summary.md")
	options := OutputOptions{Format: FormatMarkdown, OutputPath: tmpFile, Values: defaultValueOptions()}

	if err := (&MarkdownWriter{}).Write(sampleReport(), options); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	data, err := readTestFile(tmpFile)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)

	for _, want := range []string{
		"# Changed Files",
		"**Total Changed Files:** 5",
		"| 5 | ⚪ R | `docs/guide.md` | `docs/intro.md` |",
		"| all\\_modified\\_files | 5 |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestMarkdownWriter_InitialCommit(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "summary.md")
	report := &ChangeReport{RepoPath: "/repo", InitialCommit: true}
	if err := (&MarkdownWriter{}).Write(report, OutputOptions{OutputPath: tmpFile}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	data, err := readTestFile(tmpFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Initial commit detected") || strings.Contains(string(data), "| Output |") {
		t.Errorf("output = %q", data)
	}
}

func TestConsoleWriter_Write(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "console.txt")
	options := OutputOptions{Format: FormatConsole, OutputPath: tmpFile, Values: defaultValueOptions()}

	if err := (&ConsoleWriter{}).Write(sampleReport(), options); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	data, err := readTestFile(tmpFile)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)

	for _, want := range []string{
		"Changed Files",
		"Range: 1111111...2222222",
		"Total: 5 files",
		"docs/intro.md",
		"libs/core/core.c",
		"all_modified_files",
		"5 paths",
		"1 path",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConsoleWriter_InitialCommit(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "console.txt")
	report := &ChangeReport{RepoPath: "/repo", InitialCommit: true}
	if err := (&ConsoleWriter{}).Write(report, OutputOptions{OutputPath: tmpFile}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	data, err := readTestFile(tmpFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Range: initial commit") {
		t.Errorf("output = %q", data)
	}
}

func TestWriteOutputFiles(t *testing.T) {
	tests := []struct {
		name string
		json bool
		ext  string
		want string
	}{
		{name: "Text", ext: ".txt", want: "src/main.go libs/core/core.c"},
		{name: "JSON", json: true, ext: ".json", want: `["src/main.go","libs/core/core.c"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "outputs")
			opts := defaultValueOptions()
			opts.JSON = tt.json

			written, err := WriteOutputFiles(sampleReport(), opts, dir)
			if err != nil {
				t.Fatalf("WriteOutputFiles() error = %v", err)
			}
			if len(written) != len(changes.ResultSets) {
				t.Errorf("wrote %d files, expected %d", len(written), len(changes.ResultSets))
			}

			data, err := readTestFile(filepath.Join(dir, "modified_files"+tt.ext))
			if err != nil {
				t.Fatal(err)
			}
			if string(data) != tt.want {
				t.Errorf("modified_files = %q, want %q", data, tt.want)
			}
			if _, err := os.Stat(filepath.Join(dir, "any_changed"+tt.ext)); !os.IsNotExist(err) {
				t.Error("boolean outputs should not be written as files")
			}
		})
	}
}
