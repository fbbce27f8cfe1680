package output

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/masmgr/changed-files-go/internal/changes"
)

// JSONWriter writes change reports as a single JSON document.
type JSONWriter struct{}

// JSONReport is the JSON output structure for a change report.
type JSONReport struct {
	RepoPath      string              `json:"repo"`
	Previous      string              `json:"previousSha,omitempty"`
	Current       string              `json:"currentSha,omitempty"`
	Operator      string              `json:"diffOperator,omitempty"`
	InitialCommit bool                `json:"initialCommit"`
	GeneratedAt   string              `json:"generatedAt"`
	Sets          map[string][]string `json:"sets"`
	Outputs       map[string]string   `json:"outputs"`
	Files         []JSONFile          `json:"files"`
}

// JSONFile is the JSON output structure for a single changed path.
type JSONFile struct {
	Path      string `json:"path"`
	Status    string `json:"status"`
	Kind      string `json:"kind"`
	OldPath   string `json:"oldPath,omitempty"`
	Submodule string `json:"submodule,omitempty"`
}

// Write outputs the change report as JSON.
func (w *JSONWriter) Write(report *ChangeReport, options OutputOptions) error {
	jsonReport := JSONReport{
		RepoPath:      report.RepoPath,
		InitialCommit: report.InitialCommit,
		GeneratedAt:   generatedAt(report),
		Sets:          make(map[string][]string, len(report.Sets)),
		Outputs:       make(map[string]string),
		Files:         []JSONFile{},
	}
	if !report.InitialCommit {
		jsonReport.Previous = report.Range.Previous
		jsonReport.Current = report.Range.Current
		jsonReport.Operator = string(report.Range.Operator)
	}

	for _, set := range report.Sets {
		jsonReport.Sets[set.Key] = SetPaths(set.Files, options.Values)
	}
	for _, v := range Values(report, options.Values) {
		jsonReport.Outputs[v.Key] = v.Value
	}
	for _, f := range report.Set(allChangedAndModifiedKey) {
		jsonReport.Files = append(jsonReport.Files, toJSONFile(f))
	}

	return writeJSON(jsonReport, options.OutputPath)
}

func toJSONFile(f changes.DiffFile) JSONFile {
	return JSONFile{
		Path:      f.FullPath(),
		Status:    f.Kind.Letter(),
		Kind:      f.Kind.String(),
		OldPath:   f.OldPath,
		Submodule: f.Submodule,
	}
}

func writeJSON(data interface{}, outputPath string) error {
	encoder := json.NewEncoder(os.Stdout)
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer file.Close()
		encoder = json.NewEncoder(file)
	}

	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
