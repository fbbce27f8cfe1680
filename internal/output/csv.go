package output

import (
	"encoding/csv"
	"os"
)

// CSVWriter writes change reports as CSV, one row per changed path.
type CSVWriter struct{}

// Write outputs every changed path with its status.
func (w *CSVWriter) Write(report *ChangeReport, options OutputOptions) error {
	writer, file, err := createCSVWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	if err := writer.Write([]string{"Status", "Kind", "Path", "OldPath", "Submodule"}); err != nil {
		return err
	}

	for _, f := range report.Set(allChangedAndModifiedKey) {
		p, ok := relativeTo(f.FullPath(), options.Values.Relative)
		if !ok {
			continue
		}
		row := []string{f.Kind.Letter(), f.Kind.String(), p, f.OldPath, f.Submodule}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func createCSVWriter(outputPath string) (*csv.Writer, *os.File, error) {
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return nil, nil, err
		}
		return csv.NewWriter(file), file, nil
	}
	return csv.NewWriter(os.Stdout), nil, nil
}
