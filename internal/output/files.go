package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WriteOutputFiles writes every value to <dir>/<key>.txt, or .json when
// values are rendered as JSON arrays. Derived boolean flags are skipped.
func WriteOutputFiles(report *ChangeReport, opts ValueOptions, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", dir, err)
	}

	ext := ".txt"
	if opts.JSON {
		ext = ".json"
	}

	var written []string
	for _, v := range Values(report, opts) {
		if !strings.HasSuffix(v.Key, "_files") {
			continue
		}
		name := filepath.Join(dir, v.Key+ext)
		if err := os.WriteFile(name, []byte(v.Value), 0644); err != nil {
			return written, fmt.Errorf("write %s: %w", name, err)
		}
		written = append(written, name)
	}
	return written, nil
}
