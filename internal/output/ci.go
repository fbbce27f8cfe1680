package output

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

// CIWriter writes change report values as GitHub Actions step outputs.
// OutputPath is the GITHUB_OUTPUT file; values are appended to it.
type CIWriter struct {
	// Delimiter returns the heredoc delimiter for multi-line values.
	Delimiter func() string
}

// Write appends every value as key=value, using the heredoc form for
// values containing newlines.
func (w *CIWriter) Write(report *ChangeReport, options OutputOptions) error {
	out, file, err := openAppendWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	for _, v := range Values(report, options.Values) {
		if err := w.writeOutput(out, v); err != nil {
			return err
		}
	}
	return nil
}

func (w *CIWriter) writeOutput(out io.Writer, v Value) error {
	if !strings.ContainsAny(v.Value, "\r\n") {
		_, err := fmt.Fprintf(out, "%s=%s\n", v.Key, v.Value)
		return err
	}

	newDelimiter := w.Delimiter
	if newDelimiter == nil {
		newDelimiter = randomDelimiter
	}
	delim := newDelimiter()
	for strings.Contains(v.Value, delim) {
		delim += "_"
	}
	_, err := fmt.Fprintf(out, "%s<<%s\n%s\n%s\n", v.Key, delim, v.Value, delim)
	return err
}

func randomDelimiter() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "ghadelimiter_changed_files"
	}
	return "ghadelimiter_" + hex.EncodeToString(buf)
}
