package output

import (
	"io"
	"os"
	"time"
)

const reportDateTimeLayout = "2006-01-02T15:04:05"

func limitTop[T any](items []T, top int) []T {
	if top <= 0 || top >= len(items) {
		return items
	}
	return items[:top]
}

func shortSHA(sha string) string {
	return string(limitTop([]byte(sha), 7))
}

func generatedAt(report *ChangeReport) string {
	if report.GeneratedAt.IsZero() {
		return time.Now().Format(reportDateTimeLayout)
	}
	return report.GeneratedAt.Format(reportDateTimeLayout)
}

func openOutputWriter(outputPath string) (io.Writer, *os.File, error) {
	if outputPath == "" {
		return os.Stdout, nil, nil
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return nil, nil, err
	}
	return file, file, nil
}

func openAppendWriter(outputPath string) (io.Writer, *os.File, error) {
	if outputPath == "" {
		return os.Stdout, nil, nil
	}
	file, err := os.OpenFile(outputPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}
	return file, file, nil
}
