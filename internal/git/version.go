package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// MinimumVersion is the oldest git release whose fetch and diff flags are relied on.
const MinimumVersion = "2.18.0"

// Version returns the installed git version, e.g. "2.43.0".
func Version(ctx context.Context) (string, error) {
	out, err := runGit(ctx, "", "--version")
	if err != nil {
		return "", fmt.Errorf("git not installed: %w", err)
	}
	return parseVersionOutput(string(out))
}

// parseVersionOutput extracts the version from "git version 2.39.3 (Apple Git-145)".
func parseVersionOutput(out string) (string, error) {
	fields := strings.Fields(out)
	if len(fields) < 3 {
		return "", fmt.Errorf("unexpected git --version output %q", strings.TrimSpace(out))
	}
	return fields[2], nil
}

// VersionNumber folds up to four dot-separated components into one comparable number.
// Non-numeric components count as zero, so "2.39.windows.1" compares as 2.39.0.1.
func VersionNumber(version string) uint64 {
	var n uint64
	parts := strings.Split(version, ".")
	for i := 0; i < 4; i++ {
		n *= 1000
		if i < len(parts) {
			v, err := strconv.ParseUint(parts[i], 10, 32)
			if err == nil && v < 1000 {
				n += v
			}
		}
	}
	return n
}

// CheckVersion returns the installed version, or an error if it is older than minimum.
func CheckVersion(ctx context.Context, minimum string) (string, error) {
	v, err := Version(ctx)
	if err != nil {
		return "", err
	}
	if VersionNumber(v) < VersionNumber(minimum) {
		return v, fmt.Errorf("invalid git version %s: please upgrade to >= %s", v, minimum)
	}
	return v, nil
}
