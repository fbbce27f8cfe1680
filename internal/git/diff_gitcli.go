package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/filemode"
)

type gitRawEntry struct {
	srcMode filemode.FileMode
	dstMode filemode.FileMode
	status  string // e.g. "M", "A", "D", "R100", "C075"
	path    string // destination path (or path for non-renames)
	oldPath string // source path for renames and copies
}

// runGit runs git in dir and returns its stdout. On failure the error carries stderr.
func runGit(ctx context.Context, dir string, args ...string) ([]byte, error) {
	if dir != "" {
		args = append([]string{"-C", dir}, args...)
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git %s failed: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

func diffTreesGitCLI(ctx context.Context, dir, from, to string, opts DiffTreeOptions) ([]RawDelta, error) {
	args := []string{
		"diff",
		"--no-color",
		"--no-ext-diff",
		"--raw", "-z",
		"-M", "-C",
	}
	if opts.IgnoreSubmodules {
		args = append(args, "--ignore-submodules=all")
	}
	args = append(args, from, to, "--")

	out, err := runGit(ctx, dir, args...)
	if err != nil {
		return nil, err
	}

	entries, _, err := parseGitRawEntries(out)
	if err != nil {
		return nil, err
	}

	deltas := make([]RawDelta, 0, len(entries))
	for _, e := range entries {
		d := RawDelta{
			Status:  deltaStatusFromGitStatus(e.status),
			Path:    e.path,
			OldPath: e.oldPath,
			OldMode: e.srcMode,
			NewMode: e.dstMode,
		}
		if opts.IgnoreSubmodules && d.touchesSubmodule() {
			continue
		}
		deltas = append(deltas, d)
	}
	return deltas, nil
}

func parseGitRawEntries(body []byte) ([]gitRawEntry, int, error) {
	i := 0
	for i < len(body) && (body[i] == '\n' || body[i] == '\r') {
		i++
	}

	entries := make([]gitRawEntry, 0, 128)

	for i < len(body) && body[i] == ':' {
		meta, ok := readUntilNUL(body, &i)
		if !ok {
			return nil, 0, fmt.Errorf("unexpected git --raw format (missing NUL)")
		}

		fields := strings.Fields(string(meta))
		if len(fields) < 5 {
			return nil, 0, fmt.Errorf("unexpected git --raw meta: %q", string(meta))
		}

		srcMode, err := parseGitFileMode(strings.TrimPrefix(fields[0], ":"))
		if err != nil {
			return nil, 0, err
		}
		dstMode, err := parseGitFileMode(fields[1])
		if err != nil {
			return nil, 0, err
		}

		status := fields[len(fields)-1]

		path1, ok := readStringUntilNUL(body, &i)
		if !ok {
			return nil, 0, fmt.Errorf("unexpected git --raw format (missing path)")
		}

		path := path1
		oldPath := ""
		if len(status) > 0 && (status[0] == 'R' || status[0] == 'C') {
			path2, ok := readStringUntilNUL(body, &i)
			if !ok {
				return nil, 0, fmt.Errorf("unexpected git --raw format (missing rename path)")
			}
			oldPath = path1
			path = path2
		}

		entries = append(entries, gitRawEntry{
			srcMode: srcMode,
			dstMode: dstMode,
			status:  status,
			path:    path,
			oldPath: oldPath,
		})
	}

	return entries, i, nil
}

func parseGitFileMode(s string) (filemode.FileMode, error) {
	if s == "" {
		return filemode.Empty, nil
	}
	// Modes are printed as octal (e.g. 100644, 120000, 160000, 000000).
	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return filemode.Empty, fmt.Errorf("parse file mode %q: %w", s, err)
	}
	return filemode.FileMode(v), nil
}

// deltaStatusFromGitStatus maps a `git diff --raw` status letter to a DeltaStatus.
func deltaStatusFromGitStatus(status string) DeltaStatus {
	if status == "" {
		return DeltaUnmodified
	}
	switch status[0] {
	case 'A':
		return DeltaAdded
	case 'C':
		return DeltaCopied
	case 'D':
		return DeltaDeleted
	case 'M':
		return DeltaModified
	case 'R':
		return DeltaRenamed
	case 'T':
		return DeltaTypeChanged
	case 'U':
		return DeltaConflicted
	case 'X':
		return DeltaUnreadable
	default:
		return DeltaUnmodified
	}
}

func readUntilNUL(b []byte, i *int) ([]byte, bool) {
	if *i >= len(b) {
		return nil, false
	}
	j := bytes.IndexByte(b[*i:], 0)
	if j == -1 {
		return nil, false
	}
	start := *i
	end := *i + j
	*i = end + 1
	return b[start:end], true
}

func readStringUntilNUL(b []byte, i *int) (string, bool) {
	raw, ok := readUntilNUL(b, i)
	if !ok {
		return "", false
	}
	return string(raw), true
}
