// Package filter compiles include/exclude glob patterns into a path matcher.
package filter

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const defaultSeparator = "\n"

// Sources holds the raw pattern inputs. Each blob is split by its own separator;
// the *FromSourceFile blobs name files (relative to BasePath) holding one pattern per line.
type Sources struct {
	Files                              string
	FilesSeparator                     string
	FilesFromSourceFile                string
	FilesFromSourceFileSeparator       string
	FilesIgnore                        string
	FilesIgnoreSeparator               string
	FilesIgnoreFromSourceFile          string
	FilesIgnoreFromSourceFileSeparator string
	BasePath                           string
	MatchDirectories                   bool
}

// Filter decides whether a path is kept.
type Filter struct {
	include          []string
	exclude          []string
	includeGiven     bool
	matchDirectories bool
}

// Options configures a filter built from pattern lists.
type Options struct {
	MatchDirectories bool
}

// Build compiles a filter from the raw sources. Invalid patterns and unreadable
// source files are logged as warnings and skipped.
func Build(src Sources, logger *slog.Logger) *Filter {
	if logger == nil {
		logger = slog.Default()
	}

	var include, exclude []string
	addInclude := func(p string) {
		// "!pattern" in an include list excludes.
		if neg, ok := strings.CutPrefix(p, "!"); ok {
			exclude = append(exclude, neg)
			return
		}
		include = append(include, p)
	}

	for _, p := range splitEntries(src.Files, src.FilesSeparator) {
		addInclude(p)
	}
	for _, p := range readSourceFiles(src.FilesFromSourceFile, src.FilesFromSourceFileSeparator, src.BasePath, logger) {
		addInclude(p)
	}
	exclude = append(exclude, splitEntries(src.FilesIgnore, src.FilesIgnoreSeparator)...)
	exclude = append(exclude, readSourceFiles(src.FilesIgnoreFromSourceFile, src.FilesIgnoreFromSourceFileSeparator, src.BasePath, logger)...)

	return newFilter(include, exclude, Options{MatchDirectories: src.MatchDirectories}, logger)
}

// New compiles a filter from pattern lists.
func New(include, exclude []string, opts Options, logger *slog.Logger) *Filter {
	if logger == nil {
		logger = slog.Default()
	}
	return newFilter(include, exclude, opts, logger)
}

func newFilter(include, exclude []string, opts Options, logger *slog.Logger) *Filter {
	f := &Filter{matchDirectories: opts.MatchDirectories}

	for _, p := range exclude {
		if p, ok := compile(p, logger, "Invalid ignore glob pattern"); ok {
			f.exclude = append(f.exclude, p)
		}
	}

	for _, p := range include {
		p, ok := compile(p, logger, "Invalid glob pattern")
		if !ok {
			continue
		}
		f.includeGiven = true
		// An exclude matching the include's literal text drops the include entirely.
		if matchAny(f.exclude, p) {
			logger.Debug("Dropping glob pattern matched by an ignore pattern", "pattern", p)
			continue
		}
		f.include = append(f.include, p)
	}

	return f
}

// Match reports whether path passes the filter: it must match an include
// pattern (when any were given) and must not match an exclude pattern.
func (f *Filter) Match(path string) bool {
	candidates := f.candidates(path)

	for _, c := range candidates {
		if matchAny(f.exclude, c) {
			return false
		}
	}

	if !f.includeGiven {
		return true
	}
	for _, c := range candidates {
		if matchAny(f.include, c) {
			return true
		}
	}
	return false
}

// Includes returns the surviving include patterns.
func (f *Filter) Includes() []string {
	return f.include
}

// Excludes returns the exclude patterns.
func (f *Filter) Excludes() []string {
	return f.exclude
}

// candidates lists the lower-cased path and, when directories match, each parent directory.
func (f *Filter) candidates(path string) []string {
	path = strings.ToLower(strings.ReplaceAll(path, "\\", "/"))
	out := []string{path}
	if !f.matchDirectories {
		return out
	}
	for dir := parentDir(path); dir != ""; dir = parentDir(dir) {
		out = append(out, dir)
	}
	return out
}

func parentDir(p string) string {
	idx := strings.LastIndexByte(p, '/')
	if idx <= 0 {
		return ""
	}
	return p[:idx]
}

func compile(pattern string, logger *slog.Logger, warning string) (string, bool) {
	p := strings.ToLower(filepath.ToSlash(pattern))
	if !doublestar.ValidatePattern(p) {
		logger.Warn(warning, "pattern", pattern)
		return "", false
	}
	return p, true
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		// Patterns were validated at compile time.
		if doublestar.MatchUnvalidated(p, name) {
			return true
		}
	}
	return false
}

func splitEntries(blob, sep string) []string {
	if blob == "" {
		return nil
	}
	if sep == "" {
		sep = defaultSeparator
	}
	var out []string
	for _, e := range strings.Split(blob, sep) {
		e = strings.TrimSpace(e)
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}

func readSourceFiles(blob, sep, basePath string, logger *slog.Logger) []string {
	var patterns []string
	for _, name := range splitEntries(blob, sep) {
		path := filepath.Join(basePath, name)
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("Could not read file", "path", path, "error", err)
			continue
		}
		patterns = append(patterns, splitEntries(string(data), defaultSeparator)...)
	}
	return patterns
}
