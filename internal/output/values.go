package output

import (
	"encoding/json"
	"path"
	"strconv"
	"strings"

	"github.com/masmgr/changed-files-go/internal/changes"
)

// Derived output keys.
const (
	KeyAnyChanged            = "any_changed"
	KeyAnyModified           = "any_modified"
	KeyAnyDeleted            = "any_deleted"
	KeyAllOldNewRenamedFiles = "all_old_new_renamed_files"
	keyAllChangedFiles       = "all_changed_files"
	keyAllModifiedFiles      = "all_modified_files"
	keyDeletedFiles          = "deleted_files"
	keyRenamedFiles          = "renamed_files"
)

// Value is one rendered output.
type Value struct {
	Key   string
	Value string
}

// Values renders every set and the derived flags in a stable order.
func Values(report *ChangeReport, opts ValueOptions) []Value {
	values := make([]Value, 0, len(report.Sets)+4)
	counts := make(map[string]int, len(report.Sets))

	for _, set := range report.Sets {
		paths := SetPaths(set.Files, opts)
		counts[set.Key] = len(paths)
		values = append(values, Value{Key: set.Key, Value: joinPaths(paths, opts)})
	}

	values = append(values,
		Value{Key: KeyAnyChanged, Value: strconv.FormatBool(counts[keyAllChangedFiles] > 0)},
		Value{Key: KeyAnyModified, Value: strconv.FormatBool(counts[keyAllModifiedFiles] > 0)},
		Value{Key: KeyAnyDeleted, Value: strconv.FormatBool(counts[keyDeletedFiles] > 0)},
	)

	if opts.IncludeAllOldNewRenamedFiles {
		values = append(values, Value{
			Key:   KeyAllOldNewRenamedFiles,
			Value: renamedPairs(report.Set(keyRenamedFiles), opts),
		})
	}
	return values
}

// SetPaths applies the relative and directory-name transforms to a file list.
func SetPaths(files []changes.DiffFile, opts ValueOptions) []string {
	paths := make([]string, 0, len(files))
	for _, f := range files {
		p, ok := relativeTo(f.FullPath(), opts.Relative)
		if !ok {
			continue
		}
		paths = append(paths, p)
	}
	if opts.DirNames {
		paths = dirNames(paths, opts.DirNamesMaxDepth, opts.DirNamesExcludeRoot)
	}
	return paths
}

func renamedPairs(files []changes.DiffFile, opts ValueOptions) string {
	pairs := make([]string, 0, len(files))
	for _, f := range files {
		newPath, ok := relativeTo(f.FullPath(), opts.Relative)
		if !ok {
			continue
		}
		oldPath := f.OldPath
		if f.Submodule != "" {
			oldPath = path.Join(f.Submodule, oldPath)
		}
		if rel, ok := relativeTo(oldPath, opts.Relative); ok {
			oldPath = rel
		}
		pairs = append(pairs, oldPath+opts.OldNewSeparator+newPath)
	}
	if opts.JSON {
		return jsonList(pairs)
	}
	return strings.Join(pairs, opts.OldNewFilesSeparator)
}

// relativeTo strips dir from p. It reports false when p lies outside dir.
func relativeTo(p, dir string) (string, bool) {
	dir = strings.Trim(path.Clean("/"+dir), "/")
	if dir == "" {
		return p, true
	}
	rest, ok := strings.CutPrefix(p, dir+"/")
	if !ok || rest == "" {
		return "", false
	}
	return rest, true
}

// dirNames maps paths to their parent directories, truncated to maxDepth
// components when positive, without duplicates.
func dirNames(paths []string, maxDepth int, excludeRoot bool) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		dir := path.Dir(p)
		if maxDepth > 0 && dir != "." {
			if parts := strings.Split(dir, "/"); len(parts) > maxDepth {
				dir = strings.Join(parts[:maxDepth], "/")
			}
		}
		if dir == "." && excludeRoot {
			continue
		}
		if seen[dir] {
			continue
		}
		seen[dir] = true
		out = append(out, dir)
	}
	return out
}

func joinPaths(paths []string, opts ValueOptions) string {
	if opts.JSON {
		return jsonList(paths)
	}
	return strings.Join(paths, opts.Separator)
}

func jsonList(items []string) string {
	if items == nil {
		items = []string{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(data)
}
