package git

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

type testRepo struct {
	t    *testing.T
	dir  string
	repo *gogit.Repository
	wt   *gogit.Worktree
	when time.Time
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	return &testRepo{t: t, dir: dir, repo: repo, wt: wt, when: time.Now().Add(-24 * time.Hour)}
}

func (r *testRepo) write(rel, content string) {
	r.t.Helper()
	full := filepath.Join(r.dir, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		r.t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		r.t.Fatalf("WriteFile: %v", err)
	}
	if _, err := r.wt.Add(rel); err != nil {
		r.t.Fatalf("Add: %v", err)
	}
}

func (r *testRepo) remove(rel string) {
	r.t.Helper()
	if _, err := r.wt.Remove(rel); err != nil {
		r.t.Fatalf("Remove: %v", err)
	}
}

func (r *testRepo) commit(msg string) string {
	r.t.Helper()
	r.when = r.when.Add(time.Minute)
	sig := &object.Signature{Name: "Test", Email: "test@example.com", When: r.when}
	h, err := r.wt.Commit(msg, &gogit.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		r.t.Fatalf("Commit: %v", err)
	}
	return h.String()
}

func (r *testRepo) checkout(branch string, create bool) {
	r.t.Helper()
	err := r.wt.Checkout(&gogit.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
		Create: create,
	})
	if err != nil {
		r.t.Fatalf("Checkout(%s): %v", branch, err)
	}
}

func (r *testRepo) open(backend DiffBackend) *Repository {
	r.t.Helper()
	repo, err := Open(r.dir, OpenOptions{Backend: backend})
	if err != nil {
		r.t.Fatalf("Open: %v", err)
	}
	return repo
}

func TestRepository_ResolveAndParents(t *testing.T) {
	tr := newTestRepo(t)
	tr.write("a.txt", "one\n")
	first := tr.commit("first")
	tr.write("a.txt", "two\n")
	second := tr.commit("second")

	repo := tr.open(DiffBackendGoGit)

	head, err := repo.ResolveRef("HEAD")
	if err != nil {
		t.Fatalf("ResolveRef(HEAD): %v", err)
	}
	if head != second {
		t.Errorf("HEAD = %s, want %s", head, second)
	}

	parent, err := repo.Parent(second, 0)
	if err != nil {
		t.Fatalf("Parent: %v", err)
	}
	if parent != first {
		t.Errorf("Parent = %s, want %s", parent, first)
	}

	if _, err := repo.Parent(first, 0); !errors.Is(err, ErrParentNotFound) {
		t.Errorf("Parent(initial) error = %v, want ErrParentNotFound", err)
	}

	if got, err := repo.FindCommit(second[:10]); err != nil || got != second {
		t.Errorf("FindCommit(short) = %q, %v; want %s", got, err, second)
	}

	if _, err := repo.FindCommit("1234567890123456789012345678901234567890"); !errors.Is(err, ErrCommitNotFound) {
		t.Errorf("FindCommit(missing) error = %v, want ErrCommitNotFound", err)
	}
	if _, err := repo.FindCommit(""); !errors.Is(err, ErrCommitNotFound) {
		t.Errorf("FindCommit(empty) error = %v, want ErrCommitNotFound", err)
	}

	shallow, err := repo.IsShallow()
	if err != nil {
		t.Fatalf("IsShallow: %v", err)
	}
	if shallow {
		t.Error("fresh repository reported as shallow")
	}

	subs, err := repo.Submodules()
	if err != nil {
		t.Fatalf("Submodules: %v", err)
	}
	if len(subs) != 0 {
		t.Errorf("Submodules = %v, want none", subs)
	}
}

func TestRepository_MergeBase(t *testing.T) {
	tr := newTestRepo(t)
	tr.write("base.txt", "base\n")
	base := tr.commit("base")

	head, err := tr.repo.Head()
	if err != nil {
		t.Fatalf("Head: %v", err)
	}
	mainBranch := head.Name().Short()

	tr.checkout("feature", true)
	tr.write("feature.txt", "feature\n")
	feature := tr.commit("feature")

	tr.checkout(mainBranch, false)
	tr.write("main.txt", "main\n")
	mainTip := tr.commit("main")

	repo := tr.open(DiffBackendGoGit)
	mb, err := repo.MergeBase(mainTip, feature)
	if err != nil {
		t.Fatalf("MergeBase: %v", err)
	}
	if mb != base {
		t.Errorf("MergeBase = %s, want %s", mb, base)
	}

	ref, err := repo.ResolveRef("feature")
	if err != nil {
		t.Fatalf("ResolveRef(feature): %v", err)
	}
	if ref != feature {
		t.Errorf("ResolveRef(feature) = %s, want %s", ref, feature)
	}
}

func TestRepository_DiffTrees_GoGit(t *testing.T) {
	tr := newTestRepo(t)
	tr.write("keep.txt", "keep\n")
	tr.write("old.txt", "rename me please, this content is long enough to be similar\n")
	tr.write("gone.txt", "bye\n")
	before := tr.commit("before")

	tr.write("keep.txt", "keep changed\n")
	tr.remove("old.txt")
	tr.write("new.txt", "rename me please, this content is long enough to be similar\n")
	tr.remove("gone.txt")
	tr.write("added.txt", "hello\n")
	after := tr.commit("after")

	repo := tr.open(DiffBackendGoGit)
	deltas, err := repo.DiffTrees(context.Background(), before, after, DiffTreeOptions{IgnoreSubmodules: true})
	if err != nil {
		t.Fatalf("DiffTrees: %v", err)
	}

	got := make(map[string]RawDelta)
	for _, d := range deltas {
		got[d.Path] = d
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 deltas, got %d: %+v", len(deltas), deltas)
	}
	if got["keep.txt"].Status != DeltaModified {
		t.Errorf("keep.txt status = %v, want modified", got["keep.txt"].Status)
	}
	if got["added.txt"].Status != DeltaAdded {
		t.Errorf("added.txt status = %v, want added", got["added.txt"].Status)
	}
	if got["gone.txt"].Status != DeltaDeleted {
		t.Errorf("gone.txt status = %v, want deleted", got["gone.txt"].Status)
	}
	if d := got["new.txt"]; d.Status != DeltaRenamed || d.OldPath != "old.txt" {
		t.Errorf("new.txt = %+v, want rename from old.txt", d)
	}
}

func TestRepository_GitlinkAt_NotFound(t *testing.T) {
	tr := newTestRepo(t)
	tr.write("a.txt", "a\n")
	c := tr.commit("a")

	repo := tr.open(DiffBackendGoGit)
	if _, err := repo.GitlinkAt(c, "vendor/lib"); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("GitlinkAt(missing) error = %v, want ErrEntryNotFound", err)
	}
	if _, err := repo.GitlinkAt(c, "a.txt"); err == nil {
		t.Error("GitlinkAt(regular file) expected error")
	}
}

func TestRepository_Refresh(t *testing.T) {
	tr := newTestRepo(t)
	tr.write("a.txt", "a\n")
	tr.commit("a")

	repo := tr.open(DiffBackendGoGit)
	tr.write("a.txt", "b\n")
	second := tr.commit("b")

	if err := repo.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if _, err := repo.FindCommit(second); err != nil {
		t.Errorf("FindCommit after refresh: %v", err)
	}
}

func TestParseDiffBackend(t *testing.T) {
	tests := []struct {
		input   string
		want    DiffBackend
		wantErr bool
	}{
		{input: "", want: DiffBackendGoGit},
		{input: "go-git", want: DiffBackendGoGit},
		{input: "GIT", want: DiffBackendCLI},
		{input: "cli", want: DiffBackendCLI},
		{input: "libgit2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDiffBackend(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("ParseDiffBackend(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCLI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}

	dir := t.TempDir()

	runGitT := func(args ...string) string {
		t.Helper()
		cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=Test",
			"GIT_AUTHOR_EMAIL=test@test.com",
			"GIT_COMMITTER_NAME=Test",
			"GIT_COMMITTER_EMAIL=test@test.com",
		)
		out, err := cmd.CombinedOutput()
		if err != nil {
			t.Fatalf("git %v failed: %v: %s", args, err, string(out))
		}
		return string(out)
	}

	writeFile := func(name, content string) {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	runGitT("init", "-b", "main")
	writeFile("base.go", "package main\n\nfunc main() {}\n")
	runGitT("add", ".")
	runGitT("commit", "-m", "initial commit")
	runGitT("tag", "v1.0.0")

	writeFile("copy.go", "package main\n\nfunc main() {}\n")
	writeFile("base.go", "package main\n\nfunc main() {}\n// modified\n")
	runGitT("add", ".")
	runGitT("commit", "-m", "second")
	runGitT("tag", "-a", "v1.10.0", "-m", "annotated")
	runGitT("tag", "v1.2.0")

	repo, err := Open(dir, OpenOptions{Backend: DiffBackendCLI})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	head, err := repo.ResolveRef("HEAD")
	if err != nil {
		t.Fatalf("ResolveRef: %v", err)
	}
	first, err := repo.Parent(head, 0)
	if err != nil {
		t.Fatalf("Parent: %v", err)
	}

	ctx := context.Background()
	deltas, err := repo.DiffTrees(ctx, first, head, DiffTreeOptions{IgnoreSubmodules: true})
	if err != nil {
		t.Fatalf("DiffTrees: %v", err)
	}
	if len(deltas) != 2 {
		t.Fatalf("expected 2 deltas, got %+v", deltas)
	}

	history := NewCLIHistory(dir)
	tags, err := history.TagsByVersionDesc(ctx)
	if err != nil {
		t.Fatalf("TagsByVersionDesc: %v", err)
	}
	want := []string{"v1.10.0", "v1.2.0", "v1.0.0"}
	if len(tags) != len(want) {
		t.Fatalf("tags = %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Fatalf("tags = %v, want %v", tags, want)
		}
	}

	peeled, err := history.TagCommit(ctx, "v1.10.0")
	if err != nil {
		t.Fatalf("TagCommit: %v", err)
	}
	if peeled != head {
		t.Errorf("TagCommit(v1.10.0) = %s, want %s", peeled, head)
	}

	latest, err := history.CommitAtOrBefore(ctx, "now")
	if err != nil {
		t.Fatalf("CommitAtOrBefore: %v", err)
	}
	if latest != head {
		t.Errorf("CommitAtOrBefore(now) = %s, want %s", latest, head)
	}

	if _, err := CheckVersion(ctx, "1.0.0"); err != nil {
		t.Errorf("CheckVersion(1.0.0): %v", err)
	}
	if _, err := CheckVersion(ctx, "999.0.0"); err == nil {
		t.Error("CheckVersion(999.0.0) expected error")
	}
}

func TestRepository_DiffTrees_SortedByPath(t *testing.T) {
	tr := newTestRepo(t)
	tr.write("z.txt", "z\n")
	before := tr.commit("before")

	tr.write("b/inner.txt", "b\n")
	tr.write("a.txt", "a\n")
	tr.write("z.txt", "zz\n")
	after := tr.commit("after")

	deltas, err := tr.open(DiffBackendGoGit).DiffTrees(context.Background(), before, after, DiffTreeOptions{})
	if err != nil {
		t.Fatalf("DiffTrees: %v", err)
	}
	var paths []string
	for _, d := range deltas {
		paths = append(paths, d.Path)
	}
	if len(paths) != 3 || paths[0] != "a.txt" || paths[1] != "b/inner.txt" || paths[2] != "z.txt" {
		t.Errorf("paths = %v, want sorted", paths)
	}
}

// cliRepo is a repository built with the git binary, for fixtures go-git cannot create.
type cliRepo struct {
	t   *testing.T
	dir string
}

func newCLIRepo(t *testing.T, dir string) *cliRepo {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
	r := &cliRepo{t: t, dir: dir}
	r.git("init", "-b", "main")
	return r
}

func (r *cliRepo) git(args ...string) string {
	r.t.Helper()
	cmd := exec.Command("git", append([]string{"-C", r.dir, "-c", "protocol.file.allow=always"}, args...)...)
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=Test",
		"GIT_AUTHOR_EMAIL=test@test.com",
		"GIT_COMMITTER_NAME=Test",
		"GIT_COMMITTER_EMAIL=test@test.com",
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		r.t.Fatalf("git %v failed: %v: %s", args, err, string(out))
	}
	return strings.TrimSpace(string(out))
}

func (r *cliRepo) commitFile(name, content string) string {
	r.t.Helper()
	path := filepath.Join(r.dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		r.t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		r.t.Fatal(err)
	}
	r.git("add", name)
	r.git("commit", "-m", "update "+name)
	return r.git("rev-parse", "HEAD")
}

func TestRepository_Submodules_Integration(t *testing.T) {
	upstream := newCLIRepo(t, t.TempDir())
	upstream.commitFile("x.txt", "x\n")

	top := newCLIRepo(t, t.TempDir())
	top.commitFile("a.txt", "a\n")
	top.git("submodule", "add", upstream.dir, "libs/sub")
	top.git("commit", "-m", "add submodule")
	before := top.git("rev-parse", "HEAD")

	sub := &cliRepo{t: t, dir: filepath.Join(top.dir, "libs", "sub")}
	subAfter := sub.commitFile("y.txt", "y\n")
	top.commitFile("a.txt", "b\n")
	top.git("add", "libs/sub")
	top.git("commit", "-m", "bump submodule")
	after := top.git("rev-parse", "HEAD")

	for _, backend := range []DiffBackend{DiffBackendGoGit, DiffBackendCLI} {
		t.Run(string(backend), func(t *testing.T) {
			repo, err := Open(top.dir, OpenOptions{Backend: backend})
			if err != nil {
				t.Fatalf("Open: %v", err)
			}

			subs, err := repo.Submodules()
			if err != nil {
				t.Fatalf("Submodules: %v", err)
			}
			if len(subs) != 1 || subs[0].Path != "libs/sub" {
				t.Fatalf("Submodules = %+v, want libs/sub", subs)
			}

			oldLink, err := repo.GitlinkAt(before, "libs/sub")
			if err != nil {
				t.Fatalf("GitlinkAt(before): %v", err)
			}
			newLink, err := repo.GitlinkAt(after, "libs/sub")
			if err != nil {
				t.Fatalf("GitlinkAt(after): %v", err)
			}
			if newLink != subAfter || oldLink == newLink {
				t.Fatalf("gitlinks = %s -> %s, want move to %s", oldLink, newLink, subAfter)
			}

			graph, err := repo.OpenSubmodule("libs/sub")
			if err != nil {
				t.Fatalf("OpenSubmodule: %v", err)
			}
			deltas, err := graph.DiffTrees(context.Background(), oldLink, newLink, DiffTreeOptions{IgnoreSubmodules: true})
			if err != nil {
				t.Fatalf("DiffTrees(submodule): %v", err)
			}
			if len(deltas) != 1 || deltas[0].Path != "y.txt" || deltas[0].Status != DeltaAdded {
				t.Errorf("submodule deltas = %+v, want y.txt added", deltas)
			}
		})
	}
}
