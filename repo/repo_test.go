package repo

import (
	"errors"
	"io"
	"iter"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/google/go-cmp/cmp"

	"github.com/fieldlex/git-shoebox/clob"
	"github.com/fieldlex/git-shoebox/config"
)

func initRepo(t *testing.T) *Repository {
	t.Helper()
	dir := t.TempDir()
	if _, err := gogit.PlainInit(dir, false); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	r, err := OpenRaw()
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func clobSeq(clobs ...clob.Clob) iter.Seq[clob.Clob] {
	return func(yield func(clob.Clob) bool) {
		for _, c := range clobs {
			if !yield(c) {
				return
			}
		}
	}
}

func stageAll(t *testing.T, r *Repository, root string, clobs ...clob.Clob) {
	t.Helper()
	diffs, err := r.DiffClobs(root, clobSeq(clobs...))
	if err != nil {
		t.Fatal(err)
	}
	st, err := r.Staging()
	if err != nil {
		t.Fatal(err)
	}
	if err := st.StageDiffs(diffs, nil); err != nil {
		t.Fatal(err)
	}
	if err := st.Commit(); err != nil {
		t.Fatal(err)
	}
}

func TestDiffClobs(t *testing.T) {
	r := initRepo(t)
	root := "dict.txt.contents"

	a := clob.Clob{Path: "aa/bb/alpha.txt", Content: "\\lx alpha\n"}
	b := clob.Clob{Path: "aa/bb/beta.txt", Content: "\\lx beta\n"}

	diffs, err := r.DiffClobs(root, clobSeq(a, b))
	if err != nil {
		t.Fatal(err)
	}
	if s := clob.Count(diffs); s.Added != 2 || s.Changed != 0 || s.Deleted != 0 {
		t.Fatalf("initial diff stats = %+v", s)
	}

	stageAll(t, r, root, a, b)

	// same content again: nothing to do
	diffs, err = r.DiffClobs(root, clobSeq(a, b))
	if err != nil {
		t.Fatal(err)
	}
	if len(diffs) != 0 {
		t.Fatalf("repeated diff should be empty, got %+v", diffs)
	}

	// change one clob, drop the other
	a2 := clob.Clob{Path: a.Path, Content: "\\lx alpha\n\\ge changed\n"}
	diffs, err = r.DiffClobs(root, clobSeq(a2))
	if err != nil {
		t.Fatal(err)
	}
	if s := clob.Count(diffs); s.Added != 0 || s.Changed != 1 || s.Deleted != 1 {
		t.Fatalf("update diff stats = %+v", s)
	}
	for _, d := range diffs {
		if d.Kind == clob.DiffDelete && d.Path() != root+"/"+b.Path {
			t.Errorf("deleted path = %q", d.Path())
		}
	}
}

func TestDiffClobs_CaseOnlyDifference(t *testing.T) {
	r := initRepo(t)
	root := "dict.txt.contents"

	orig := clob.Clob{Path: "aa/bb/Foo.txt", Content: "\\lx Foo\n"}
	stageAll(t, r, root, orig)

	// a case-only change claims the tracked file instead of deleting it
	diffs, err := r.DiffClobs(root, clobSeq(clob.Clob{Path: "aa/bb/foo.txt", Content: "\\lx Foo\n"}))
	if err != nil {
		t.Fatal(err)
	}
	for _, d := range diffs {
		if d.Kind == clob.DiffDelete {
			t.Errorf("case-only difference produced a delete of %q", d.Path())
		}
	}
}

func TestStageDiffs_PrunesEmptyDirs(t *testing.T) {
	r := initRepo(t)
	root := "dict.txt.contents"

	c := clob.Clob{Path: "aa/bb/x.txt", Content: "\\lx x\n"}
	stageAll(t, r, root, c)

	full := filepath.Join(r.Workdir(), root, "aa", "bb", "x.txt")
	if _, err := os.Stat(full); err != nil {
		t.Fatalf("staged file missing: %v", err)
	}

	st, err := r.Staging()
	if err != nil {
		t.Fatal(err)
	}
	if err := st.StageDiffs([]clob.Diff{clob.Delete(root + "/" + c.Path)}, nil); err != nil {
		t.Fatal(err)
	}
	if err := st.Commit(); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(r.Workdir(), root)); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("empty contents tree should be pruned, stat err = %v", err)
	}
}

func TestStageManagedFile(t *testing.T) {
	r := initRepo(t)

	content := "\\_sh v3.0  864  Dictionary\n\n\\lx word\n"
	if err := os.WriteFile(filepath.Join(r.Workdir(), "dict.txt"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	st, err := r.Staging()
	if err != nil {
		t.Fatal(err)
	}
	if err := st.StageManagedFile("dict.txt"); err != nil {
		t.Fatal(err)
	}
	if err := st.Commit(); err != nil {
		t.Fatal(err)
	}

	idx, err := r.git.Storer.Index()
	if err != nil {
		t.Fatal(err)
	}
	entry, err := idx.Entry("dict.txt")
	if err != nil {
		t.Fatal(err)
	}
	// the staged blob is the placeholder, the entry size is the real
	// file size so git considers the working copy clean
	if entry.Hash != plumbing.ComputeHash(plumbing.BlobObject, []byte(PlaceholderText)) {
		t.Error("staged hash is not the placeholder blob")
	}
	if int(entry.Size) != len(content) {
		t.Errorf("entry size = %d, want on-disk size %d", entry.Size, len(content))
	}
}

func TestReconstructFromIndex(t *testing.T) {
	r := initRepo(t)
	root := "dict.txt.contents"

	stageAll(t, r, root,
		clob.Clob{Path: "aa/bb/item10.txt", Content: "\\lx ten\n"},
		clob.Clob{Path: "aa/bb/item2.txt", Content: "\\lx two\n"},
	)

	got, err := r.Reconstruct(root, "")
	if err != nil {
		t.Fatal(err)
	}
	want := HeaderLine + "\n\\lx two\n\n\\lx ten\n"
	if d := cmp.Diff(want, string(got)); d != "" {
		t.Errorf("reconstructed content mismatch (-want +got):\n%s", d)
	}

	if _, err := r.Reconstruct("no/such/root", ""); err == nil {
		t.Error("expected an error for an unknown contents root")
	}
}

func TestReconstructFromRev(t *testing.T) {
	r := initRepo(t)
	root := "dict.txt.contents"

	stageAll(t, r, root,
		clob.Clob{Path: "aa/bb/one.txt", Content: "\\lx one\n"},
		clob.Clob{Path: "cc/dd/two.txt", Content: "\\lx two\n"},
	)
	_, err := r.wt.Commit("add dictionary contents", &gogit.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := r.Reconstruct(root, "HEAD")
	if err != nil {
		t.Fatal(err)
	}
	want := HeaderLine + "\n\\lx one\n\n\\lx two\n"
	if d := cmp.Diff(want, string(got)); d != "" {
		t.Errorf("reconstructed content mismatch (-want +got):\n%s", d)
	}

	if _, err := r.Reconstruct(root, "not-a-rev"); err == nil {
		t.Error("expected an error for a bad revision")
	}
}

func TestRelPath(t *testing.T) {
	r := initRepo(t)

	rel, err := r.RelPath("dict.txt")
	if err != nil {
		t.Fatal(err)
	}
	if rel != "dict.txt" {
		t.Errorf("RelPath = %q", rel)
	}

	_, err = r.RelPath(filepath.Join(r.Workdir(), "..", "outside.txt"))
	var pe *PathOutsideError
	if !errors.As(err, &pe) {
		t.Errorf("want PathOutsideError, got %v", err)
	}
}

func TestConfigureAndOpen(t *testing.T) {
	r := initRepo(t)

	cfgText := "dictionaries:\n  - name: test\n    path: dict.txt\n    record-tag: lx\n"
	if err := os.WriteFile(filepath.Join(r.Workdir(), config.FileName), []byte(cfgText), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := r.Configure(io.Discard); err != nil {
		t.Fatal(err)
	}

	opened, err := Open()
	if err != nil {
		t.Fatal(err)
	}
	if len(opened.Cfg.Dictionaries) != 1 || opened.Cfg.Dictionaries[0].Path != "dict.txt" {
		t.Errorf("unexpected config: %+v", opened.Cfg)
	}

	// editing the config invalidates the setup until the next configure
	if err := os.WriteFile(filepath.Join(r.Workdir(), config.FileName), []byte(cfgText+"# edited\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(); !errors.Is(err, ErrConfigChanged) {
		t.Errorf("want ErrConfigChanged, got %v", err)
	}
}

func TestValidateWorkdir(t *testing.T) {
	r := initRepo(t)
	root := "dict.txt.contents"

	c := clob.Clob{Path: "aa/bb/word.txt", Content: "\\lx word\n"}
	stageAll(t, r, root, c)

	issues, err := r.ValidateWorkdir(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(issues) != 0 {
		t.Fatalf("clean tree reported issues: %+v", issues)
	}

	// edit behind the tool's back
	full := filepath.Join(r.Workdir(), root, "aa", "bb", "word.txt")
	if err := os.WriteFile(full, []byte("\\lx tampered\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(r.Workdir(), root, "aa", "bb", "new.txt"), []byte("x\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	issues, err = r.ValidateWorkdir(root)
	if err != nil {
		t.Fatal(err)
	}
	var kinds []WorkdirIssueKind
	for _, is := range issues {
		kinds = append(kinds, is.Kind)
	}
	want := []WorkdirIssueKind{AddedInWorkdir, UpdatedInWorkdir}
	if d := cmp.Diff(want, kinds); d != "" {
		t.Errorf("issue kinds mismatch (-want +got):\n%s", d)
	}
}

func TestParseAttributeLine(t *testing.T) {
	for _, tc := range []struct {
		line, pattern, rest string
	}{
		{"dict.txt filter=shoebox", "dict.txt", " filter=shoebox"},
		{`"dict with space.txt" filter=shoebox`, `"dict with space.txt"`, " filter=shoebox"},
		{`"quoted \"inner\".txt" attr`, `"quoted \"inner\".txt"`, " attr"},
		{"bare", "bare", ""},
	} {
		pattern, rest := parseAttributeLine(tc.line)
		if pattern != tc.pattern || rest != tc.rest {
			t.Errorf("parseAttributeLine(%q) = %q, %q; want %q, %q",
				tc.line, pattern, rest, tc.pattern, tc.rest)
		}
	}
}

func TestCEscape(t *testing.T) {
	for _, tc := range []struct {
		in, want string
	}{
		{"dict.txt", `"dict.txt"`},
		{`a"b`, `"a\"b"`},
		{"dëck.txt", `"dëck.txt"`},
		{"a\tb", `"a\tb"`},
	} {
		if got := cEscape(tc.in); got != tc.want {
			t.Errorf("cEscape(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
