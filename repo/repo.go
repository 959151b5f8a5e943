// Package repo wraps the git plumbing behind the dictionary sync:
// diffing decomposed content against the index, batched staging,
// reconstruction of managed files, and repository configuration.
package repo

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/filesystem"

	"github.com/fieldlex/git-shoebox/config"
)

// PlaceholderText is what managed files look like inside commits. The
// real content lives in the .contents tree and is reassembled by the
// smudge filter; seeing this text in a working copy means the filter
// did not run.
const PlaceholderText = "This file is managed by git-shoebox.\n" +
	"\n" +
	"If you see this text, your repository is either misconfigured or has encountered\n" +
	"an error during operation. Please run \"git shoebox reset\" and contact IT support\n" +
	"if your issue persists.\n"

// Repository is an open, non-bare git repository. Cfg is nil when the
// repository was opened raw, without config validation.
type Repository struct {
	git     *gogit.Repository
	wt      *gogit.Worktree
	workdir string
	gitDir  string
	Cfg     *config.Config
}

func openRaw() (*Repository, error) {
	git, err := gogit.PlainOpenWithOptions(".", &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, ErrNotRepository
		}
		return nil, fmt.Errorf("git error: %w", err)
	}
	wt, err := git.Worktree()
	if err != nil {
		if errors.Is(err, gogit.ErrIsBareRepository) {
			return nil, ErrNotRepository
		}
		return nil, fmt.Errorf("git error: %w", err)
	}
	r := &Repository{
		git:     git,
		wt:      wt,
		workdir: wt.Filesystem.Root(),
	}
	if st, ok := git.Storer.(*filesystem.Storage); ok {
		r.gitDir = st.Filesystem().Root()
	}
	return r, nil
}

// OpenRaw opens the repository without validating its shoebox
// configuration. Used by the commands that must work while the
// configuration is incomplete (setup, the filters, show).
func OpenRaw() (*Repository, error) {
	return openRaw()
}

// Open opens the repository and validates the shoebox configuration,
// refusing to proceed when the config file is missing, changed relative
// to the index, or the git filter setup is out of date.
func Open() (*Repository, error) {
	r, err := openRaw()
	if err != nil {
		return nil, err
	}
	cfg, err := r.validatedConfig()
	if err != nil {
		return nil, err
	}
	r.Cfg = cfg
	return r, nil
}

// Workdir is the absolute path of the repository working directory.
func (r *Repository) Workdir() string {
	return r.workdir
}

// WorkdirHere locates the working directory without a full Open.
func WorkdirHere() (string, error) {
	r, err := openRaw()
	if err != nil {
		return "", err
	}
	return r.workdir, nil
}

// HeadName is the short name of HEAD, for display only.
func (r *Repository) HeadName() string {
	ref, err := r.git.Head()
	if err != nil {
		return "<unknown>"
	}
	return ref.Name().Short()
}

// CheckIndexLock reports whether the git index is locked for writing.
// The clean filter uses this to detect a plain `git add` in flight.
func (r *Repository) CheckIndexLock() bool {
	if r.gitDir == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(r.gitDir, "index.lock"))
	return err == nil
}

// RelPath resolves path against the current directory and translates it
// to a slash path relative to the repository working directory.
func (r *Repository) RelPath(path string) (string, error) {
	return relPathIn(path, r.workdir)
}

// RelPathHere is RelPath without a full Open.
func RelPathHere(path string) (string, error) {
	r, err := openRaw()
	if err != nil {
		return "", err
	}
	return relPathIn(path, r.workdir)
}

func relPathIn(path, root string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &PathOutsideError{Path: path}
	}
	return filepath.ToSlash(rel), nil
}

// fullPath maps a repo-relative slash path to the filesystem.
func (r *Repository) fullPath(rel string) string {
	return filepath.Join(r.workdir, filepath.FromSlash(rel))
}

// writeBlob stores data as a blob object and returns its hash.
func (r *Repository) writeBlob(data []byte) (plumbing.Hash, error) {
	obj := r.git.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	w, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return plumbing.ZeroHash, err
	}
	if err := w.Close(); err != nil {
		return plumbing.ZeroHash, err
	}
	return r.git.Storer.SetEncodedObject(obj)
}

// blobBytes reads back a stored blob.
func (r *Repository) blobBytes(h plumbing.Hash) ([]byte, error) {
	blob, err := object.GetBlob(r.git.Storer, h)
	if err != nil {
		return nil, err
	}
	rd, err := blob.Reader()
	if err != nil {
		return nil, err
	}
	defer rd.Close()
	return io.ReadAll(rd)
}
