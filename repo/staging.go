package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/format/index"

	"github.com/fieldlex/git-shoebox/clob"
	"github.com/fieldlex/git-shoebox/debug"
)

// StagingArea batches filesystem and index mutations. Nothing touches
// the on-disk index until Commit, which writes it exactly once.
type StagingArea struct {
	repo *Repository
	idx  *index.Index
}

// Staging opens the index for mutation.
func (r *Repository) Staging() (*StagingArea, error) {
	idx, err := r.git.Storer.Index()
	if err != nil {
		return nil, err
	}
	return &StagingArea{repo: r, idx: idx}, nil
}

// StageDiffs applies a change-set to the working directory and the
// index. notify is called before each action; pass nil to stay quiet.
// Directories left empty by deletions are pruned bottom-up.
func (s *StagingArea) StageDiffs(diffs []clob.Diff, notify func(clob.Diff)) error {
	deletedParents := map[string]struct{}{}

	for _, d := range diffs {
		if notify != nil {
			notify(d)
		}
		switch d.Kind {
		case clob.DiffAdd, clob.DiffUpdate:
			full := s.repo.fullPath(d.Clob.Path)
			if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
				return fmt.Errorf("unable to write %q: %w", d.Clob.Path, err)
			}
			if err := os.WriteFile(full, []byte(d.Clob.Content), 0o644); err != nil {
				return fmt.Errorf("unable to write %q: %w", d.Clob.Path, err)
			}
			if err := s.addEntry(d.Clob.Path, []byte(d.Clob.Content)); err != nil {
				return err
			}
		case clob.DiffDelete:
			full := s.repo.fullPath(d.Clob.Path)
			if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("unable to delete %q: %w", d.Clob.Path, err)
			}
			if _, err := s.idx.Remove(d.Clob.Path); err != nil && !errors.Is(err, index.ErrEntryNotFound) {
				return err
			}
			if parent := parentOf(d.Clob.Path); parent != "" {
				deletedParents[parent] = struct{}{}
			}
		}
	}

	s.removeEmptyDirs(deletedParents)

	if debug.Stage() {
		debug.Logf("staged %d actions", len(diffs))
	}
	return nil
}

func parentOf(path string) string {
	if i := lastSlash(path); i > 0 {
		return path[:i]
	}
	return ""
}

func lastSlash(path string) int {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return i
		}
	}
	return -1
}

// removeEmptyDirs prunes deletion parents bottom-up. A directory that
// still holds files simply fails to remove and stops the walk there.
func (s *StagingArea) removeEmptyDirs(parents map[string]struct{}) {
	for len(parents) > 0 {
		next := map[string]struct{}{}
		for dir := range parents {
			if err := os.Remove(s.repo.fullPath(dir)); err != nil {
				continue
			}
			if parent := parentOf(dir); parent != "" {
				next[parent] = struct{}{}
			}
		}
		parents = next
	}
}

// addEntry stages content for a repo-relative path, creating the index
// entry if needed. The stat fields are taken from the file on disk so
// git considers the working copy clean.
func (s *StagingArea) addEntry(path string, content []byte) error {
	hash, err := s.repo.writeBlob(content)
	if err != nil {
		return err
	}
	entry, err := s.idx.Entry(path)
	if errors.Is(err, index.ErrEntryNotFound) {
		entry = s.idx.Add(path)
	} else if err != nil {
		return err
	}
	entry.Hash = hash
	entry.Mode = filemode.Regular
	entry.Size = uint32(len(content))
	if fi, err := os.Stat(s.repo.fullPath(path)); err == nil {
		entry.ModifiedAt = fi.ModTime()
		entry.Size = uint32(fi.Size())
	}
	return nil
}

// StageManagedFile stages the placeholder blob for a managed file while
// keeping the on-disk stat info in the entry. Git compares worktree
// stats against the index to decide whether a file changed; recording
// the real size keeps `git status` quiet even though the staged content
// is the placeholder.
func (s *StagingArea) StageManagedFile(path string) error {
	hash, err := s.repo.writeBlob([]byte(PlaceholderText))
	if err != nil {
		return err
	}
	entry, err := s.idx.Entry(path)
	if errors.Is(err, index.ErrEntryNotFound) {
		entry = s.idx.Add(path)
	} else if err != nil {
		return err
	}
	fi, err := os.Stat(s.repo.fullPath(path))
	if err != nil {
		return fmt.Errorf("unable to read %q: %w", path, err)
	}
	entry.Hash = hash
	entry.Mode = filemode.Regular
	entry.Size = uint32(fi.Size())
	entry.ModifiedAt = fi.ModTime()
	return nil
}

// StageFile stages a regular file from the working directory as-is.
func (s *StagingArea) StageFile(path string) error {
	content, err := os.ReadFile(s.repo.fullPath(path))
	if err != nil {
		return fmt.Errorf("unable to read %q: %w", path, err)
	}
	return s.addEntry(path, content)
}

// Commit writes the mutated index back in one shot.
func (s *StagingArea) Commit() error {
	return s.repo.git.Storer.SetIndex(s.idx)
}
