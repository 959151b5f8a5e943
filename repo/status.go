package repo

import (
	"sort"
	"strings"

	gogit "github.com/go-git/go-git/v5"

	"github.com/fieldlex/git-shoebox/clob"
)

// WorkdirIssueKind classifies an external modification of a managed
// tree found in the working directory.
type WorkdirIssueKind int

const (
	AddedInWorkdir WorkdirIssueKind = iota
	UpdatedInWorkdir
	DeletedInWorkdir
	InvalidPath
)

// WorkdirIssue is a single externally modified file under a managed
// contents tree.
type WorkdirIssue struct {
	Kind WorkdirIssueKind
	Path string
}

// ValidateWorkdir checks a managed contents tree for external
// modifications in the working directory. Changes already added to the
// index are not caught here.
func (r *Repository) ValidateWorkdir(root string) ([]WorkdirIssue, error) {
	status, err := r.wt.Status()
	if err != nil {
		return nil, err
	}

	var issues []WorkdirIssue
	prefix := root + "/"
	for path, st := range status {
		if !strings.HasPrefix(path, prefix) || !strings.HasSuffix(path, ".txt") {
			continue
		}
		if !isASCII(path) {
			issues = append(issues, WorkdirIssue{Kind: InvalidPath, Path: path})
			continue
		}
		switch st.Worktree {
		case gogit.Untracked:
			issues = append(issues, WorkdirIssue{Kind: AddedInWorkdir, Path: path})
		case gogit.Modified:
			issues = append(issues, WorkdirIssue{Kind: UpdatedInWorkdir, Path: path})
		case gogit.Deleted, gogit.Renamed:
			issues = append(issues, WorkdirIssue{Kind: DeletedInWorkdir, Path: path})
		}
	}
	sort.Slice(issues, func(a, b int) bool { return issues[a].Path < issues[b].Path })
	return issues, nil
}

// StagedDiffs lists the changes to a managed contents tree that are
// already staged in the index. Only paths are carried; content is not
// loaded.
func (r *Repository) StagedDiffs(root string) ([]clob.Diff, error) {
	status, err := r.wt.Status()
	if err != nil {
		return nil, err
	}

	var diffs []clob.Diff
	prefix := root + "/"
	for path, st := range status {
		if !strings.HasPrefix(path, prefix) || !strings.HasSuffix(path, ".txt") {
			continue
		}
		if !isASCII(path) {
			continue
		}
		switch st.Staging {
		case gogit.Added:
			diffs = append(diffs, clob.Add(clob.Clob{Path: path}))
		case gogit.Modified:
			diffs = append(diffs, clob.Update(clob.Clob{Path: path}))
		case gogit.Deleted, gogit.Renamed:
			diffs = append(diffs, clob.Delete(path))
		}
	}
	clob.SortNatural(diffs)
	return diffs, nil
}
