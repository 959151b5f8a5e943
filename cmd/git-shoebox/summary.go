package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fieldlex/git-shoebox/clob"
	"github.com/fieldlex/git-shoebox/config"
	"github.com/fieldlex/git-shoebox/issue"
	"github.com/fieldlex/git-shoebox/repo"
	"github.com/fieldlex/git-shoebox/split"
)

// fileSummary is the per-dictionary state the commands work from: the
// pending change-set, what is already staged, external edits found in
// the working directory, and any diagnostics from parsing.
type fileSummary struct {
	displayName  string
	path         string
	contentsRoot string
	unstaged     []clob.Diff
	staged       []clob.Diff
	workdir      []repo.WorkdirIssue
	issues       []issue.Issue
}

type summaryOpts struct {
	strict      bool
	withStaged  bool
	withWorkdir bool
}

func newFileSummary(r *repo.Repository, cfg config.Dictionary, opts summaryOpts) (*fileSummary, error) {
	dict, err := split.Load(r.Workdir(), cfg, opts.strict)
	if err != nil {
		return nil, err
	}

	s := &fileSummary{
		displayName:  displayPath(r, cfg.Path),
		path:         cfg.Path,
		contentsRoot: dict.ContentsRoot(),
	}

	clobs, issues, err := dict.Split()
	if err != nil {
		return nil, err
	}
	s.issues = issues

	if opts.withWorkdir {
		s.workdir, err = r.ValidateWorkdir(s.contentsRoot)
		if err != nil {
			return nil, err
		}
	}

	s.unstaged, err = r.DiffClobs(s.contentsRoot, clobs)
	if err != nil {
		return nil, err
	}

	if opts.withStaged {
		s.staged, err = r.StagedDiffs(s.contentsRoot)
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

// displayPath renders a repo path relative to the current directory.
func displayPath(r *repo.Repository, path string) string {
	full := filepath.Join(r.Workdir(), filepath.FromSlash(path))
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(cwd, full)
	if err != nil {
		return path
	}
	return rel
}

// selectDictionaries resolves the positional file arguments, defaulting
// to every configured dictionary.
func selectDictionaries(r *repo.Repository, paths []string) ([]config.Dictionary, error) {
	if len(paths) == 0 {
		return r.Cfg.Dictionaries, nil
	}
	var dicts []config.Dictionary
	for _, path := range paths {
		rel, err := r.RelPath(path)
		if err != nil {
			return nil, err
		}
		d, err := r.Cfg.DictionaryByPath(rel)
		if err != nil {
			return nil, err
		}
		dicts = append(dicts, *d)
	}
	return dicts, nil
}

func (s *fileSummary) anyUnstaged() bool {
	return len(s.unstaged) > 0
}

func (s *fileSummary) anyStaged() bool {
	return len(s.staged) > 0
}

func (s *fileSummary) anyWorkdirIssues() bool {
	return len(s.workdir) > 0
}

func (s *fileSummary) anyIssues() bool {
	return len(s.issues) > 0
}

func (s *fileSummary) missingHeader() bool {
	for _, is := range s.issues {
		if is.Kind == issue.MissingDictionaryHeader {
			return true
		}
	}
	return false
}

// workdirChangesWillBeLost reports whether applying the pending
// change-set would overwrite an external edit.
func (s *fileSummary) workdirChangesWillBeLost() bool {
	modified := map[string]bool{}
	for _, w := range s.workdir {
		modified[w.Path] = true
	}
	for _, d := range s.unstaged {
		if modified[d.Path()] {
			return true
		}
	}
	return false
}

func (s *fileSummary) printUnstagedDiff(out io.Writer, verbose bool) {
	if !s.anyUnstaged() {
		return
	}
	sorted := make([]clob.Diff, len(s.unstaged))
	copy(sorted, s.unstaged)
	clob.SortNatural(sorted)

	fmt.Fprintf(out, "\n  %s:\n\n", styleFile.Sprint(s.displayName))
	printListing(out, len(sorted), verbose, func(i int) string {
		return fmt.Sprintf("%s %s", coloredMarker(sorted[i]), sorted[i].Filename())
	}, "other changes")
	fmt.Fprintln(out)
}

func (s *fileSummary) printStagedDiff(out io.Writer, verbose bool) {
	if !s.anyStaged() {
		return
	}
	fmt.Fprintf(out, "\n  %s:\n\n", styleStagedName.Sprint(s.displayName))
	printListing(out, len(s.staged), verbose, func(i int) string {
		return styleStaged.Sprintf("%s %s", s.staged[i].Marker(), s.staged[i].Filename())
	}, "other changes")
}

func (s *fileSummary) printIssues(out io.Writer, verbose bool) {
	if !s.anyIssues() {
		return
	}
	fmt.Fprintf(out, "\n  Issues in %s:\n\n", styleFile.Sprint(s.displayName))
	printListing(out, len(s.issues), verbose, func(i int) string {
		return s.issues[i].Render()
	}, "other issues")
}

// printWorkdirIssues lists external edits. When markDiscarded is set,
// files the pending change-set would overwrite are flagged.
func (s *fileSummary) printWorkdirIssues(out io.Writer, verbose, markDiscarded bool) {
	if !s.anyWorkdirIssues() {
		return
	}
	modified := map[string]bool{}
	if markDiscarded {
		for _, d := range s.unstaged {
			modified[d.Path()] = true
		}
	}
	printListing(out, len(s.workdir), verbose, func(i int) string {
		w := s.workdir[i]
		var status string
		switch w.Kind {
		case repo.AddedInWorkdir:
			status = "new in the working directory"
		case repo.UpdatedInWorkdir:
			status = "modified in working directory"
		case repo.DeletedInWorkdir:
			status = "deleted in working directory"
		default:
			return fmt.Sprintf("%s: %s", w.Path, styleBad.Sprint("invalid managed file path"))
		}
		if markDiscarded && modified[w.Path] {
			return fmt.Sprintf("%s: %s %s", w.Path, status, styleBad.Sprint("(change will be discarded)"))
		}
		if markDiscarded {
			return fmt.Sprintf("%s: %s", w.Path, status)
		}
		return fmt.Sprintf("%s: %s", w.Path, styleBad.Sprint(status))
	}, "other external changes")
	fmt.Fprintln(out)
}
