package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/maruel/natural"
	"github.com/scott-cotton/cli"

	"github.com/fieldlex/git-shoebox/repo"
	"github.com/fieldlex/git-shoebox/split"
)

func runFilter(cfg *FilterConfig, cc *cli.Context, args []string) error {
	if _, err := cfg.Filter.Parse(cc, args); err != nil {
		return err
	}
	switch {
	case cfg.Clean != "" && cfg.Smudge == "":
		return runClean(cc, cfg.Clean)
	case cfg.Smudge != "" && cfg.Clean == "":
		// the smudge filter reassembles the managed file from HEAD
		return show(cc, cfg.Smudge, "HEAD", false)
	default:
		return fmt.Errorf("%w: filter expects exactly one of -clean or -smudge", cli.ErrUsage)
	}
}

// runClean is the git clean filter. Git calls it when staging or
// diffing a managed file; the tool hijacks it for two jobs: reject
// plain `git add` of a managed file (detected by the index lock being
// held), and otherwise hand git a short change report so that status
// and diff output stays meaningful.
func runClean(cc *cli.Context, path string) error {
	r, err := repo.OpenRaw()
	if err != nil {
		return err
	}
	if r.CheckIndexLock() {
		return &repo.StageManagedError{Path: path}
	}

	// a failure in the report builder must not fail the filter; git
	// would refuse the whole operation
	report, err := cleanReport(path)
	if err != nil || report == "" {
		report = repo.PlaceholderText
	}
	_, err = cc.Out.Write([]byte(report))
	return err
}

func cleanReport(path string) (string, error) {
	r, err := repo.Open()
	if err != nil {
		return "", err
	}
	rel, err := r.RelPath(path)
	if err != nil {
		return "", err
	}
	cfg, err := r.Cfg.DictionaryByPath(rel)
	if err != nil {
		return "", err
	}

	dict, err := split.Load(r.Workdir(), *cfg, false)
	if err != nil {
		return "", err
	}
	clobs, _, err := dict.Split()
	if err != nil {
		return "", err
	}
	changes, err := r.DiffClobs(dict.ContentsRoot(), clobs)
	if err != nil {
		return "", err
	}
	sort.SliceStable(changes, func(a, b int) bool {
		return natural.Less(changes[a].Filename(), changes[b].Filename())
	})

	var b strings.Builder
	for _, d := range changes {
		b.WriteString(d.Marker())
		b.WriteByte(' ')
		b.WriteString(d.Filename())
		b.WriteByte('\n')
	}
	return b.String(), nil
}
