package main

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/scott-cotton/cli"

	"github.com/fieldlex/git-shoebox/repo"
)

var pathSpecRe = regexp.MustCompile(`^(?:(?P<rev>[^:]*):)?(?P<path>.+)$`)

func runShow(cfg *ShowConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Show.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: show expects exactly one [rev:]path argument", cli.ErrUsage)
	}

	rev, path, err := parsePathSpec(args[0])
	if err != nil {
		return err
	}
	return show(cc, path, rev, cfg.Bare)
}

func show(cc *cli.Context, path, rev string, bare bool) error {
	rel, err := repo.RelPathHere(path)
	if err != nil {
		return err
	}
	if !bare {
		rel += ".contents"
	}

	r, err := repo.OpenRaw()
	if err != nil {
		return err
	}
	data, err := r.Reconstruct(rel, rev)
	if err != nil {
		return err
	}

	if _, err := cc.Out.Write(data); err != nil {
		return err
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		fmt.Fprintln(cc.Out)
	}
	return nil
}

// parsePathSpec splits a `rev:path` argument. The revision defaults to
// HEAD when absent; an explicitly empty revision (":path") selects the
// index.
func parsePathSpec(spec string) (rev, path string, err error) {
	m := pathSpecRe.FindStringSubmatch(spec)
	if m == nil {
		return "", "", fmt.Errorf("%q is not a valid git path specification", spec)
	}
	rev = "HEAD"
	if strings.Contains(spec, ":") {
		rev = strings.TrimSpace(m[pathSpecRe.SubexpIndex("rev")])
	}
	path = strings.TrimSpace(m[pathSpecRe.SubexpIndex("path")])
	return rev, path, nil
}
