package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/scott-cotton/cli"

	"github.com/fieldlex/git-shoebox/clob"
	"github.com/fieldlex/git-shoebox/repo"
)

func runReset(cfg *ResetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Reset.Parse(cc, args)
	if err != nil {
		return err
	}

	r, err := repo.Open()
	if err != nil {
		return err
	}
	dicts, err := selectDictionaries(r, args)
	if err != nil {
		return err
	}

	var summaries []*fileSummary
	var loadErrs []string
	for _, d := range dicts {
		s, err := newFileSummary(r, d, summaryOpts{})
		if err != nil {
			loadErrs = append(loadErrs, err.Error())
			continue
		}
		summaries = append(summaries, s)
	}
	if len(loadErrs) > 0 {
		return fmt.Errorf("%s\n⚠️  There were errors. Aborting. No changes to the working directory were made",
			strings.Join(loadErrs, "\n"))
	}

	// only files that actually diverge from the index need restoring
	var pending []*fileSummary
	for _, s := range summaries {
		if s.anyUnstaged() || s.missingHeader() {
			pending = append(pending, s)
		}
	}
	if len(pending) == 0 {
		fmt.Fprintln(cc.Out, "✅ Nothing to do.")
		return nil
	}

	for _, s := range pending {
		s.printUnstagedDiff(cc.Out, cfg.Verbose)
	}

	if !cfg.Force {
		cmd := fmt.Sprintf("git shoebox reset -f %s", strings.Join(args, " "))
		return fmt.Errorf("⚠️  Resetting will discard any changes you have made to the files.\n      (if you understand this and still wish to proceed, use %s)",
			styleBold.Sprint(strings.TrimSpace(cmd)))
	}

	for _, s := range pending {
		data, err := r.Reconstruct(s.contentsRoot, "")
		if err != nil {
			return err
		}
		full := filepath.Join(r.Workdir(), filepath.FromSlash(s.path))
		if err := os.WriteFile(full, data, 0o644); err != nil {
			return fmt.Errorf("unable to write %q: %w", s.path, err)
		}

		stats := restoreStats(s.unstaged)
		fmt.Fprintf(cc.Out, "%s Restored %s from git index (%d added, %d modified, %d deleted)\n",
			okMark(), s.displayName, stats.Added, stats.Changed, stats.Deleted)
	}

	fmt.Fprintf(cc.Out, "\n✅  Reset %d managed dictionaries.\n", len(pending))
	return nil
}

// restoreStats inverts a pending change-set: what the sync would have
// added is what the restore deletes, and vice versa.
func restoreStats(diffs []clob.Diff) clob.Stats {
	s := clob.Count(diffs)
	return clob.Stats{Added: s.Deleted, Changed: s.Changed, Deleted: s.Added}
}
