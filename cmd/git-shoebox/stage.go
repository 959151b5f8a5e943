package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/scott-cotton/cli"

	"github.com/fieldlex/git-shoebox/clob"
	"github.com/fieldlex/git-shoebox/repo"
)

func runStage(cfg *StageConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Stage.Parse(cc, args)
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
		s, err := newFileSummary(r, d, summaryOpts{strict: true, withWorkdir: true})
		if err != nil {
			loadErrs = append(loadErrs, err.Error())
			continue
		}
		summaries = append(summaries, s)
	}
	if len(loadErrs) > 0 {
		return fmt.Errorf("%s\n⚠️  There were errors. Aborting. No changes to the repository were made",
			strings.Join(loadErrs, "\n"))
	}

	anyWorkdir := false
	for _, s := range summaries {
		anyWorkdir = anyWorkdir || s.anyWorkdirIssues()
	}
	if anyWorkdir {
		fmt.Fprintln(cc.Out, "Some files managed by git-shoebox were externally modified.")
		fmt.Fprintln(cc.Out)
		for _, s := range summaries {
			s.printWorkdirIssues(cc.Out, cfg.Verbose, true)
		}
	}

	if !cfg.Discard {
		var lost []string
		for _, s := range summaries {
			if s.workdirChangesWillBeLost() {
				lost = append(lost, fmt.Sprintf("some external modifications to the managed path %q would be lost", s.contentsRoot))
			}
		}
		if len(lost) > 0 {
			return fmt.Errorf("%s\n\nUse %s to force discarding any external modifications to managed files.",
				strings.Join(lost, "\n"),
				styleBold.Sprint(`"git shoebox stage -discard-external-changes ..."`))
		}
	}

	anyUnstaged := false
	for _, s := range summaries {
		anyUnstaged = anyUnstaged || s.anyUnstaged()
	}
	if !anyUnstaged {
		fmt.Fprintln(cc.Out, "✅ No changes detected.")
		return nil
	}

	for _, s := range summaries {
		s.printUnstagedDiff(cc.Out, cfg.Verbose)
	}

	if err := applyChanges(r, summaries, cc); err != nil {
		return fmt.Errorf("\n%w\n\n⚠️  There were critical issues, aborting. Nothing added to be committed, contents of the managed folders might have changed.", err)
	}

	issueCount := 0
	for _, s := range summaries {
		issueCount += len(s.issues)
		s.printIssues(cc.Out, cfg.Verbose)
	}

	staged := 0
	for _, s := range summaries {
		if s.anyUnstaged() {
			staged++
		}
	}
	fmt.Fprintf(cc.Out, "\n\n✅ Added %d managed dictionaries to be committed.\n\n", staged)

	if issueCount != 0 {
		fmt.Fprintf(cc.Out, "⚠️  There were %d issues in the dictionaries! Please check the list above and/or run %s.\n",
			issueCount, styleBold.Sprint("git shoebox status -v"))
	}
	if anyWorkdir {
		fmt.Fprintln(cc.Out, "⚠️  Some managed files were externally modified.")
	}
	return nil
}

// applyChanges stages the managed files and their change-sets in one
// index write.
func applyChanges(r *repo.Repository, summaries []*fileSummary, cc *cli.Context) error {
	st, err := r.Staging()
	if err != nil {
		return err
	}

	total := 0
	for _, s := range summaries {
		total += len(s.unstaged)
	}

	fmt.Fprintln(cc.Out, "Applying changes to the git repository index ...")

	var bar *progressbar.ProgressBar
	if isatty.IsTerminal(os.Stdout.Fd()) {
		bar = progressbar.NewOptions(total,
			progressbar.OptionSetDescription("changes applied"),
			progressbar.OptionSetWriter(os.Stdout),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionThrottle(100*time.Millisecond))
	}

	var added, modified, deleted int
	for _, s := range summaries {
		if !s.anyUnstaged() {
			continue
		}
		if err := st.StageManagedFile(s.path); err != nil {
			return err
		}
		err := st.StageDiffs(s.unstaged, func(d clob.Diff) {
			switch d.Kind {
			case clob.DiffAdd:
				added++
			case clob.DiffUpdate:
				modified++
			case clob.DiffDelete:
				deleted++
			}
			if bar != nil {
				bar.Add(1)
			}
		})
		if err != nil {
			return err
		}
	}
	if bar != nil {
		bar.Finish()
	}

	fmt.Fprintf(cc.Out, "%s Git index successfully updated (%d added, %d modified, %d deleted)\n",
		okMark(), added, modified, deleted)

	return st.Commit()
}
