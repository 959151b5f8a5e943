package main

import (
	"fmt"
	"strings"

	"github.com/scott-cotton/cli"

	"github.com/fieldlex/git-shoebox/clob"
	"github.com/fieldlex/git-shoebox/repo"
)

func runStatus(cfg *StatusConfig, cc *cli.Context, args []string) error {
	if _, err := cfg.Status.Parse(cc, args); err != nil {
		return err
	}

	r, err := repo.Open()
	if err != nil {
		return err
	}

	var summaries []*fileSummary
	var loadErrs []string
	for _, d := range r.Cfg.Dictionaries {
		s, err := newFileSummary(r, d, summaryOpts{withStaged: true, withWorkdir: true})
		if err != nil {
			loadErrs = append(loadErrs, err.Error())
			continue
		}
		summaries = append(summaries, s)
	}
	if len(loadErrs) > 0 {
		return fmt.Errorf("%s\n⚠️  There were errors. Aborting.", strings.Join(loadErrs, "\n"))
	}

	fmt.Fprintf(cc.Out, "On branch %s\n", r.HeadName())

	anyWorkdir := false
	for _, s := range summaries {
		anyWorkdir = anyWorkdir || s.anyWorkdirIssues()
	}
	if anyWorkdir {
		fmt.Fprintf(cc.Out, "\n%s: some files managed by git-shoebox were externally modified.\n",
			styleWarn.Sprint("warning"))
		fmt.Fprintf(cc.Out, "  (these changes will be lost if you run %s)\n",
			styleBold.Sprint(`"git shoebox stage"`))
		fmt.Fprintf(cc.Out, "  (if these changes are intended stage them manually using %s)\n",
			styleBold.Sprint(`"git add ..."`))
		fmt.Fprintln(cc.Out)
		for _, s := range summaries {
			s.printWorkdirIssues(cc.Out, cfg.Verbose, false)
		}
	}

	nameWidth := 0
	for _, s := range summaries {
		if n := len(s.displayName); n > nameWidth {
			nameWidth = n
		}
	}

	anyStaged := false
	for _, s := range summaries {
		anyStaged = anyStaged || s.anyStaged()
	}
	if anyStaged {
		fmt.Fprintln(cc.Out, "Changes to be committed:")
		fmt.Fprintln(cc.Out)
		for _, s := range summaries {
			fmt.Fprintf(cc.Out, "        %s : %s\n",
				styleStaged.Sprintf("%-*s", nameWidth, s.displayName),
				statsLine(clob.Count(s.staged)))
		}
		for _, s := range summaries {
			s.printStagedDiff(cc.Out, cfg.Verbose)
		}
		fmt.Fprintln(cc.Out)
	}

	fmt.Fprintln(cc.Out, "Changes not staged for commit:")
	fmt.Fprintf(cc.Out, "  (use %s to stage the dictionaries to be committed)\n",
		styleBold.Sprint(`"git shoebox stage"`))
	fmt.Fprintln(cc.Out)
	for _, s := range summaries {
		fmt.Fprintf(cc.Out, "        %-*s : %s\n",
			nameWidth, s.displayName, statsLine(clob.Count(s.unstaged)))
	}
	for _, s := range summaries {
		s.printUnstagedDiff(cc.Out, cfg.Verbose)
	}
	fmt.Fprintln(cc.Out)

	issueCount := 0
	for _, s := range summaries {
		issueCount += len(s.issues)
		s.printIssues(cc.Out, cfg.Verbose)
	}
	fmt.Fprintln(cc.Out)

	if issueCount != 0 {
		fmt.Fprintf(cc.Out, "⚠️  There were %d issues in the dictionaries! Please check the list above.\n", issueCount)
	}
	if anyWorkdir {
		fmt.Fprintln(cc.Out, "⚠️  Some managed files were externally modified. Please check the list above.")
	}
	return nil
}
