package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/scott-cotton/cli"

	"github.com/fieldlex/git-shoebox/config"
	"github.com/fieldlex/git-shoebox/repo"
)

func runSetup(cfg *SetupConfig, cc *cli.Context, args []string) error {
	if _, err := cfg.Setup.Parse(cc, args); err != nil {
		return err
	}

	if cfg.Init {
		workdir, err := repo.WorkdirHere()
		if err != nil {
			return err
		}
		path := filepath.Join(workdir, config.FileName)
		if _, err := os.Stat(path); err == nil {
			return repo.ErrConfigExists
		}
		if err := os.WriteFile(path, []byte(config.Sample), 0o644); err != nil {
			return fmt.Errorf("unable to write %q: %w", config.FileName, err)
		}
		fmt.Fprintf(cc.Out, "\n✅  Written a sample configuration file. Please edit it and run %s again\n",
			styleBold.Sprint("`git shoebox setup`"))
		return nil
	}

	r, err := repo.OpenRaw()
	if err != nil {
		return err
	}
	if err := r.Configure(cc.Out); err != nil {
		return fmt.Errorf("%w\n\n⚠️  There were errors. Configuration might be incomplete.", err)
	}
	fmt.Fprintln(cc.Out, "\n✅  Configuration successfully updated")
	return nil
}
