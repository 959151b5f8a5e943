package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "git-shoebox").
		WithSynopsis("git shoebox [opts] command [opts]").
		WithDescription("git shoebox syncs line-tagged dictionary files with the git repository.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return shoeboxMain(cfg, cc, args)
		}).
		WithSubs(
			SetupCommand(cfg),
			StageCommand(cfg),
			StatusCommand(cfg),
			ResetCommand(cfg),
			ShowCommand(cfg),
			FilterCommand(cfg))
}

func shoeboxMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

func SetupCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &SetupConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Setup, "setup").
		WithSynopsis("setup [-init]").
		WithDescription("update the repository configuration according to the configuration file").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return runSetup(cfg, cc, args)
		})
}

func StageCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &StageConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Stage, "stage").
		WithSynopsis("stage [-discard-external-changes] [files]").
		WithDescription("add the changes in the managed dictionary files to the git staging area").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return runStage(cfg, cc, args)
		})
}

func StatusCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &StatusConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Status, "status").
		WithSynopsis("status").
		WithDescription("print the status of the managed dictionary files").
		WithRun(func(cc *cli.Context, args []string) error {
			return runStatus(cfg, cc, args)
		})
}

func ResetCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ResetConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Reset, "reset").
		WithSynopsis("reset [-f] [files]").
		WithDescription("discard the changes in the managed dictionary files").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return runReset(cfg, cc, args)
		})
}

func ShowCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ShowConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Show, "show").
		WithSynopsis("show [-n] [rev:]path").
		WithDescription("print the reconstituted contents of a managed dictionary file").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return runShow(cfg, cc, args)
		})
}

func FilterCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &FilterConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Filter, "filter").
		WithSynopsis("filter -clean <file> | -smudge <file>").
		WithDescription("git clean/smudge filter entry points (invoked by git itself)").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return runFilter(cfg, cc, args)
		})
}
