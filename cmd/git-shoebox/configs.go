package main

import (
	"github.com/scott-cotton/cli"
)

type MainConfig struct {
	Verbose bool `cli:"name=v aliases=verbose desc='show complete listings instead of abbreviated ones'"`

	Main *cli.Command
}

type SetupConfig struct {
	*MainConfig

	Init bool `cli:"name=init desc='create a sample configuration file'"`

	Setup *cli.Command
}

type StageConfig struct {
	*MainConfig

	Discard bool `cli:"name=discard-external-changes desc='overwrite external changes to the managed files if necessary'"`

	Stage *cli.Command
}

type StatusConfig struct {
	*MainConfig

	Status *cli.Command
}

type ResetConfig struct {
	*MainConfig

	Force bool `cli:"name=f aliases=force desc='force reset'"`

	Reset *cli.Command
}

type ShowConfig struct {
	*MainConfig

	Bare bool `cli:"name=n aliases=bare desc='the path is a contents directory path, not a managed file path'"`

	Show *cli.Command
}

type FilterConfig struct {
	*MainConfig

	Clean  string `cli:"name=clean desc='run the clean filter for the given file'"`
	Smudge string `cli:"name=smudge desc='run the smudge filter for the given file'"`

	Filter *cli.Command
}
