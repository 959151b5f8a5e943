package repo

import (
	"errors"
	"fmt"

	"github.com/fieldlex/git-shoebox/config"
)

var (
	// ErrNotRepository is returned when no usable git repository is
	// found at or above the working directory.
	ErrNotRepository = errors.New("unable to locate the git repository\nAre you running `git shoebox` from outside your git project?")

	// ErrConfigMissing is returned when the config file is absent.
	ErrConfigMissing = fmt.Errorf("configuration file %s is missing\nPlease provide a valid configuration and run `git shoebox setup` before proceeding\nThe command `git shoebox setup -init` will generate an example configuration file for you", config.FileName)

	// ErrConfigChanged is returned when the working-copy config
	// differs from the staged one.
	ErrConfigChanged = fmt.Errorf("configuration file %s has changed\nPlease run `git shoebox setup` before proceeding", config.FileName)

	// ErrConfigNeeded is returned when the git filter or attributes
	// setup is out of date.
	ErrConfigNeeded = errors.New("the repository needs to be configured\nPlease run `git shoebox setup` before proceeding")

	// ErrConfigExists guards setup -init against clobbering.
	ErrConfigExists = fmt.Errorf("configuration file %s already exists", config.FileName)
)

// PathOutsideError reports a path that does not resolve inside the
// repository working directory.
type PathOutsideError struct {
	Path string
}

func (e *PathOutsideError) Error() string {
	return fmt.Sprintf("%q is not within the repository", e.Path)
}

// StageManagedError reports an attempt to stage a managed file with the
// plain git machinery while the index is being written.
type StageManagedError struct {
	Path string
}

func (e *StageManagedError) Error() string {
	return fmt.Sprintf("%q is a managed file and cannot be staged manually\n(use `git shoebox stage %s` to stage it)", e.Path, e.Path)
}

// NotFoundError reports a path missing from a revision or the index.
type NotFoundError struct {
	Path string
	Rev  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%q not found in %s", e.Path, e.Rev)
}

// RevisionError reports an unresolvable revision spec.
type RevisionError struct {
	Rev string
}

func (e *RevisionError) Error() string {
	return fmt.Sprintf("invalid git revision %q", e.Rev)
}

// InvalidPathError reports a repository artifact whose name is not
// ASCII-clean.
type InvalidPathError struct {
	Path string
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid characters in git artefact name %q", e.Path)
}
