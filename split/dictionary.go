// Package split loads a line-tagged dictionary file and decomposes it
// into content objects, one file per record (or per record group),
// collecting diagnostics about malformed input along the way.
package split

import (
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/fieldlex/git-shoebox/clob"
	"github.com/fieldlex/git-shoebox/config"
	"github.com/fieldlex/git-shoebox/debug"
	"github.com/fieldlex/git-shoebox/issue"
	"github.com/fieldlex/git-shoebox/scan"
)

// Dictionary is a loaded dictionary file, ready to be split once. The
// text buffer owns every line slice handed out by the scanner.
type Dictionary struct {
	cfg    config.Dictionary
	text   string
	sc     *scan.Scanner
	issues []issue.Issue
}

// HeaderMissingError is returned by strict loads when the file does not
// start with a dictionary header.
type HeaderMissingError struct {
	Path string
	Line int
}

func (e *HeaderMissingError) Error() string {
	return fmt.Sprintf("%s:%d: missing dictionary header", e.Path, e.Line+1)
}

// Load reads the dictionary file under workdir. In strict mode a
// missing header is an error; otherwise it is downgraded to an issue
// and scanning restarts from the top of the file.
func Load(workdir string, cfg config.Dictionary, strict bool) (*Dictionary, error) {
	path := filepath.Join(workdir, filepath.FromSlash(cfg.Path))

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("dictionary file %q does not exist", cfg.Path)
		}
		return nil, fmt.Errorf("reading %q: %w", cfg.Path, err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%q is not valid UTF-8 text", cfg.Path)
	}
	text := string(data)

	d := &Dictionary{cfg: cfg, text: text}
	d.sc = scan.New(text, cfg.RecordTag)
	if err := d.sc.ExpectDictionaryHeader(); err != nil {
		var herr *scan.HeaderError
		if !errors.As(err, &herr) {
			return nil, err
		}
		if strict {
			return nil, &HeaderMissingError{Path: cfg.Path, Line: herr.Line}
		}
		d.issues = append(d.issues, issue.Issue{
			Kind: issue.MissingDictionaryHeader,
			Line: scan.Line{Number: herr.Line},
		})
		d.sc = scan.New(text, cfg.RecordTag)
	}
	if debug.Scan() {
		debug.Logf("loaded %s: %d bytes, record tag %s", cfg.Path, len(text), cfg.RecordTag)
	}
	return d, nil
}

// ContentsRoot is the repo-relative directory the decomposed files live
// under.
func (d *Dictionary) ContentsRoot() string {
	return d.cfg.Path + ".contents"
}

// Split consumes the dictionary and produces the content objects plus
// every diagnostic found. The sequence is lazy and must be ranged over
// at most once.
func (d *Dictionary) Split() (iter.Seq[clob.Clob], []issue.Issue, error) {
	if d.cfg.Lifecycle != "" {
		return nil, nil, fmt.Errorf("lifecycle dictionaries are not supported yet")
	}
	if d.cfg.UniqueID {
		clobs, issues := splitByID(d)
		return clobs, issues, nil
	}
	clobs, issues := splitByLabel(d)
	return clobs, issues, nil
}

// collectOrphans consumes tokens up to the first record, reporting each
// content line as orphaned and keeping its text for the reserved orphan
// file. Blank lines are kept only when they separate content.
func collectOrphans(d *Dictionary) (orphans []string, issues []issue.Issue) {
	issues = d.issues
	for {
		line, tok, ok := d.sc.Next()
		if !ok {
			return
		}
		switch tok.Kind {
		case scan.RecordBegin:
			return
		case scan.Tagged, scan.Untagged:
			issues = append(issues, issue.Issue{Kind: issue.LineBeforeFirstRecord, Line: line})
			orphans = append(orphans, line.Text)
		case scan.Blank:
			if n := len(orphans); n > 0 && strings.TrimSpace(orphans[n-1]) != "" {
				orphans = append(orphans, "")
			}
		}
	}
}

// orphanClob wraps the orphaned lines, if any remain after trimming.
func orphanClob(orphans []string) (clob.Clob, bool) {
	text := strings.Join(orphans, "\n")
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if strings.TrimSpace(text) == "" {
		return clob.Clob{}, false
	}
	return clob.Clob{Path: OrphanPath, Content: text}.Validated(), true
}
