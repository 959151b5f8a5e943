package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/fieldlex/git-shoebox/clob"
)

// listings never show more than this many entries unless -v is given
const maxToShow = 8

var (
	styleOK         = color.New(color.FgGreen)
	styleWarn       = color.New(color.Bold, color.FgYellow)
	styleBad        = color.New(color.FgRed)
	styleBold       = color.New(color.Bold)
	styleFile       = color.New(color.Italic)
	styleStaged     = color.New(color.FgGreen)
	styleStagedName = color.New(color.FgGreen, color.Italic)
	styleAdded      = color.New(color.FgGreen)
	styleChanged    = color.New(color.FgYellow)
	styleDeleted    = color.New(color.FgRed)
)

func okMark() string {
	return styleOK.Sprint("✓")
}

// coloredMarker styles the fixed-width change label of a diff entry.
func coloredMarker(d clob.Diff) string {
	switch d.Kind {
	case clob.DiffAdd:
		return styleAdded.Sprint(d.Marker())
	case clob.DiffUpdate:
		return styleChanged.Sprint(d.Marker())
	default:
		return styleDeleted.Sprint(d.Marker())
	}
}

// statsLine renders a change-set summary with colored counters.
func statsLine(s clob.Stats) string {
	if s.NoChanges() {
		return "       " + styleOK.Sprint("no changes")
	}
	return fmt.Sprintf("%6d %s %6d %s %6d %s",
		s.Added, styleAdded.Sprint("added"),
		s.Changed, styleChanged.Sprint("modified"),
		s.Deleted, styleDeleted.Sprint("deleted"))
}

// printListing shows the head of a listing, with a trailer when entries
// were cut off.
func printListing(out io.Writer, total int, verbose bool, line func(i int) string, more string) {
	show := total
	if !verbose && show > maxToShow {
		show = maxToShow
	}
	for i := 0; i < show; i++ {
		fmt.Fprintf(out, "        %s\n", line(i))
	}
	if show < total {
		fmt.Fprintln(out, "        ...")
		fmt.Fprintf(out, "        (%d %s, use %s to see all)\n",
			total-show, more, styleBold.Sprint(`"git shoebox status -v"`))
	}
}
