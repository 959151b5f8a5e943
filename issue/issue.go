// Package issue defines the structural problems detected in a managed
// dictionary file.
//
// Issues never stop the pipeline: they accumulate during a run and are
// reported afterwards, sorted by source line. The sort is part of the
// reporting contract, not cosmetics.
package issue

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/rivo/uniseg"

	"github.com/fieldlex/git-shoebox/scan"
)

type Kind int

const (
	// LineBeforeFirstRecord flags content occurring before the first
	// record boundary.
	LineBeforeFirstRecord Kind = iota
	// UntaggedLine flags a non-blank line without a tag inside a record.
	UntaggedLine
	// MissingRecordLabel flags a record whose tag line has no value.
	MissingRecordLabel
	// MissingID flags a record without a usable unique identifier.
	MissingID
	// InvalidID flags an identifier value that does not match the
	// configured pattern.
	InvalidID
	// ExtraneousID flags additional identifier lines beyond the first.
	ExtraneousID
	// AmbiguousID flags every occurrence of an identifier shared by
	// more than one record.
	AmbiguousID
	// MissingDictionaryHeader flags a file that does not open with a
	// dictionary header.
	MissingDictionaryHeader
)

// Issue is one structural problem. Line is the offending line (for
// MissingDictionaryHeader only the number is meaningful); Record is the
// owning record's tag line for the identifier issues.
type Issue struct {
	Kind   Kind
	Line   scan.Line
	Record scan.Line
}

// SortByLine orders issues by source line, preserving the relative
// order of issues on the same line.
func SortByLine(issues []Issue) {
	sort.SliceStable(issues, func(a, b int) bool {
		return issues[a].Line.Number < issues[b].Line.Number
	})
}

var (
	lineStyle  = color.New(color.FgYellow, color.Italic)
	valueStyle = color.New(color.FgCyan)
)

// Render returns the issue message with terminal styling.
func (i Issue) Render() string {
	return i.message(lineStyle.Sprint, valueStyle.Sprint)
}

func (i Issue) String() string {
	plain := func(a ...any) string { return fmt.Sprint(a...) }
	return i.message(plain, plain)
}

func (i Issue) message(header, value func(...any) string) string {
	h := header(fmt.Sprintf("line:%-8d", i.Line.Number+1))
	quote := func(s string) string { return "'" + value(s) + "'" }
	line := func() string { return quote(strings.TrimSpace(i.Line.Text)) }
	record := func() string { return quote(strings.TrimSpace(i.Record.Text)) }

	switch i.Kind {
	case LineBeforeFirstRecord:
		return fmt.Sprintf("%s line %s occurs before the first record", h, quote(truncate(i.Line.Text, 30)))
	case UntaggedLine:
		return fmt.Sprintf("%s untagged line %s", h, quote(truncate(i.Line.Text, 30)))
	case MissingRecordLabel:
		return fmt.Sprintf("%s missing a label in the record %s", h, line())
	case MissingID:
		return fmt.Sprintf("%s missing ID tag in the record %s", h, line())
	case InvalidID:
		return fmt.Sprintf("%s invalid ID tag %s in the record %s", h, line(), record())
	case ExtraneousID:
		return fmt.Sprintf("%s extraneous ID tag %s will be ignored in the record %s", h, line(), record())
	case AmbiguousID:
		return fmt.Sprintf("%s ID tag %s in the record %s is not unique", h, line(), record())
	case MissingDictionaryHeader:
		return fmt.Sprintf("%s missing dictionary header", h)
	}
	return fmt.Sprintf("%s unknown issue", h)
}

// truncate limits text to length grapheme clusters, appending dots when
// anything was cut.
func truncate(text string, length int) string {
	var b strings.Builder
	g := uniseg.NewGraphemes(text)
	n := 0
	for n < length-3 && g.Next() {
		b.WriteString(g.Str())
		n++
	}
	if b.Len() < len(text) {
		b.WriteString("...")
	}
	return b.String()
}
