package issue

import (
	"strings"
	"testing"

	"github.com/fieldlex/git-shoebox/scan"
)

func TestSortByLine(t *testing.T) {
	issues := []Issue{
		{Kind: UntaggedLine, Line: scan.Line{Number: 7}},
		{Kind: AmbiguousID, Line: scan.Line{Number: 2}},
		{Kind: MissingID, Line: scan.Line{Number: 2}},
		{Kind: LineBeforeFirstRecord, Line: scan.Line{Number: 0}},
	}
	SortByLine(issues)

	numbers := make([]int, len(issues))
	for i, is := range issues {
		numbers[i] = is.Line.Number
	}
	for i := 1; i < len(numbers); i++ {
		if numbers[i-1] > numbers[i] {
			t.Fatalf("issues not sorted by line: %v", numbers)
		}
	}
	// stable for equal lines
	if issues[1].Kind != AmbiguousID || issues[2].Kind != MissingID {
		t.Errorf("sort was not stable for issues on the same line")
	}
}

func TestMessageIsOneBased(t *testing.T) {
	is := Issue{Kind: MissingDictionaryHeader, Line: scan.Line{Number: 0}}
	if !strings.Contains(is.String(), "line:1") {
		t.Errorf("message %q does not report a one-based line", is.String())
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in     string
		length int
		out    string
	}{
		{"short", 30, "short"},
		{"0123456789", 8, "01234..."},
		{"", 30, ""},
	}
	for _, c := range cases {
		if got := truncate(c.in, c.length); got != c.out {
			t.Errorf("truncate(%q, %d) = %q, expected %q", c.in, c.length, got, c.out)
		}
	}
}
