package scan

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func collect(s *Scanner) (lines []Line, tokens []Token) {
	for {
		line, tok, ok := s.Next()
		if !ok {
			return
		}
		lines = append(lines, line)
		tokens = append(tokens, tok)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		line  string
		tag   string
		value string
		kind  Kind
	}{
		{`\tag value`, `\tag`, ` value`, Tagged},
		{`\tag   value  `, `\tag`, `   value  `, Tagged},
		{`\tag`, `\tag`, ``, Tagged},
		{`value`, ``, ``, Untagged},
		{`  value  `, ``, ``, Untagged},
		{`    `, ``, ``, Blank},
		{``, ``, ``, Blank},
	}
	for _, c := range cases {
		tag, value, kind := classify(c.line)
		if tag != c.tag || value != c.value || kind != c.kind {
			t.Errorf("classify(%q) = (%q, %q, %v), expected (%q, %q, %v)",
				c.line, tag, value, kind, c.tag, c.value, c.kind)
		}
	}
}

func TestTrimTrailingBlankLines(t *testing.T) {
	cases := []struct{ in, out string }{
		{"", ""},
		{"test1", "test1"},
		{"test1\n", "test1\n"},
		{"test1\r\n", "test1\r\n"},
		{"test1\n\n", "test1\n"},
		{"test1\r\n\r\n", "test1\r\n"},
		{"test1\n  \n\t\n", "test1\n"},
		{"\n\n", ""},
	}
	for _, c := range cases {
		if got := trimTrailingBlankLines(c.in); got != c.out {
			t.Errorf("trimTrailingBlankLines(%q) = %q, expected %q", c.in, got, c.out)
		}
	}
}

func TestScanner_SingleRecord(t *testing.T) {
	text := "\\lx foo\n\\ge bar\n"
	s := New(text, `\lx`)

	_, tokens := collect(s)
	expected := []Token{
		{Kind: RecordBegin},
		{Kind: Tagged, Tag: `\lx`, Text: " foo"},
		{Kind: Tagged, Tag: `\ge`, Text: " bar"},
		{Kind: RecordEnd, Body: "\\lx foo\n\\ge bar\n"},
	}
	if diff := cmp.Diff(expected, tokens); diff != "" {
		t.Errorf("token mismatch (-expected +got):\n%s", diff)
	}
}

func TestScanner_BoundaryTokenOrder(t *testing.T) {
	text := "\\lx a\n\\lx b\n"
	s := New(text, `\lx`)

	lines, tokens := collect(s)
	expected := []Token{
		{Kind: RecordBegin},
		{Kind: Tagged, Tag: `\lx`, Text: " a"},
		{Kind: RecordEnd, Body: "\\lx a\n"},
		{Kind: RecordBegin},
		{Kind: Tagged, Tag: `\lx`, Text: " b"},
		{Kind: RecordEnd, Body: "\\lx b\n"},
	}
	if diff := cmp.Diff(expected, tokens); diff != "" {
		t.Fatalf("token mismatch (-expected +got):\n%s", diff)
	}

	// the three tokens of the second boundary all report line 1
	for i := 2; i <= 4; i++ {
		if lines[i].Number != 1 {
			t.Errorf("token %d reported line %d, expected 1", i, lines[i].Number)
		}
	}
}

func TestScanner_BodyTrimsTrailingBlanks(t *testing.T) {
	text := "\\lx a\n\\ge b\n\n  \n\\lx c\n"
	s := New(text, `\lx`)

	var bodies []string
	for {
		_, tok, ok := s.Next()
		if !ok {
			break
		}
		if tok.Kind == RecordEnd {
			bodies = append(bodies, tok.Body)
		}
	}
	expected := []string{"\\lx a\n\\ge b\n", "\\lx c\n"}
	if diff := cmp.Diff(expected, bodies); diff != "" {
		t.Errorf("body mismatch (-expected +got):\n%s", diff)
	}
}

func TestScanner_FinalRecordEndFiresOnce(t *testing.T) {
	s := New("\\lx a\nbody", `\lx`)
	ends := 0
	for {
		_, tok, ok := s.Next()
		if !ok {
			break
		}
		if tok.Kind == RecordEnd {
			ends++
		}
	}
	if ends != 1 {
		t.Fatalf("expected exactly one RecordEnd, got %d", ends)
	}
	// the scanner stays exhausted
	if _, _, ok := s.Next(); ok {
		t.Fatal("scanner yielded a token after exhaustion")
	}
}

func TestScanner_BlankAndUntagged(t *testing.T) {
	text := "\\lx a\n\nfree text\n"
	s := New(text, `\lx`)

	_, tokens := collect(s)
	expected := []Token{
		{Kind: RecordBegin},
		{Kind: Tagged, Tag: `\lx`, Text: " a"},
		{Kind: Blank},
		{Kind: Untagged, Text: "free text"},
		{Kind: RecordEnd, Body: "\\lx a\n\nfree text\n"},
	}
	if diff := cmp.Diff(expected, tokens); diff != "" {
		t.Errorf("token mismatch (-expected +got):\n%s", diff)
	}
}

func TestScanner_Empty(t *testing.T) {
	s := New("", `\lx`)
	if _, _, ok := s.Next(); ok {
		t.Fatal("empty input yielded a token")
	}
}

func TestExpectDictionaryHeader(t *testing.T) {
	cases := []struct {
		name    string
		text    string
		errLine int // -1 means no error
	}{
		{"exact", "\\_sh v3.0 400 Dictionary\n\\lx a\n", -1},
		{"extra whitespace", "\\_sh   v3.0\t12  Dictionary  \n", -1},
		{"leading blanks", "\n   \n\\_sh v3.0 1 Dictionary\n", -1},
		{"wrong version", "\\_sh v2.0 400 Dictionary\n", 0},
		{"not a header", "\\lx a\n", 0},
		{"offset mismatch", "\n\n\\lx a\n", 2},
		{"empty", "", 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := New(c.text, `\lx`)
			err := s.ExpectDictionaryHeader()
			if c.errLine < 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			herr, ok := err.(*HeaderError)
			if !ok {
				t.Fatalf("expected *HeaderError, got %v", err)
			}
			if herr.Line != c.errLine {
				t.Errorf("error line = %d, expected %d", herr.Line, c.errLine)
			}
		})
	}
}

func TestExpectDictionaryHeader_ThenScan(t *testing.T) {
	text := "\\_sh v3.0 1 Dictionary\n\\lx foo\n\\ge bar\n"
	s := New(text, `\lx`)
	if err := s.ExpectDictionaryHeader(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, tokens := collect(s)
	expected := []Token{
		{Kind: RecordBegin},
		{Kind: Tagged, Tag: `\lx`, Text: " foo"},
		{Kind: Tagged, Tag: `\ge`, Text: " bar"},
		{Kind: RecordEnd, Body: "\\lx foo\n\\ge bar\n"},
	}
	if diff := cmp.Diff(expected, tokens); diff != "" {
		t.Errorf("token mismatch (-expected +got):\n%s", diff)
	}
}
