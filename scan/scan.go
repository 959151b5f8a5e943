// Package scan interprets raw Shoebox dictionary text as a sequence of
// structural tokens.
//
// The scanner is line oriented: every input line classifies as tagged,
// untagged or blank, and lines whose tag equals the configured record
// tag additionally mark record boundaries. Lines and record bodies are
// views into the source text; the caller keeps the source buffer alive
// for as long as tokens are in use.
package scan

import (
	"strings"
	"unicode"
)

// Marker starts every tag in the line-tagged grammar.
const Marker = '\\'

// Line is one source line. Text excludes the trailing line terminator.
type Line struct {
	Number int
	Text   string
}

type Kind int

const (
	// RecordBegin marks the start of a record, issued before the tagged
	// line that opens it.
	RecordBegin Kind = iota
	// RecordEnd closes a record and carries its body.
	RecordEnd
	Tagged
	Untagged
	Blank
)

func (k Kind) String() string {
	return map[Kind]string{
		RecordBegin: "RecordBegin",
		RecordEnd:   "RecordEnd",
		Tagged:      "Tagged",
		Untagged:    "Untagged",
		Blank:       "Blank",
	}[k]
}

// Token is one structural element of a dictionary file.
type Token struct {
	Kind Kind
	// Tag includes the leading marker; Tagged only. Tag and Text are
	// contiguous slices of the source line.
	Tag  string
	Text string
	// Body is the record text from its opening tag line up to the next
	// boundary, trailing blank lines trimmed; RecordEnd only.
	Body string
}

// Scanner yields (Line, Token) pairs for a dictionary text. It is
// single pass: once consumed it cannot be rewound.
//
// A record boundary line produces up to three tokens (the close of the
// previous record, the record begin, and the tagged line itself), so a
// fixed three-slot queue holds tokens already produced but not yet
// yielded. Queued tokens report the line that triggered them.
type Scanner struct {
	src       string
	rest      string
	nextLine  int
	recordTag string
	queue     [3]Token
	queued    int
	last      Line
	// byte offset of the open record in src, -1 when none
	start int
}

// New returns a scanner over text with the given record tag (marker
// included).
func New(text, recordTag string) *Scanner {
	return &Scanner{
		src:       text,
		rest:      text,
		recordTag: recordTag,
		// read before any line only when the text is empty, in which
		// case the whole text is the correct view
		last:  Line{Number: 0, Text: text},
		start: -1,
	}
}

// Next returns the next (line, token) pair; ok is false once the input
// is exhausted. If a record is still open at end of input a final
// RecordEnd is emitted exactly once.
func (s *Scanner) Next() (Line, Token, bool) {
	if s.queued > 0 {
		s.queued--
		return s.last, s.queue[s.queued], true
	}

	if len(s.rest) == 0 {
		if s.start < 0 {
			return Line{}, Token{}, false
		}
		body := trimTrailingBlankLines(s.src[s.start:])
		s.start = -1
		return s.last, Token{Kind: RecordEnd, Body: body}, true
	}

	var raw, tail string
	if i := strings.IndexByte(s.rest, '\n'); i < 0 {
		raw, tail = s.rest, ""
	} else {
		raw, tail = s.rest[:i+1], s.rest[i+1:]
	}
	text := strings.TrimRight(raw, "\r\n")

	var tok Token
	switch tag, value, kind := classify(text); {
	case kind == Tagged && tag == s.recordTag:
		s.push(Token{Kind: Tagged, Tag: tag, Text: value})
		s.push(Token{Kind: RecordBegin})
		cur := len(s.src) - len(s.rest)
		if s.start >= 0 {
			body := trimTrailingBlankLines(s.src[s.start:cur])
			s.push(Token{Kind: RecordEnd, Body: body})
		}
		s.start = cur
		s.queued--
		tok = s.queue[s.queued]
	case kind == Tagged:
		tok = Token{Kind: Tagged, Tag: tag, Text: value}
	case kind == Untagged:
		tok = Token{Kind: Untagged, Text: text}
	default:
		tok = Token{Kind: Blank}
	}

	s.rest = tail
	s.last = Line{Number: s.nextLine, Text: text}
	s.nextLine++
	return s.last, tok, true
}

func (s *Scanner) push(t Token) {
	s.queue[s.queued] = t
	s.queued++
}

// classify splits a line into tag and value. The tag is the leading
// non-whitespace run including the marker; the value keeps the spaces
// that follow it, so tag+value stitches the line back together.
func classify(line string) (tag, value string, kind Kind) {
	switch {
	case len(line) > 0 && line[0] == Marker:
		end := strings.IndexFunc(line, unicode.IsSpace)
		if end < 0 {
			end = len(line)
		}
		return line[:end], line[end:], Tagged
	case strings.TrimSpace(line) == "":
		return "", "", Blank
	default:
		return "", "", Untagged
	}
}

// trimTrailingBlankLines drops whitespace-only lines from the end of
// text. The line terminator of the last kept line survives.
func trimTrailingBlankLines(text string) string {
	end := len(text)
	body := strings.TrimSuffix(text, "\n")
	for {
		i := strings.LastIndexByte(body, '\n')
		if strings.TrimSpace(body[i+1:]) != "" {
			break
		}
		end = i + 1
		if i < 0 {
			break
		}
		body = body[:i]
	}
	return text[:end]
}
