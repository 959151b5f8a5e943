package scan

import (
	"fmt"
	"regexp"
)

// Dictionary files open with a Shoebox header line such as
//
//	\_sh v3.0 400 Dictionary
var headerPattern = regexp.MustCompile(`^\\_sh[ \t]+v3\.0[ \t]+[0-9]+[ \t]+Dictionary[ \t]*$`)

// HeaderError reports the line at which a dictionary header was
// expected but not found.
type HeaderError struct {
	Line int
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("missing dictionary header at line %d", e.Line+1)
}

// ExpectDictionaryHeader advances the scanner past the dictionary
// header, skipping any blank lines before it. On a mismatch the
// offending line number is reported and no further input is consumed;
// callers that tolerate a missing header construct a fresh scanner.
func (s *Scanner) ExpectDictionaryHeader() error {
	for {
		line, tok, ok := s.Next()
		if !ok {
			return &HeaderError{Line: s.last.Number}
		}
		if tok.Kind == Blank {
			continue
		}
		if headerPattern.MatchString(line.Text) {
			return nil
		}
		return &HeaderError{Line: line.Number}
	}
}
