package split

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/unicode/norm"
)

// Reserved paths for records that cannot be filed under a regular name.
const (
	OrphanPath       = "invalid/__.txt"
	MissingLabelPath = "invalid/label_missing.txt"
	MissingIDPath    = "invalid/id_missing.txt"
)

// SanitizeLabel turns a record label into a cross-platform file name:
// unicode glyphs are transliterated to ASCII, everything that is not a
// letter or digit becomes '_', and runs of '_' collapse to one.
//
// Two distinct labels may sanitize to the same string; the splitter
// merges such records into one file rather than rejecting them.
func SanitizeLabel(label string) string {
	var b strings.Builder
	last := byte(0)
	emit := func(c byte) {
		if c == '_' && last == '_' {
			return
		}
		b.WriteByte(c)
		last = c
	}
	for _, r := range label {
		var ascii string
		if r < utf8.RuneSelf {
			ascii = string(r)
		} else if ascii = unidecode.Unidecode(string(r)); ascii == "" {
			ascii = "_"
		}
		for i := 0; i < len(ascii); i++ {
			c := ascii[i]
			switch {
			case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
				emit(c)
			case c >= 'A' && c <= 'Z':
				emit(c + ('a' - 'A'))
			default:
				emit('_')
			}
		}
	}
	return b.String()
}

// Shard builds a two-level directory prefix ("ab/cd") from the first
// four letter-like code points of name, after canonical decomposition.
// Short names are padded with '_'. The prefixes keep files navigable by
// a human while spreading them over the tree, which is why no hash is
// involved.
func Shard(name string) string {
	prefix := [4]rune{'_', '_', '_', '_'}
	n := 0
	for _, r := range norm.NFD.String(name) {
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) {
			continue
		}
		prefix[n] = r
		n++
		if n == 4 {
			break
		}
	}
	return string(prefix[:2]) + "/" + string(prefix[2:])
}
