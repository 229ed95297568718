// Package normalize cleans user supplied text before it is validated or placed in a prompt
// Pipeline order
// 1 UTF-8 repair drop invalid bytes
// 2 Unicode NFKC normalization
// 3 Drop control characters except tab and line breaks
// 4 Drop invisible format runes (zero width space, word joiner, BOM, bidi overrides)
// 5 Width fold fullwidth to ASCII
// 6 Collapse whitespace runs and trim
// ZWJ and ZWNJ survive because Indic scripts need them
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKC,
			runes.Remove(runes.Predicate(control)),
			runes.Remove(runes.Predicate(invisible)),
			width.Fold,
		)
	},
}

// control reports C0/C1 controls and DEL, keeping tab and line breaks
func control(r rune) bool {
	switch r {
	case '\t', '\n', '\r':
		return false
	}
	return unicode.IsControl(r)
}

// invisible reports format runes that render as nothing but change meaning or length
func invisible(r rune) bool {
	switch {
	case r == '\u200b', r == '\u2060', r == '\ufeff', r == '\u00ad':
		return true
	case r >= '\u202a' && r <= '\u202e':
		return true
	case r >= '\u2066' && r <= '\u2069':
		return true
	}
	return false
}

func clean(s string) string {
	s = strings.ToValidUTF8(s, "")
	tr := chainPool.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		return s
	}
	return out
}

// Message cleans a chat question; line breaks are kept but collapsed
func Message(s string) string {
	if s == "" {
		return ""
	}
	return collapseSpaces(clean(s), true)
}

// Field cleans a single line value such as a name or place
func Field(s string) string {
	if s == "" {
		return ""
	}
	return collapseSpaces(clean(s), false)
}

// collapseSpaces converts whitespace runs to a single ASCII space
// with keepLines a run containing a newline becomes one newline instead
// leading and trailing whitespace is trimmed
func collapseSpaces(s string, keepLines bool) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inWS := false
	sawNL := false
	flush := func() {
		if !inWS {
			return
		}
		if sawNL && keepLines {
			b.WriteByte('\n')
		} else {
			b.WriteByte(' ')
		}
		inWS = false
		sawNL = false
	}
	for _, r := range s {
		if unicode.IsSpace(r) {
			inWS = true
			if r == '\n' || r == '\r' {
				sawNL = true
			}
			continue
		}
		flush()
		b.WriteRune(r)
	}
	flush()
	return strings.Trim(b.String(), " \n\t\r")
}
