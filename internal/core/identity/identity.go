// Package identity derives the stable key a person's question quota is stored under
//
// The key is sha256(lower(trim(firstName)) + "_" + dateOfBirth), hex encoded.
// Date of birth is used verbatim; callers validate its format before deriving
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// KeyLen is the length of a hex encoded key
const KeyLen = sha256.Size * 2

// casers are stateful, so each goroutine borrows its own
var lowerPool = sync.Pool{
	New: func() any { c := cases.Lower(language.Und); return &c },
}

// FoldName trims and lowercases a first name the way keys expect
func FoldName(firstName string) string {
	s := strings.TrimSpace(firstName)
	if s == "" {
		return ""
	}
	c := lowerPool.Get().(*cases.Caser)
	out := c.String(s)
	lowerPool.Put(c)
	return out
}

// Key returns the identity key for a first name and date of birth
func Key(firstName, dateOfBirth string) string {
	sum := sha256.Sum256([]byte(FoldName(firstName) + "_" + dateOfBirth))
	return hex.EncodeToString(sum[:])
}

// Short returns a log safe prefix of a key
func Short(key string) string {
	if len(key) <= 12 {
		return key
	}
	return key[:12]
}
