package users

import (
	"strings"
	"time"
	"unicode"
)

// externalIDTimeLayout renders month, year, day, hour, minute, second with no
// separators. Combined with the name prefix it forms the public user id.
const externalIDTimeLayout = "01200602150405"

// NewExternalID derives the public identifier for a new account: the first
// two letters of the first name, lowercased, followed by the creation
// timestamp. It is what clients and tokens reference instead of the row UUID.
func NewExternalID(firstName string, now time.Time) string {
	prefix := namePrefix(firstName)
	return prefix + now.Format(externalIDTimeLayout)
}

func namePrefix(firstName string) string {
	var letters []rune
	for _, r := range strings.ToLower(strings.TrimSpace(firstName)) {
		if unicode.IsLetter(r) {
			letters = append(letters, r)
			if len(letters) == 2 {
				break
			}
		}
	}
	if len(letters) == 0 {
		return "xx"
	}
	return string(letters)
}
