package slug

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

const maxRunes = 200

var ErrInvalid = errors.New("slug: invalid slug")

// Validate accepts non-empty URL path segments of at most 200 runes without
// whitespace, slashes or control characters. Thai and other scripts are allowed.
func Validate(s string) error {
	if s == "" || !utf8.ValidString(s) || utf8.RuneCountInString(s) > maxRunes {
		return ErrInvalid
	}
	if strings.ContainsAny(s, "/\\?#") {
		return ErrInvalid
	}
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return ErrInvalid
		}
	}
	return nil
}
