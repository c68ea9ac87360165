package games

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Game is one catalog record. Normalized is derived from Name exactly
// once, at catalog load time.
type Game struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Normalized string `json:"-"`
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases a name, strips diacritics and symbol runes, and
// collapses runs of whitespace to single spaces. Names that carry no
// letters or digits normalize to "".
func Normalize(name string) string {
	if s, _, err := transform.String(stripMarks, name); err == nil {
		name = s
	}

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// New builds a Game with its Normalized field populated.
func New(id int, name string) Game {
	return Game{ID: id, Name: name, Normalized: Normalize(name)}
}
