// Package normalize cleans up the field values of merged references.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/refmerge/internal/model"
)

var dotsRe = regexp.MustCompile(`\.\s*`)

// Record normalizes r in place. Only populated fields are touched:
// author given names and full names, title, source, the arXiv ID and arXiv
// identifiers. Applying it twice has the same effect as applying it once.
func Record(r *model.Record) {
	// Casers keep state and must not be shared across goroutines.
	title := cases.Title(language.Und)

	for i := range r.Authors {
		a := &r.Authors[i]
		if a.Givennames != "" {
			a.Givennames = title.String(removeDots(a.Givennames))
		}
		if a.Fullname != "" {
			a.Fullname = title.String(removeDots(a.Fullname))
		}
	}
	if r.Title != "" {
		r.Title = trimNonAlnum(r.Title)
	}
	if r.Source != "" {
		r.Source = title.String(removeDots(r.Source))
	}
	if r.ArXivID != "" {
		r.ArXivID = ArXivID(r.ArXivID)
	}
	for i := range r.Identifiers {
		id := &r.Identifiers[i]
		if strings.EqualFold(id.Type, "arxiv") {
			id.Value = ArXivID(id.Value)
		}
	}
}

// Records normalizes every record in place.
func Records(records []model.Record) {
	for i := range records {
		Record(&records[i])
	}
}

// removeDots turns every dot and the whitespace after it into a single
// space, then trims.
func removeDots(s string) string {
	return strings.TrimSpace(dotsRe.ReplaceAllString(s, " "))
}

// trimNonAlnum strips leading and trailing runes that are neither letters,
// digits nor combining marks, so decomposed accents stay attached.
func trimNonAlnum(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsMark(r)
	})
}
