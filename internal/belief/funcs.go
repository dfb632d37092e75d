package belief

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/refmerge/internal/model"
)

// TextFunc scores a string-valued field. The result lies in [0, 1]; an error
// means the function could not evaluate the value and counts as 0.
type TextFunc func(value string) (float64, error)

// AuthorsFunc scores an author list.
type AuthorsFunc func(authors []model.Author) (float64, error)

// IdentifiersFunc scores an identifier list.
type IdentifiersFunc func(ids []model.Identifier) (float64, error)

var (
	// integerRe matches a whitespace-delimited run of digits.
	integerRe = regexp.MustCompile(`(?:^|\s+)(\d+)(?:$|\s+)`)

	pagesRe = regexp.MustCompile(`^(\d+)\s*[\s\-–—._/:]+\s*(\d+)`)

	doiRe = regexp.MustCompile(
		`^(?:(?:doi:(?://)?)|(?:https?://(?:dx\.)?doi\.org/))?` +
			`(10[.][0-9]{3,}(?:[.][0-9]+)*/[^\s"&'#%]+)`,
	)

	// arXiv identifiers: 1501.00001v2 style and hep-th/9901001 style.
	arxivNewRe = regexp.MustCompile(`^(?i:arxiv:)?\d{4}\.\d{4,5}(?:v\d+)?$`)
	arxivOldRe = regexp.MustCompile(`^(?i:arxiv:)?[a-z]+(?:-[a-z]+)?(?:\.[A-Z]{2})?/\d{7}(?:v\d+)?$`)

	isbnPrefixRe = regexp.MustCompile(`^(?i:ISBN(?:-1[03])?:?\s?)`)
	isbn10Re     = regexp.MustCompile(`^\d{1,5}[- ]?\d+[- ]?\d+[- ]?[\dX]$`)
	isbn13Re     = regexp.MustCompile(`^97[89][- ]?\d{1,5}[- ]?\d+[- ]?\d+[- ]?\d$`)
)

// Unity returns 1 for any value.
func Unity(string) (float64, error) { return 1, nil }

// MinimumLength returns a function scoring 0 for values shorter than n
// characters. Empty values are not penalized.
func MinimumLength(n int) TextFunc {
	return func(value string) (float64, error) {
		if l := len([]rune(value)); l > 0 && l < n {
			return 0, nil
		}
		return 1, nil
	}
}

// Likely clamps f into [min, max]: plausible unless clearly wrong.
func Likely(f TextFunc, min, max float64) TextFunc {
	return func(value string) (float64, error) {
		p, err := f(value)
		if err != nil {
			return 0, err
		}
		if p > max {
			p = max
		}
		if p < min {
			p = min
		}
		return p, nil
	}
}

// Contains scores whether substr occurs in the value.
func Contains(substr string, falseProb, trueProb float64) TextFunc {
	return func(value string) (float64, error) {
		if strings.Contains(value, substr) {
			return trueProb, nil
		}
		return falseProb, nil
	}
}

// EndsWith scores whether the value ends with suffix.
func EndsWith(suffix string, falseProb, trueProb float64) TextFunc {
	return func(value string) (float64, error) {
		if strings.HasSuffix(value, suffix) {
			return trueProb, nil
		}
		return falseProb, nil
	}
}

// DoesntEndWith is the inverse of EndsWith.
func DoesntEndWith(suffix string, falseProb, trueProb float64) TextFunc {
	return EndsWith(suffix, trueProb, falseProb)
}

// DoesNotContainArXiv penalizes journal names that are really arXiv
// pointers.
func DoesNotContainArXiv(value string) (float64, error) {
	if strings.Contains(strings.ToLower(value), "arxiv") {
		return 0, nil
	}
	return 1, nil
}

// IsInteger scores 1 when the whole value parses as an integer. Non-numeric
// input is an evaluation error.
func IsInteger(value string) (float64, error) {
	if _, err := strconv.Atoi(strings.TrimSpace(value)); err != nil {
		return 0, eris.Wrapf(err, "not an integer: %q", value)
	}
	return 1, nil
}

// IsIntegerLike scores how much of the value is made of integers: the share
// of numeric tokens that parse, weighted by the share of the string they
// cover. A value with no numeric token scores 0.
func IsIntegerLike(value string) (float64, error) {
	if value == "" {
		return 0, nil
	}
	matches := integerRe.FindAllStringSubmatch(value, -1)
	if len(matches) == 0 {
		return 0, nil
	}
	parsed := 0
	for _, m := range matches {
		if _, err := strconv.Atoi(m[1]); err == nil {
			parsed++
		}
	}
	leftovers := integerRe.ReplaceAllString(value, "")
	covered := float64(len(value)-len(leftovers)) / float64(len(value))
	return float64(parsed) / float64(len(matches)) * covered, nil
}

// IsYear scores 1 for an integer strictly between 1600 and 2100.
func IsYear(value string) (float64, error) {
	year, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, nil
	}
	if year > 1600 && year < 2100 {
		return 1, nil
	}
	return 0, nil
}

// IsYearLike averages IsYear over every integer embedded in the value.
func IsYearLike(value string) (float64, error) {
	matches := integerRe.FindAllStringSubmatch(value, -1)
	if len(matches) == 0 {
		return 0, nil
	}
	var sum float64
	for _, m := range matches {
		p, _ := IsYear(m[1])
		sum += p
	}
	return sum / float64(len(matches)), nil
}

// IsPages scores a page range: 1 for start < end, 0.5 for a numeric but
// inverted or empty range, 0 when no range is recognized.
func IsPages(value string) (float64, error) {
	m := pagesRe.FindStringSubmatch(value)
	if m == nil {
		return 0, nil
	}
	start, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, eris.Wrapf(err, "page start %q", m[1])
	}
	end, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, eris.Wrapf(err, "page end %q", m[2])
	}
	if start < end {
		return 1, nil
	}
	return 0.5, nil
}

// ValidDOI scores 1 when the value starts with a DOI, optionally prefixed by
// "doi:" or a doi.org URL.
func ValidDOI(value string) (float64, error) {
	if doiRe.MatchString(strings.TrimSpace(value)) {
		return 1, nil
	}
	return 0, nil
}

// ValidArXivID scores 1 for a well-formed new- or old-style arXiv ID.
func ValidArXivID(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if arxivNewRe.MatchString(value) || arxivOldRe.MatchString(value) {
		return 1, nil
	}
	return 0, nil
}

// ValidISBN scores 1 for an ISBN-10 or ISBN-13 whose check digit is right,
// 0.5 when only the shape matches, 0 otherwise. The shape includes the
// digit count: 13 for ISBN-13, 10 for ISBN-10.
func ValidISBN(value string) (float64, error) {
	v := isbnPrefixRe.ReplaceAllString(strings.TrimSpace(value), "")
	digits := compact(v)
	switch {
	case isbn13Re.MatchString(v) && len(digits) == 13:
		if isbn13Checksum(digits) {
			return 1, nil
		}
		return 0.5, nil
	case isbn10Re.MatchString(v) && len(digits) == 10:
		if isbn10Checksum(digits) {
			return 1, nil
		}
		return 0.5, nil
	}
	return 0, nil
}

// ValidIdentifiers averages per-identifier validity. ISBNs, DOIs and arXiv
// IDs are checked against their grammar; other identifier types carry no
// evidence and score 1.
func ValidIdentifiers(ids []model.Identifier) (float64, error) {
	if len(ids) == 0 {
		return 0, eris.New("no identifiers to validate")
	}
	var sum float64
	for _, id := range ids {
		var p float64
		switch strings.ToLower(id.Type) {
		case "isbn":
			p, _ = ValidISBN(id.Value)
		case "doi":
			p, _ = ValidDOI(id.Value)
		case "arxiv":
			p, _ = ValidArXivID(id.Value)
		default:
			p = 1
		}
		sum += p
	}
	return sum / float64(len(ids)), nil
}

func compact(v string) string {
	return strings.NewReplacer("-", "", " ", "").Replace(v)
}

func isbn10Checksum(digits string) bool {
	sum := 0
	for i, c := range digits {
		var d int
		switch {
		case c == 'X' && i == 9:
			d = 10
		case c >= '0' && c <= '9':
			d = int(c - '0')
		default:
			return false
		}
		sum += d * (10 - i)
	}
	return sum%11 == 0
}

func isbn13Checksum(digits string) bool {
	if len(digits) != 13 {
		return false
	}
	sum := 0
	for i, c := range digits {
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	return sum%10 == 0
}
