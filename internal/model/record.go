package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Field names a reference field that takes part in belief scoring,
// arbitration and normalization.
type Field string

const (
	FieldRaw         Field = "raw"
	FieldTitle       Field = "title"
	FieldSource      Field = "source"
	FieldYear        Field = "year"
	FieldVolume      Field = "volume"
	FieldPages       Field = "pages"
	FieldIssue       Field = "issue"
	FieldAuthors     Field = "authors"
	FieldIdentifiers Field = "identifiers"
	FieldDOI         Field = "doi"
	FieldArXivID     Field = "arxiv_id"
	FieldRefType     Field = "reftype"
)

// Fields lists every arbitrated field in a fixed order. Score is not a field:
// it is written by the filter stage only.
var Fields = []Field{
	FieldRaw,
	FieldTitle,
	FieldSource,
	FieldYear,
	FieldVolume,
	FieldPages,
	FieldIssue,
	FieldAuthors,
	FieldIdentifiers,
	FieldDOI,
	FieldArXivID,
	FieldRefType,
}

// Author is one parsed author name of a cited work.
type Author struct {
	Givennames string `json:"givennames,omitempty"`
	Surname    string `json:"surname,omitempty"`
	Prefix     string `json:"prefix,omitempty"`
	Suffix     string `json:"suffix,omitempty"`
	Fullname   string `json:"fullname,omitempty"`
}

// IsEmpty reports whether no name part is set.
func (a Author) IsEmpty() bool {
	return a.Givennames == "" && a.Surname == "" && a.Prefix == "" && a.Suffix == "" && a.Fullname == ""
}

// Identifier is a persistent identifier of a cited work (ISBN, ISSN, URI, ...).
type Identifier struct {
	Type  string `json:"identifier_type"`
	Value string `json:"identifier"`
}

// NumberLike holds values such as years and volumes that extractors emit
// either as JSON strings or as JSON numbers.
type NumberLike string

// UnmarshalJSON accepts a string, a number or null.
func (n *NumberLike) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumberLike(s)
		return nil
	}
	var f json.Number
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	if i, err := f.Int64(); err == nil {
		*n = NumberLike(strconv.FormatInt(i, 10))
		return nil
	}
	*n = NumberLike(f.String())
	return nil
}

// Record is one bibliographic reference as reported by an extractor, or the
// merged consensus for a citation. Absent values are empty, never errors.
type Record struct {
	Raw         string       `json:"raw,omitempty"`
	Title       string       `json:"title,omitempty"`
	Source      string       `json:"source,omitempty"`
	Year        NumberLike   `json:"year,omitempty"`
	Volume      NumberLike   `json:"volume,omitempty"`
	Pages       NumberLike   `json:"pages,omitempty"`
	Issue       NumberLike   `json:"issue,omitempty"`
	Authors     []Author     `json:"authors,omitempty"`
	Identifiers []Identifier `json:"identifiers,omitempty"`
	DOI         string       `json:"doi,omitempty"`
	ArXivID     string       `json:"arxiv_id,omitempty"`
	RefType     string       `json:"reftype,omitempty"`

	// Score is unset until the filter stage writes it.
	Score *float64 `json:"score,omitempty"`
}

// Text returns the value of a string-valued field. It returns "" for
// authors and identifiers.
func (r *Record) Text(f Field) string {
	switch f {
	case FieldRaw:
		return r.Raw
	case FieldTitle:
		return r.Title
	case FieldSource:
		return r.Source
	case FieldYear:
		return string(r.Year)
	case FieldVolume:
		return string(r.Volume)
	case FieldPages:
		return string(r.Pages)
	case FieldIssue:
		return string(r.Issue)
	case FieldDOI:
		return r.DOI
	case FieldArXivID:
		return r.ArXivID
	case FieldRefType:
		return r.RefType
	}
	return ""
}

// SetText sets a string-valued field. Authors and identifiers are ignored.
func (r *Record) SetText(f Field, v string) {
	switch f {
	case FieldRaw:
		r.Raw = v
	case FieldTitle:
		r.Title = v
	case FieldSource:
		r.Source = v
	case FieldYear:
		r.Year = NumberLike(v)
	case FieldVolume:
		r.Volume = NumberLike(v)
	case FieldPages:
		r.Pages = NumberLike(v)
	case FieldIssue:
		r.Issue = NumberLike(v)
	case FieldDOI:
		r.DOI = v
	case FieldArXivID:
		r.ArXivID = v
	case FieldRefType:
		r.RefType = v
	}
}

// Has reports whether field f carries a non-empty value.
func (r *Record) Has(f Field) bool {
	switch f {
	case FieldAuthors:
		for _, a := range r.Authors {
			if !a.IsEmpty() {
				return true
			}
		}
		return false
	case FieldIdentifiers:
		for _, id := range r.Identifiers {
			if id.Value != "" {
				return true
			}
		}
		return false
	}
	return strings.TrimSpace(r.Text(f)) != ""
}

// FirstAuthorSurname returns the surname of the first author, falling back
// to the last token of the full name.
func (r *Record) FirstAuthorSurname() string {
	for _, a := range r.Authors {
		if a.Surname != "" {
			return a.Surname
		}
		if parts := strings.Fields(a.Fullname); len(parts) > 0 {
			return parts[len(parts)-1]
		}
	}
	return ""
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	out := r
	if r.Authors != nil {
		out.Authors = append([]Author(nil), r.Authors...)
	}
	if r.Identifiers != nil {
		out.Identifiers = append([]Identifier(nil), r.Identifiers...)
	}
	if r.Score != nil {
		s := *r.Score
		out.Score = &s
	}
	return out
}
