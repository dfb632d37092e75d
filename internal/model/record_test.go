package model

import (
	"encoding/json"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberLike_UnmarshalJSON(t *testing.T) {
	var r Record
	require.NoError(t, json.Unmarshal([]byte(`{"year": 2011, "volume": "12", "pages": null, "issue": 3.5}`), &r))
	assert.Equal(t, NumberLike("2011"), r.Year)
	assert.Equal(t, NumberLike("12"), r.Volume)
	assert.Equal(t, NumberLike(""), r.Pages)
	assert.Equal(t, NumberLike("3.5"), r.Issue)

	assert.Error(t, json.Unmarshal([]byte(`{"year": true}`), &r))
}

func TestRecord_JSONOmitsEmpty(t *testing.T) {
	data, err := json.Marshal(Record{Title: "T", Year: "2001"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"title": "T", "year": "2001"}`, string(data))
}

func TestRecord_TextRoundTrip(t *testing.T) {
	var r Record
	for _, f := range Fields {
		r.SetText(f, "v-"+string(f))
	}
	for _, f := range Fields {
		switch f {
		case FieldAuthors, FieldIdentifiers:
			assert.Empty(t, r.Text(f))
		default:
			assert.Equal(t, "v-"+string(f), r.Text(f))
		}
	}
}

func TestRecord_Has(t *testing.T) {
	r := Record{
		Title:       "   ",
		Year:        "1999",
		Authors:     []Author{{}},
		Identifiers: []Identifier{{Type: "isbn"}},
	}
	assert.False(t, r.Has(FieldTitle))
	assert.True(t, r.Has(FieldYear))
	assert.False(t, r.Has(FieldAuthors))
	assert.False(t, r.Has(FieldIdentifiers))

	r.Authors = append(r.Authors, Author{Surname: "Curie"})
	r.Identifiers[0].Value = "0306406152"
	assert.True(t, r.Has(FieldAuthors))
	assert.True(t, r.Has(FieldIdentifiers))
}

func TestRecord_FirstAuthorSurname(t *testing.T) {
	r := Record{Authors: []Author{{}, {Fullname: "Marie Curie"}, {Surname: "Bohr"}}}
	assert.Equal(t, "Curie", r.FirstAuthorSurname())

	r = Record{Authors: []Author{{Surname: "Bohr", Fullname: "Niels Bohr"}}}
	assert.Equal(t, "Bohr", r.FirstAuthorSurname())

	assert.Empty(t, (&Record{}).FirstAuthorSurname())
}

func TestRecord_Clone(t *testing.T) {
	s := 0.7
	r := Record{
		Authors:     []Author{{Surname: "A"}},
		Identifiers: []Identifier{{Type: "doi", Value: "x"}},
		Score:       &s,
	}
	c := r.Clone()
	c.Authors[0].Surname = "B"
	c.Identifiers[0].Value = "y"
	*c.Score = 0.1

	assert.Equal(t, "A", r.Authors[0].Surname)
	assert.Equal(t, "x", r.Identifiers[0].Value)
	assert.Equal(t, 0.7, *r.Score)
}

func ptrFloat(f float64) *float64 { return &f }

func TestPriors_Weight(t *testing.T) {
	p := Priors{
		"grobid":  {Default: ptrFloat(0.9), Fields: map[Field]float64{FieldYear: 0.3, FieldTitle: 0}},
		"cermine": {},
		"junk":    {Default: ptrFloat(0)},
	}
	assert.Equal(t, 0.3, p.Weight("grobid", FieldYear))
	assert.Equal(t, 0.0, p.Weight("grobid", FieldTitle))
	assert.Equal(t, 0.9, p.Weight("grobid", FieldSource))
	assert.Equal(t, DefaultPriorWeight, p.Weight("cermine", FieldSource))
	// An explicit zero default is a real weight, not "unset".
	assert.Equal(t, 0.0, p.Weight("junk", FieldTitle))
	assert.Equal(t, DefaultPriorWeight, p.Weight("unknown", FieldSource))

	var nilPriors Priors
	assert.Equal(t, DefaultPriorWeight, nilPriors.Weight("x", FieldYear))
}

func TestPriors_Validate(t *testing.T) {
	assert.NoError(t, Priors{"a": {Default: ptrFloat(1), Fields: map[Field]float64{FieldYear: 0}}}.Validate())
	assert.True(t, eris.Is(Priors{"a": {Default: ptrFloat(-0.1)}}.Validate(), ErrInvalidBatch))
	assert.True(t, eris.Is(Priors{"a": {Fields: map[Field]float64{FieldYear: 1.01}}}.Validate(), ErrInvalidBatch))
}
