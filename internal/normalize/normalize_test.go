package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/refmerge/internal/model"
)

func TestRecord_Authors(t *testing.T) {
	r := model.Record{Authors: []model.Author{
		{Givennames: "j. r. r.", Surname: "tolkien", Fullname: "j.r.r. tolkien"},
		{Surname: "Plato"},
	}}
	Record(&r)
	assert.Equal(t, "J R R", r.Authors[0].Givennames)
	assert.Equal(t, "J R R Tolkien", r.Authors[0].Fullname)
	// Surnames are left alone.
	assert.Equal(t, "tolkien", r.Authors[0].Surname)
	assert.Equal(t, model.Author{Surname: "Plato"}, r.Authors[1])
}

func TestRecord_Title(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`"Quantum gravity: a review."`, "Quantum gravity: a review"},
		{"[12] Deep learning", "12] Deep learning"},
		{"...", ""},
		{"Élan vital!", "Élan vital"},
		{"plain", "plain"},
		{"Le Cafe\u0301.", "Le Cafe\u0301"},
		{"\"Le Cafe\u0301\"", "Le Cafe\u0301"},
	}
	for _, tt := range tests {
		r := model.Record{Title: tt.in}
		Record(&r)
		assert.Equal(t, tt.want, r.Title, "input %q", tt.in)
	}
}

func TestRecord_Source(t *testing.T) {
	r := model.Record{Source: "phys. rev. d"}
	Record(&r)
	assert.Equal(t, "Phys Rev D", r.Source)
}

func TestArXivID(t *testing.T) {
	assert.Equal(t, "hep-th/9901001", ArXivID("hepth/9901001"))
	assert.Equal(t, "cond-mat/0001001", ArXivID("condmat/0001001"))
	assert.Equal(t, "astro-ph/0101001", ArXivID("astro-ph/0101001"))
	assert.Equal(t, "math.AG/0309136", ArXivID("math.AG/0309136"))
	assert.Equal(t, "1704.01689", ArXivID("1704.01689"))
}

func TestRecord_ArXivFields(t *testing.T) {
	r := model.Record{
		ArXivID: "grqc/9512001",
		Identifiers: []model.Identifier{
			{Type: "arxiv", Value: "quantph/0001001"},
			{Type: "isbn", Value: "quantph"},
		},
	}
	Record(&r)
	assert.Equal(t, "gr-qc/9512001", r.ArXivID)
	assert.Equal(t, "quant-ph/0001001", r.Identifiers[0].Value)
	assert.Equal(t, "quantph", r.Identifiers[1].Value)
}

func TestRecord_EmptyUntouched(t *testing.T) {
	r := model.Record{Year: "2001", Volume: "3"}
	want := r
	Record(&r)
	assert.Equal(t, want, r)
}

func TestRecord_Idempotent(t *testing.T) {
	inputs := []model.Record{
		{
			Title:   "  (A study of things).  ",
			Source:  "j. appl. phys.",
			ArXivID: "hepph/9901001",
			Authors: []model.Author{{Givennames: "a.b.", Fullname: "a. b. mcdonald"}},
		},
		{Title: "--", Source: "..."},
		{Title: "(Le Cafe\u0301)"},
		{Source: "Nature", Authors: []model.Author{{Givennames: "ÉMILE"}}},
	}
	for _, in := range inputs {
		once := in.Clone()
		Record(&once)
		twice := once.Clone()
		Record(&twice)
		assert.Equal(t, once, twice)
	}
}

func TestRecords(t *testing.T) {
	rs := []model.Record{{Source: "a. b."}, {Title: "!x!"}}
	Records(rs)
	assert.Equal(t, "A B", rs[0].Source)
	assert.Equal(t, "x", rs[1].Title)
}
