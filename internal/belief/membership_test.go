package belief

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/refmerge/internal/model"
)

type setMembership map[string]bool

func (s setMembership) Contains(w string) bool { return s[w] }

func TestDictionary_NilIsUnity(t *testing.T) {
	var d *Dictionary
	assert.Equal(t, 1.0, score(t, d.TitleWords(), "anything at all"))
	assert.Equal(t, 1.0, score(t, d.AuthorWords(), "Smith"))

	p, err := d.AuthorStructure()([]model.Author{{Surname: "van der Berg"}})
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3.0, p, 1e-9)
}

func TestDictionary_TitleWords(t *testing.T) {
	d := &Dictionary{Title: setMembership{"quantum": true, "gravity": true}}
	assert.InDelta(t, 2.0/3.0, score(t, d.TitleWords(), "Quantum gravity, revisited"), 1e-9)
	assert.Equal(t, 0.0, score(t, d.TitleWords(), "..."))
}

func TestDictionary_AuthorStructure(t *testing.T) {
	d := &Dictionary{Author: setMembership{"john": true, "smith": true, "jane": true}}
	f := d.AuthorStructure()

	p, err := f([]model.Author{
		{Givennames: "John", Surname: "Smith"},
		{Givennames: "Jane", Surname: "Doe Roe"},
	})
	require.NoError(t, err)
	// John Smith: 2/2 words known. Jane Doe Roe: 1/3 known, halved for a
	// two-word surname.
	assert.InDelta(t, (1.0+(1.0/3.0)/2.0)/2.0, p, 1e-9)

	p, err = f(nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, p)
}

func TestBloomMembership_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	title := NewBloomMembership([]string{"Quantum Gravity", "renormalization"}, 0.001)
	author := NewBloomMembership([]string{"Smith", "Jones"}, 0.001)
	require.NoError(t, title.WriteFile(filepath.Join(dir, TitleFilterFile)))
	require.NoError(t, author.WriteFile(filepath.Join(dir, AuthorFilterFile)))

	d, err := LoadDictionary(dir)
	require.NoError(t, err)
	assert.True(t, d.Title.Contains("quantum"))
	assert.True(t, d.Title.Contains("renormalization"))
	assert.True(t, d.Author.Contains("smith"))
}

func TestDictionaryOrUnity_MissingFiles(t *testing.T) {
	d := DictionaryOrUnity(t.TempDir())
	assert.Nil(t, d)
	assert.Equal(t, 1.0, score(t, d.TitleWords(), "anything"))
}
