package belief

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/refmerge/internal/model"
	"github.com/sells-group/refmerge/internal/textutil"
)

// Filter file names inside the dictionary data directory.
const (
	TitleFilterFile  = "words_bloom_filter_title.bytes"
	AuthorFilterFile = "words_bloom_filter_auth.bytes"
)

// Membership answers whether a word belongs to a known vocabulary.
type Membership interface {
	Contains(word string) bool
}

// BloomMembership is a Membership backed by a Bloom filter.
type BloomMembership struct {
	filter *bloom.BloomFilter
}

// NewBloomMembership builds a filter holding words, sized for the given
// false-positive rate. Words are stored in cleaned form.
func NewBloomMembership(words []string, fpRate float64) *BloomMembership {
	n := uint(len(words))
	if n == 0 {
		n = 1
	}
	f := bloom.NewWithEstimates(n, fpRate)
	for _, w := range words {
		for _, tok := range textutil.Words(w, true) {
			f.AddString(tok)
		}
	}
	return &BloomMembership{filter: f}
}

// Contains implements Membership.
func (b *BloomMembership) Contains(word string) bool {
	return b.filter.TestString(word)
}

// WriteFile serializes the filter to path.
func (b *BloomMembership) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "belief: create filter %s", path)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := b.filter.WriteTo(w); err != nil {
		return eris.Wrapf(err, "belief: write filter %s", path)
	}
	return eris.Wrap(w.Flush(), "belief: flush filter")
}

// ReadBloomMembership loads a filter written by WriteFile.
func ReadBloomMembership(path string) (*BloomMembership, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "belief: open filter %s", path)
	}
	defer f.Close()

	var filter bloom.BloomFilter
	if _, err := filter.ReadFrom(bufio.NewReader(f)); err != nil {
		return nil, eris.Wrapf(err, "belief: read filter %s", path)
	}
	return &BloomMembership{filter: &filter}, nil
}

// Dictionary holds the optional word-membership filters used to score
// free-text fields. A nil Dictionary, or a nil filter inside it, scores
// every value as 1.
type Dictionary struct {
	Title  Membership
	Author Membership
}

// LoadDictionary reads both Bloom filters from dir.
func LoadDictionary(dir string) (*Dictionary, error) {
	title, err := ReadBloomMembership(filepath.Join(dir, TitleFilterFile))
	if err != nil {
		return nil, err
	}
	author, err := ReadBloomMembership(filepath.Join(dir, AuthorFilterFile))
	if err != nil {
		return nil, err
	}
	return &Dictionary{Title: title, Author: author}, nil
}

// DictionaryOrUnity loads the dictionary from dir. When the filters are
// unavailable it logs once and returns nil, which degrades scoring to a
// neutral constant.
func DictionaryOrUnity(dir string) *Dictionary {
	if dir == "" {
		zap.L().Warn("belief: no dictionary directory configured, word scoring disabled")
		return nil
	}
	d, err := LoadDictionary(dir)
	if err != nil {
		zap.L().Warn("belief: dictionary unavailable, word scoring disabled",
			zap.String("dir", dir),
			zap.Error(err),
		)
		return nil
	}
	zap.L().Info("belief: dictionary loaded", zap.String("dir", dir))
	return d
}

// match returns the share of cleaned words of value found in m. A value with
// no words scores 0.
func match(m Membership, value string) float64 {
	words := textutil.Words(value, true)
	if len(words) == 0 {
		return 0
	}
	found := 0
	for _, w := range words {
		if m.Contains(w) {
			found++
		}
	}
	return float64(found) / float64(len(words))
}

// TitleWords scores free text against the title vocabulary.
func (d *Dictionary) TitleWords() TextFunc {
	if d == nil || d.Title == nil {
		return Unity
	}
	return func(value string) (float64, error) {
		return match(d.Title, value), nil
	}
}

// AuthorWords scores free text against the author-name vocabulary.
func (d *Dictionary) AuthorWords() TextFunc {
	if d == nil || d.Author == nil {
		return Unity
	}
	return func(value string) (float64, error) {
		return match(d.Author, value), nil
	}
}

// AuthorStructure scores an author list: each author's joined name is
// matched against the author vocabulary and divided by the number of words
// in the surname, so run-together multi-word surnames score lower. The
// result is the mean over authors; an empty list scores 0.
func (d *Dictionary) AuthorStructure() AuthorsFunc {
	words := d.AuthorWords()
	return func(authors []model.Author) (float64, error) {
		if len(authors) == 0 {
			return 0, nil
		}
		var sum float64
		for _, a := range authors {
			name := textutil.CleanText(strings.Join([]string{a.Givennames, a.Surname, a.Prefix, a.Suffix, a.Fullname}, " "), false)
			score, err := words(name)
			if err != nil {
				return 0, err
			}
			if n := len(strings.Fields(a.Surname)); n > 0 {
				score /= float64(n)
			}
			sum += score
		}
		return sum / float64(len(authors)), nil
	}
}
