package model

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/rotisserie/eris"
)

// ErrInvalidBatch marks structural problems with caller-supplied input.
var ErrInvalidBatch = errors.New("invalid batch")

// Extraction is one extractor's ordered reference list for a document, in
// bibliography order as that extractor perceived it.
type Extraction struct {
	Extractor  string   `json:"extractor"`
	References []Record `json:"references"`
}

// Batch holds every extractor's output for one document. Slice order is the
// extractor registration order used to break ties.
type Batch []Extraction

// Extractors returns the extractor names in registration order.
func (b Batch) Extractors() []string {
	names := make([]string, 0, len(b))
	for _, e := range b {
		names = append(names, e.Extractor)
	}
	return names
}

// Validate checks the batch shape. Violations wrap ErrInvalidBatch.
func (b Batch) Validate() error {
	seen := make(map[string]bool, len(b))
	for i, e := range b {
		if e.Extractor == "" {
			return eris.Wrapf(ErrInvalidBatch, "extraction %d has no extractor name", i)
		}
		if seen[e.Extractor] {
			return eris.Wrapf(ErrInvalidBatch, "extractor %q appears more than once", e.Extractor)
		}
		seen[e.Extractor] = true
	}
	return nil
}

// UnmarshalJSON accepts either an array of extractions or an object keyed by
// extractor name. For the object form, key order in the document becomes the
// registration order.
func (b *Batch) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*b = nil
		return nil
	}

	if data[0] == '[' {
		var list []Extraction
		if err := json.Unmarshal(data, &list); err != nil {
			return eris.Wrap(err, "batch: decode extraction list")
		}
		*b = list
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return eris.Wrap(err, "batch: decode")
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return eris.Wrapf(ErrInvalidBatch, "batch: expected object or array, got %v", tok)
	}

	var out Batch
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return eris.Wrap(err, "batch: decode extractor name")
		}
		name, _ := keyTok.(string)

		var refs []Record
		if err := dec.Decode(&refs); err != nil {
			return eris.Wrapf(err, "batch: decode references for %s", name)
		}
		out = append(out, Extraction{Extractor: name, References: refs})
	}
	if _, err := dec.Token(); err != nil {
		return eris.Wrap(err, "batch: decode")
	}

	*b = out
	return nil
}
