package model

import (
	"github.com/rotisserie/eris"
)

// DefaultPriorWeight is used for extractors or fields with no configured prior.
const DefaultPriorWeight = 1.0

// Prior is one extractor's reliability per field.
type Prior struct {
	// Default applies to fields absent from Fields. Nil means
	// DefaultPriorWeight; an explicit 0 distrusts the extractor.
	Default *float64          `yaml:"default" json:"default,omitempty"`
	Fields  map[Field]float64 `yaml:"fields" json:"fields,omitempty"`
}

// Priors maps extractor name to its reliability priors.
type Priors map[string]Prior

// Weight returns the prior weight for an extractor's field.
func (p Priors) Weight(extractor string, field Field) float64 {
	prior, ok := p[extractor]
	if !ok {
		return DefaultPriorWeight
	}
	if w, ok := prior.Fields[field]; ok {
		return w
	}
	if prior.Default != nil {
		return *prior.Default
	}
	return DefaultPriorWeight
}

// Validate checks every weight lies in [0, 1].
func (p Priors) Validate() error {
	for extractor, prior := range p {
		if d := prior.Default; d != nil && (*d < 0 || *d > 1) {
			return eris.Wrapf(ErrInvalidBatch, "prior default for %s out of range: %v", extractor, *d)
		}
		for field, w := range prior.Fields {
			if w < 0 || w > 1 {
				return eris.Wrapf(ErrInvalidBatch, "prior %s.%s out of range: %v", extractor, field, w)
			}
		}
	}
	return nil
}
