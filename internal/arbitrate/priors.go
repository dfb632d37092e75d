package arbitrate

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/refmerge/internal/model"
)

// DefaultPriors returns the built-in reliability table for the known
// extractors. refextract's author parsing is the least reliable.
func DefaultPriors() model.Priors {
	return model.Priors{
		"refextract": {
			Fields: map[model.Field]float64{model.FieldAuthors: 0.5},
		},
		"cermine":      {},
		"grobid":       {},
		"scienceparse": {},
	}
}

// LoadPriors reads priors from a YAML file with a top-level "priors" key:
//
//	priors:
//	  grobid:
//	    default: 0.9
//	    fields:
//	      year: 0.99
func LoadPriors(path string) (model.Priors, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "arbitrate: read priors %s", path)
	}

	var wrapper struct {
		Priors model.Priors `yaml:"priors"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "arbitrate: parse priors")
	}
	if err := wrapper.Priors.Validate(); err != nil {
		return nil, eris.Wrapf(err, "arbitrate: priors %s", path)
	}
	if wrapper.Priors == nil {
		return model.Priors{}, nil
	}
	return wrapper.Priors, nil
}
