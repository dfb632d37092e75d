// Package arbitrate builds one consensus record per aligned group by
// weighing each extractor's value of every field.
package arbitrate

import (
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/refmerge/internal/model"
)

// Arbitrate picks, field by field, the candidate value with the highest
// prior times belief. beliefs[i] belongs to group[i]; a missing belief map
// counts as 1 for every field. Ties go to the member listed first, which is
// the earliest registered extractor.
//
// The returned score is the mean winning weight over fields that had at
// least one candidate. A group with no populated field scores 0.
func Arbitrate(group model.AlignedGroup, beliefs []model.BeliefMap, priors model.Priors) (model.Record, float64) {
	var merged model.Record
	var total float64
	var fields int

	for _, f := range model.Fields {
		winner := -1
		best := 0.0
		for i, m := range group {
			if !m.Record.Has(f) {
				continue
			}
			w := priors.Weight(m.Extractor, f) * belief(beliefs, i, f)
			if winner < 0 || w > best {
				winner = i
				best = w
			}
		}
		if winner < 0 {
			continue
		}
		take(&merged, group[winner].Record, f)
		total += best
		fields++

		zap.L().Debug("arbitrate: field resolved",
			zap.String("field", string(f)),
			zap.String("extractor", group[winner].Extractor),
			zap.Float64("weight", best),
		)
	}

	fillFullnames(merged.Authors)

	if fields == 0 {
		return merged, 0
	}
	return merged, total / float64(fields)
}

func belief(beliefs []model.BeliefMap, i int, f model.Field) float64 {
	if i >= len(beliefs) || beliefs[i] == nil {
		return 1
	}
	b, ok := beliefs[i][f]
	if !ok {
		return 1
	}
	return b
}

// take copies field f from src into dst.
func take(dst *model.Record, src model.Record, f model.Field) {
	switch f {
	case model.FieldAuthors:
		dst.Authors = append([]model.Author(nil), src.Authors...)
	case model.FieldIdentifiers:
		dst.Identifiers = append([]model.Identifier(nil), src.Identifiers...)
	default:
		dst.SetText(f, src.Text(f))
	}
}

// fillFullnames sets Fullname from the name parts when it is missing.
func fillFullnames(authors []model.Author) {
	for i := range authors {
		a := &authors[i]
		if a.Fullname != "" || a.Givennames == "" || a.Surname == "" {
			continue
		}
		a.Fullname = strings.TrimSpace(a.Givennames) + " " + strings.TrimSpace(a.Surname)
	}
}
