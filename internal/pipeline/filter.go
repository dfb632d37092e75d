package pipeline

import "github.com/sells-group/refmerge/internal/model"

// DefaultThreshold is the minimum arbitration score a merged record needs to
// be kept.
const DefaultThreshold = 0.5

// Scored pairs a merged record with its arbitration score.
type Scored struct {
	Record model.Record
	Score  float64
}

// Filter writes each score onto its record, keeps the records scoring at
// least threshold and returns them with their mean score. Dropped records
// still carry their score. With nothing kept the composite is 0.
func Filter(scored []Scored, threshold float64) ([]model.Record, float64) {
	kept := make([]model.Record, 0, len(scored))
	var sum float64
	for i := range scored {
		s := scored[i].Score
		scored[i].Record.Score = &s
		if s >= threshold {
			kept = append(kept, scored[i].Record)
			sum += s
		}
	}
	if len(kept) == 0 {
		return kept, 0
	}
	return kept, sum / float64(len(kept))
}
