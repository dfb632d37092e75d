// Package align groups the reference lists of several extractors into
// citation-equivalence groups without reordering any extractor's list.
package align

import (
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/refmerge/internal/model"
	"github.com/sells-group/refmerge/internal/textutil"
)

// DefaultFloor is the minimum similarity for two records to share a group.
const DefaultFloor = 0.5

// Weights controls how much each similarity component counts. Only
// components available on both records take part; their weights are
// renormalized over the ones present.
type Weights struct {
	Text       float64 `yaml:"text" mapstructure:"text"`
	Source     float64 `yaml:"source" mapstructure:"source"`
	Year       float64 `yaml:"year" mapstructure:"year"`
	Author     float64 `yaml:"author" mapstructure:"author"`
	Identifier float64 `yaml:"identifier" mapstructure:"identifier"`
}

// DefaultWeights returns the standard component weights.
func DefaultWeights() Weights {
	return Weights{
		Text:       0.4,
		Source:     0.25,
		Year:       0.2,
		Author:     0.15,
		Identifier: 0.3,
	}
}

// Aligner performs progressive order-preserving alignment.
type Aligner struct {
	weights Weights
	floor   float64
}

// Option configures an Aligner.
type Option func(*Aligner)

// WithFloor sets the minimum similarity for a match.
func WithFloor(floor float64) Option {
	return func(a *Aligner) { a.floor = floor }
}

// WithWeights replaces the similarity component weights.
func WithWeights(w Weights) Option {
	return func(a *Aligner) { a.weights = w }
}

// New creates an Aligner with DefaultWeights and DefaultFloor unless
// overridden.
func New(opts ...Option) *Aligner {
	a := &Aligner{
		weights: DefaultWeights(),
		floor:   DefaultFloor,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Align groups the batch. Extractors are folded in registration order: the
// first extractor's records seed the groups and every later extractor is
// aligned against the groups built so far. The result is deterministic and
// never places an extractor's later record in an earlier group than one of
// its earlier records.
func (a *Aligner) Align(batch model.Batch) []model.AlignedGroup {
	var groups []model.AlignedGroup
	for _, ext := range batch {
		if len(ext.References) == 0 {
			continue
		}
		before := len(groups)
		groups = a.fold(groups, ext)
		zap.L().Debug("align: extractor folded",
			zap.String("extractor", ext.Extractor),
			zap.Int("records", len(ext.References)),
			zap.Int("groups_before", before),
			zap.Int("groups_after", len(groups)),
		)
	}
	if groups == nil {
		return []model.AlignedGroup{}
	}
	return groups
}

type step int

const (
	stepMatch step = iota
	stepRecord
	stepGroup
)

// fold aligns one extractor's records against groups with a global
// dynamic program maximizing the summed similarity of matched pairs. Pairs
// below the floor cannot match.
func (a *Aligner) fold(groups []model.AlignedGroup, ext model.Extraction) []model.AlignedGroup {
	refs := ext.References
	n, m := len(groups), len(refs)

	sim := make([][]float64, n)
	for i, g := range groups {
		sim[i] = make([]float64, m)
		for j := range refs {
			sim[i][j] = a.groupSimilarity(g, refs[j])
		}
	}

	score := make([][]float64, n+1)
	for i := range score {
		score[i] = make([]float64, m+1)
	}
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			best := score[i-1][j]
			if score[i][j-1] > best {
				best = score[i][j-1]
			}
			if s := sim[i-1][j-1]; s >= a.floor {
				if d := score[i-1][j-1] + s; d > best {
					best = d
				}
			}
			score[i][j] = best
		}
	}

	// Trace back from the end. Preference order is match, then unmatched
	// record, then unmatched group, so an unmatched group precedes an
	// adjacent new singleton in the output.
	steps := make([]step, 0, n+m)
	i, j := n, m
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && sim[i-1][j-1] >= a.floor && score[i][j] == score[i-1][j-1]+sim[i-1][j-1]:
			steps = append(steps, stepMatch)
			i--
			j--
		case j > 0 && (i == 0 || score[i][j] == score[i][j-1]):
			steps = append(steps, stepRecord)
			j--
		default:
			steps = append(steps, stepGroup)
			i--
		}
	}

	out := make([]model.AlignedGroup, 0, n+m)
	i, j = 0, 0
	for k := len(steps) - 1; k >= 0; k-- {
		switch steps[k] {
		case stepMatch:
			g := append(model.AlignedGroup(nil), groups[i]...)
			g = append(g, model.Member{Extractor: ext.Extractor, Position: j, Record: refs[j]})
			out = append(out, g)
			i++
			j++
		case stepRecord:
			out = append(out, model.AlignedGroup{{Extractor: ext.Extractor, Position: j, Record: refs[j]}})
			j++
		case stepGroup:
			out = append(out, groups[i])
			i++
		}
	}
	return out
}

// groupSimilarity is the best similarity between r and any group member.
func (a *Aligner) groupSimilarity(g model.AlignedGroup, r model.Record) float64 {
	var best float64
	for _, m := range g {
		if s := a.Similarity(m.Record, r); s > best {
			best = s
		}
	}
	return best
}

// Similarity scores how likely two records denote the same citation, in
// [0, 1]. Records sharing no comparable component score 0.
func (a *Aligner) Similarity(x, y model.Record) float64 {
	var sum, weight float64
	add := func(w, s float64) {
		if w <= 0 {
			return
		}
		sum += w * s
		weight += w
	}

	if tx, ty := recordText(x), recordText(y); tx != "" && ty != "" {
		add(a.weights.Text, textutil.Jaccard(tx, ty))
	}
	if x.Has(model.FieldSource) && y.Has(model.FieldSource) {
		add(a.weights.Source, textutil.Similarity(x.Source, y.Source))
	}
	if x.Has(model.FieldYear) && y.Has(model.FieldYear) {
		add(a.weights.Year, equal(string(x.Year), string(y.Year)))
	}
	if sx, sy := x.FirstAuthorSurname(), y.FirstAuthorSurname(); sx != "" && sy != "" {
		add(a.weights.Author, textutil.Similarity(sx, sy))
	}
	if s, ok := identifierAgreement(x, y); ok {
		add(a.weights.Identifier, s)
	}

	if weight == 0 {
		return 0
	}
	return sum / weight
}

// recordText prefers the raw reference line and falls back to the title.
func recordText(r model.Record) string {
	if t := textutil.CleanText(r.Raw, true); t != "" {
		return t
	}
	return textutil.CleanText(r.Title, true)
}

// identifierAgreement compares DOIs and arXiv IDs present on both records.
// It reports false when neither kind is shared.
func identifierAgreement(x, y model.Record) (float64, bool) {
	compared := false
	for _, f := range []model.Field{model.FieldDOI, model.FieldArXivID} {
		if !x.Has(f) || !y.Has(f) {
			continue
		}
		compared = true
		if equal(x.Text(f), y.Text(f)) == 1 {
			return 1, true
		}
	}
	return 0, compared
}

func equal(a, b string) float64 {
	if strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b)) {
		return 1
	}
	return 0
}
