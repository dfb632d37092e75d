// Package belief scores how plausible each field value of a reference looks,
// independent of which extractor produced it.
package belief

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/refmerge/internal/model"
)

// Table assigns belief functions to fields. A field with no functions
// scores 1.
type Table struct {
	Raw     []TextFunc
	Title   []TextFunc
	Source  []TextFunc
	Year    []TextFunc
	Volume  []TextFunc
	Pages   []TextFunc
	Issue   []TextFunc
	DOI     []TextFunc
	ArXivID []TextFunc
	RefType []TextFunc

	Authors     []AuthorsFunc
	Identifiers []IdentifiersFunc
}

// DefaultTable returns the standard belief functions. dict may be nil.
func DefaultTable(dict *Dictionary) Table {
	return Table{
		Title:   []TextFunc{dict.TitleWords(), MinimumLength(5)},
		Raw:     []TextFunc{dict.TitleWords(), dict.AuthorWords()},
		Source:  []TextFunc{DoesNotContainArXiv},
		Year:    []TextFunc{IsIntegerLike, IsInteger, IsYearLike, IsYear},
		Volume:  []TextFunc{Likely(IsIntegerLike, 0.8, 1.0)},
		Pages:   []TextFunc{IsIntegerLike, IsPages},
		DOI:     []TextFunc{ValidDOI, Contains(".", 0, 1), Contains("/", 0, 1), DoesntEndWith("-", 0, 1)},
		ArXivID: []TextFunc{ValidArXivID},

		Authors:     []AuthorsFunc{dict.AuthorStructure()},
		Identifiers: []IdentifiersFunc{ValidIdentifiers},
	}
}

func (t *Table) text(f model.Field) []TextFunc {
	switch f {
	case model.FieldRaw:
		return t.Raw
	case model.FieldTitle:
		return t.Title
	case model.FieldSource:
		return t.Source
	case model.FieldYear:
		return t.Year
	case model.FieldVolume:
		return t.Volume
	case model.FieldPages:
		return t.Pages
	case model.FieldIssue:
		return t.Issue
	case model.FieldDOI:
		return t.DOI
	case model.FieldArXivID:
		return t.ArXivID
	case model.FieldRefType:
		return t.RefType
	}
	return nil
}

// Engine computes belief maps for records.
type Engine struct {
	table       Table
	concurrency int
}

// Option configures an Engine.
type Option func(*Engine)

// WithTable replaces the default function table.
func WithTable(t Table) Option {
	return func(e *Engine) { e.table = t }
}

// WithDictionary builds the default table around dict.
func WithDictionary(dict *Dictionary) Option {
	return func(e *Engine) { e.table = DefaultTable(dict) }
}

// WithConcurrency bounds the goroutines used by ScoreGroups.
func WithConcurrency(n int) Option {
	return func(e *Engine) { e.concurrency = n }
}

// NewEngine creates an Engine. Without options it uses DefaultTable(nil).
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		table:       DefaultTable(nil),
		concurrency: 4,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.concurrency < 1 {
		e.concurrency = 1
	}
	return e
}

// Score returns the belief map for one record. Every field is present in
// the map; empty fields score 1.
func (e *Engine) Score(r model.Record) model.BeliefMap {
	out := make(model.BeliefMap, len(model.Fields))
	for _, f := range model.Fields {
		if !r.Has(f) {
			out[f] = 1
			continue
		}
		switch f {
		case model.FieldAuthors:
			out[f] = evaluate(f, e.table.Authors, r.Authors)
		case model.FieldIdentifiers:
			out[f] = evaluate(f, e.table.Identifiers, r.Identifiers)
		default:
			out[f] = evaluate(f, e.table.text(f), r.Text(f))
		}
	}
	return out
}

// ScoreGroups scores every member of every group. The result mirrors the
// shape of groups. Members are scored concurrently.
func (e *Engine) ScoreGroups(ctx context.Context, groups []model.AlignedGroup) ([][]model.BeliefMap, error) {
	out := make([][]model.BeliefMap, len(groups))
	for i, g := range groups {
		out[i] = make([]model.BeliefMap, len(g))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, group := range groups {
		for j, m := range group {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				out[i][j] = e.Score(m.Record)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "belief: score groups")
	}
	return out, nil
}

// evaluate averages funcs over v. A failing function adds 0 to the sum but
// still counts in the divisor.
func evaluate[T any, F ~func(T) (float64, error)](field model.Field, funcs []F, v T) float64 {
	if len(funcs) == 0 {
		return 1
	}
	var sum float64
	for i, fn := range funcs {
		p, err := fn(v)
		if err != nil {
			zap.L().Warn("belief: function failed",
				zap.String("field", string(field)),
				zap.Int("function", i),
				zap.Error(err),
			)
			continue
		}
		sum += clamp(p)
	}
	return sum / float64(len(funcs))
}

func clamp(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
