// Package pipeline runs the reference merge: alignment, belief scoring,
// arbitration, normalization and filtering.
package pipeline

import (
	"context"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/refmerge/internal/align"
	"github.com/sells-group/refmerge/internal/arbitrate"
	"github.com/sells-group/refmerge/internal/belief"
	"github.com/sells-group/refmerge/internal/model"
	"github.com/sells-group/refmerge/internal/normalize"
)

// Result is the merged reference list of one document.
type Result struct {
	RunID      string         `json:"run_id"`
	References []model.Record `json:"references"`
	// Score is the composite: the mean score of the kept references.
	Score float64 `json:"score"`
	// Groups counts the aligned groups before filtering.
	Groups int `json:"groups"`
}

// Merger merges extractor batches. It holds no per-document state and is
// safe for concurrent use.
type Merger struct {
	aligner         *align.Aligner
	beliefs         *belief.Engine
	priors          model.Priors
	threshold       float64
	normalizeInputs bool
	concurrency     int
}

// Option configures a Merger.
type Option func(*Merger)

// WithAligner replaces the default aligner.
func WithAligner(a *align.Aligner) Option {
	return func(m *Merger) { m.aligner = a }
}

// WithBeliefEngine replaces the default belief engine.
func WithBeliefEngine(e *belief.Engine) Option {
	return func(m *Merger) { m.beliefs = e }
}

// WithPriors sets extractor reliability priors. Without it every extractor
// weighs 1 for every field.
func WithPriors(p model.Priors) Option {
	return func(m *Merger) { m.priors = p }
}

// WithThreshold sets the minimum score for a merged record to be kept.
func WithThreshold(t float64) Option {
	return func(m *Merger) { m.threshold = t }
}

// WithNormalizeInputs normalizes each extractor's records before alignment.
func WithNormalizeInputs(on bool) Option {
	return func(m *Merger) { m.normalizeInputs = on }
}

// WithDocumentConcurrency bounds how many documents MergeAll works on at once.
func WithDocumentConcurrency(n int) Option {
	return func(m *Merger) { m.concurrency = n }
}

// NewMerger creates a Merger.
func NewMerger(opts ...Option) *Merger {
	m := &Merger{
		aligner:     align.New(),
		beliefs:     belief.NewEngine(),
		priors:      model.Priors{},
		threshold:   DefaultThreshold,
		concurrency: 4,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.concurrency < 1 {
		m.concurrency = 1
	}
	return m
}

// Merge reconciles one document's batch into a list of consensus
// references. A malformed batch or priors table returns an error wrapping
// model.ErrInvalidBatch before any stage runs. A document where nothing
// passes the threshold is not an error.
func (m *Merger) Merge(ctx context.Context, batch model.Batch) (*Result, error) {
	if err := batch.Validate(); err != nil {
		return nil, eris.Wrap(err, "pipeline: validate batch")
	}
	if err := m.priors.Validate(); err != nil {
		return nil, eris.Wrap(err, "pipeline: validate priors")
	}

	runID := uuid.NewString()
	log := zap.L().With(zap.String("run_id", runID))

	if m.normalizeInputs {
		batch = normalizedCopy(batch)
	}

	groups := m.aligner.Align(batch)
	log.Debug("pipeline: aligned",
		zap.Strings("extractors", batch.Extractors()),
		zap.Int("groups", len(groups)),
	)

	beliefs, err := m.beliefs.ScoreGroups(ctx, groups)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: belief scoring")
	}

	scored := make([]Scored, len(groups))
	for i, g := range groups {
		rec, score := arbitrate.Arbitrate(g, beliefs[i], m.priors)
		normalize.Record(&rec)
		scored[i] = Scored{Record: rec, Score: score}
	}

	kept, composite := Filter(scored, m.threshold)
	log.Info("pipeline: merge complete",
		zap.Int("groups", len(groups)),
		zap.Int("kept", len(kept)),
		zap.Float64("score", composite),
	)

	return &Result{
		RunID:      runID,
		References: kept,
		Score:      composite,
		Groups:     len(groups),
	}, nil
}

// normalizedCopy returns a normalized deep copy so the caller's batch is
// left as it was.
func normalizedCopy(batch model.Batch) model.Batch {
	out := make(model.Batch, len(batch))
	for i, ext := range batch {
		refs := make([]model.Record, len(ext.References))
		for j, r := range ext.References {
			refs[j] = r.Clone()
		}
		normalize.Records(refs)
		out[i] = model.Extraction{Extractor: ext.Extractor, References: refs}
	}
	return out
}
