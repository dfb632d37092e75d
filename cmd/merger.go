package main

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/refmerge/internal/align"
	"github.com/sells-group/refmerge/internal/arbitrate"
	"github.com/sells-group/refmerge/internal/belief"
	"github.com/sells-group/refmerge/internal/config"
	"github.com/sells-group/refmerge/internal/model"
	"github.com/sells-group/refmerge/internal/pipeline"
)

// newMerger wires a pipeline.Merger from configuration. The word
// dictionary is loaded once here and shared read-only by every merge.
func newMerger(c *config.Config) (*pipeline.Merger, error) {
	priors, err := loadPriors(c.Priors.File)
	if err != nil {
		return nil, err
	}

	dict := belief.DictionaryOrUnity(c.Belief.DataDir)

	w := c.Merge.Weights
	aligner := align.New(
		align.WithFloor(c.Merge.SimilarityFloor),
		align.WithWeights(align.Weights{
			Text:       w.Text,
			Source:     w.Source,
			Year:       w.Year,
			Author:     w.Author,
			Identifier: w.Identifier,
		}),
	)

	return pipeline.NewMerger(
		pipeline.WithAligner(aligner),
		pipeline.WithBeliefEngine(belief.NewEngine(
			belief.WithDictionary(dict),
			belief.WithConcurrency(c.Merge.BeliefConcurrency),
		)),
		pipeline.WithPriors(priors),
		pipeline.WithThreshold(c.Merge.Threshold),
		pipeline.WithNormalizeInputs(c.Merge.NormalizeInputs),
		pipeline.WithDocumentConcurrency(c.Batch.MaxConcurrentDocuments),
	), nil
}

func loadPriors(path string) (model.Priors, error) {
	if path == "" {
		zap.L().Info("using built-in extractor priors")
		return arbitrate.DefaultPriors(), nil
	}
	p, err := arbitrate.LoadPriors(path)
	if err != nil {
		return nil, eris.Wrap(err, "load priors")
	}
	zap.L().Info("loaded extractor priors", zap.String("file", path), zap.Int("extractors", len(p)))
	return p, nil
}
