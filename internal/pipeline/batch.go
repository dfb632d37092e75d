package pipeline

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/refmerge/internal/model"
)

// Document is one document's batch, tagged with a caller-chosen ID.
type Document struct {
	ID    string      `json:"id"`
	Batch model.Batch `json:"extractions"`
}

// DocumentResult is the outcome of merging one Document. Exactly one of
// Result and Err is set.
type DocumentResult struct {
	ID     string  `json:"id"`
	Result *Result `json:"result,omitempty"`
	Err    error   `json:"-"`
	Error  string  `json:"error,omitempty"`
}

// MergeAll merges documents concurrently. Results keep the input order. A
// failing document is reported in its own result and does not stop the
// others.
func (m *Merger) MergeAll(ctx context.Context, docs []Document) []DocumentResult {
	results := make([]DocumentResult, len(docs))
	if len(docs) == 0 {
		return results
	}

	zap.L().Info("pipeline: merging documents",
		zap.Int("documents", len(docs)),
		zap.Int("concurrency", m.concurrency),
	)

	var g errgroup.Group
	g.SetLimit(m.concurrency)

	var succeeded, failed atomic.Int64

	for i, doc := range docs {
		g.Go(func() error {
			log := zap.L().With(zap.String("document", doc.ID))

			res, err := m.Merge(ctx, doc.Batch)
			results[i] = DocumentResult{ID: doc.ID, Result: res, Err: err}
			if err != nil {
				failed.Add(1)
				results[i].Error = err.Error()
				log.Error("pipeline: document failed", zap.Error(err))
				return nil // keep going with the other documents
			}
			succeeded.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	zap.L().Info("pipeline: documents complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)
	return results
}
