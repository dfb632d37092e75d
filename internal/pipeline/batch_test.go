package pipeline

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/refmerge/internal/model"
)

func TestMergeAll(t *testing.T) {
	docs := []Document{
		{ID: "doc-1", Batch: exampleBatch()},
		{ID: "doc-2", Batch: model.Batch{{Extractor: "x"}, {Extractor: "x"}}},
		{ID: "doc-3", Batch: model.Batch{{Extractor: "solo", References: []model.Record{ref("Nature", "1", "1999")}}}},
	}
	m := NewMerger(WithPriors(examplePriors()), WithDocumentConcurrency(2))
	results := m.MergeAll(context.Background(), docs)
	require.Len(t, results, 3)

	assert.Equal(t, "doc-1", results[0].ID)
	require.NoError(t, results[0].Err)
	assert.Len(t, results[0].Result.References, 3)

	assert.Equal(t, "doc-2", results[1].ID)
	assert.Nil(t, results[1].Result)
	assert.True(t, eris.Is(results[1].Err, model.ErrInvalidBatch))
	assert.NotEmpty(t, results[1].Error)

	assert.Equal(t, "doc-3", results[2].ID)
	require.NoError(t, results[2].Err)
	assert.Len(t, results[2].Result.References, 1)
}

func TestMergeAll_Empty(t *testing.T) {
	assert.Empty(t, NewMerger().MergeAll(context.Background(), nil))
}
