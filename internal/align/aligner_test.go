package align

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/refmerge/internal/model"
)

func ref(source, volume, year string) model.Record {
	return model.Record{Source: source, Volume: model.NumberLike(volume), Year: model.NumberLike(year)}
}

func exampleBatch() model.Batch {
	return model.Batch{
		{Extractor: "ext1", References: []model.Record{
			ref("Matthew", "uuddlrlrba", "2011"),
			ref("Erick P", "babaudbalrba", "2013"),
		}},
		{Extractor: "ext2", References: []model.Record{
			ref("Matthew", "uuddlrlrbaba", "2011"),
		}},
		{Extractor: "ext3", References: []model.Record{
			ref("Johnathan", "start", "2010"),
			ref("Eric Pe", "babaudbalrba", "2013"),
		}},
	}
}

// sources flattens groups to extractor:source labels for readable asserts.
func sources(groups []model.AlignedGroup) [][]string {
	out := make([][]string, len(groups))
	for i, g := range groups {
		for _, m := range g {
			out[i] = append(out[i], m.Extractor+":"+m.Record.Source)
		}
	}
	return out
}

func TestAlign_Example(t *testing.T) {
	groups := New().Align(exampleBatch())
	assert.Equal(t, [][]string{
		{"ext1:Matthew", "ext2:Matthew"},
		{"ext3:Johnathan"},
		{"ext1:Erick P", "ext3:Eric Pe"},
	}, sources(groups))
}

func TestAlign_Deterministic(t *testing.T) {
	a := New()
	first := a.Align(exampleBatch())
	for range 10 {
		assert.Equal(t, first, a.Align(exampleBatch()))
	}
}

func TestAlign_Empty(t *testing.T) {
	groups := New().Align(nil)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)

	groups = New().Align(model.Batch{{Extractor: "a"}, {Extractor: "b"}})
	assert.Empty(t, groups)
}

func TestAlign_SingleExtractor(t *testing.T) {
	batch := model.Batch{{Extractor: "only", References: []model.Record{
		ref("A", "1", "2000"), ref("B", "2", "2001"), ref("C", "3", "2002"),
	}}}
	groups := New().Align(batch)
	require.Len(t, groups, 3)
	for i, g := range groups {
		require.Len(t, g, 1)
		assert.Equal(t, "only", g[0].Extractor)
		assert.Equal(t, i, g[0].Position)
	}
}

func TestAlign_PreservesOrderAndUniqueness(t *testing.T) {
	titles := []string{
		"Deep residual learning for image recognition",
		"Attention is all you need",
		"Generative adversarial networks",
		"Batch normalization accelerating deep network training",
		"Dropout a simple way to prevent neural networks from overfitting",
	}
	rec := func(i int) model.Record { return model.Record{Title: titles[i]} }

	batch := model.Batch{
		{Extractor: "a", References: []model.Record{rec(0), rec(1), rec(2), rec(4)}},
		{Extractor: "b", References: []model.Record{rec(1), rec(2), rec(3), rec(4)}},
		// c swaps two citations; only one of them can match in order.
		{Extractor: "c", References: []model.Record{rec(0), rec(3), rec(2), rec(4)}},
	}
	groups := New().Align(batch)

	last := map[string]int{}
	seen := map[string]int{}
	for _, g := range groups {
		inGroup := map[string]bool{}
		for _, m := range g {
			assert.False(t, inGroup[m.Extractor], "extractor %s twice in a group", m.Extractor)
			inGroup[m.Extractor] = true
			if prev, ok := last[m.Extractor]; ok {
				assert.Greater(t, m.Position, prev, "order inverted for %s", m.Extractor)
			}
			last[m.Extractor] = m.Position
			seen[m.Extractor]++
		}
	}
	// Every record lands in exactly one group.
	assert.Equal(t, map[string]int{"a": 4, "b": 4, "c": 4}, seen)

	// a's first record and b's last record match their counterparts.
	require.NotEmpty(t, groups)
	first := groups[0]
	require.Len(t, first, 2)
	assert.Equal(t, "a", first[0].Extractor)
	assert.Equal(t, "c", first[1].Extractor)

	tail := groups[len(groups)-1]
	assert.Len(t, tail, 3)
}

func TestAlign_GapsKeepGroupOrder(t *testing.T) {
	batch := model.Batch{
		{Extractor: "a", References: []model.Record{
			{Title: "Alpha paper on topology"},
			{Title: "Beta paper on algebra"},
		}},
		{Extractor: "b", References: []model.Record{
			{Title: "Gamma paper on biology"},
			{Title: "Beta paper on algebra"},
		}},
	}
	groups := New().Align(batch)
	require.Len(t, groups, 3)
	assert.Equal(t, [][]string{{"a:"}, {"b:"}, {"a:", "b:"}}, sources(groups))
	assert.Equal(t, "Alpha paper on topology", groups[0][0].Record.Title)
	assert.Equal(t, "Gamma paper on biology", groups[1][0].Record.Title)
}

func TestSimilarity(t *testing.T) {
	a := New()

	same := model.Record{Title: "A study", Year: "2001", DOI: "10.1000/abc"}
	assert.Equal(t, 1.0, a.Similarity(same, same))

	// Nothing comparable.
	assert.Equal(t, 0.0, a.Similarity(model.Record{Title: "x"}, model.Record{Year: "2001"}))

	// Conflicting DOIs pull an otherwise identical pair down.
	other := same
	other.DOI = "10.1000/xyz"
	assert.Less(t, a.Similarity(same, other), 0.75)

	// Weights are renormalized over shared components.
	yearOnly := New(WithWeights(Weights{Year: 1}))
	assert.Equal(t, 1.0, yearOnly.Similarity(ref("A", "", "1999"), ref("B", "", "1999")))
}

func TestAlign_FloorControlsMatching(t *testing.T) {
	batch := model.Batch{
		{Extractor: "a", References: []model.Record{{Title: "graph neural networks survey"}}},
		{Extractor: "b", References: []model.Record{{Title: "graph neural networks review"}}},
	}
	// Jaccard is 3/5.
	assert.Len(t, New(WithFloor(0.5)).Align(batch), 1)
	assert.Len(t, New(WithFloor(0.7)).Align(batch), 2)
}
