package main

import (
	"github.com/sells-group/refmerge/internal/model"
	"github.com/sells-group/refmerge/internal/pipeline"
)

const exampleBatchJSON = `{
  "ext1": [
    {"source": "Matthew", "volume": "uuddlrlrba", "year": 2011},
    {"source": "Erick P", "volume": "babaudbalrba", "year": 2013}
  ],
  "ext2": [
    {"source": "Matthew", "volume": "uuddlrlrbaba", "year": 2011}
  ],
  "ext3": [
    {"source": "Johnathan", "volume": "start", "year": 2010},
    {"source": "Eric Pe", "volume": "babaudbalrba", "year": "2013"}
  ]
}`

func testMerger() *pipeline.Merger {
	return pipeline.NewMerger(pipeline.WithPriors(model.Priors{
		"ext1": {Fields: map[model.Field]float64{model.FieldSource: 0.9, model.FieldVolume: 0.6, model.FieldYear: 0.8}},
		"ext2": {Fields: map[model.Field]float64{model.FieldSource: 0.8, model.FieldVolume: 0.7, model.FieldYear: 0.99}},
		"ext3": {Fields: map[model.Field]float64{model.FieldSource: 0.6, model.FieldVolume: 0.9, model.FieldYear: 0.7}},
	}))
}
