package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/refmerge/internal/model"
	"github.com/sells-group/refmerge/internal/pipeline"
)

var mergeOut string

var mergeCmd = &cobra.Command{
	Use:   "merge <batch.json>...",
	Short: "Merge extractor batches from JSON files",
	Long:  "Each file holds one document's extractor output, either as an object keyed by extractor or as a list of {extractor, references}. Results are written as JSON, one entry per file.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("merge"); err != nil {
			return err
		}
		merger, err := newMerger(cfg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if mergeOut != "" {
			f, err := os.Create(mergeOut)
			if err != nil {
				return eris.Wrapf(err, "create output %s", mergeOut)
			}
			defer f.Close()
			out = f
		}

		return runMerge(cmd.Context(), merger, args, out)
	},
}

func init() {
	mergeCmd.Flags().StringVarP(&mergeOut, "out", "o", "", "write results to this file instead of stdout")
	rootCmd.AddCommand(mergeCmd)
}

// runMerge reads every batch file, merges the documents and writes the
// results as an indented JSON array. Unreadable files and failed merges are
// reported per document; the returned error counts them.
func runMerge(ctx context.Context, merger *pipeline.Merger, paths []string, w io.Writer) error {
	// Results follow argument order; slot[i] is the position of docs[i].
	results := make([]pipeline.DocumentResult, len(paths))
	docs := make([]pipeline.Document, 0, len(paths))
	slot := make([]int, 0, len(paths))

	for i, p := range paths {
		batch, err := readBatch(p)
		if err != nil {
			zap.L().Error("read batch failed", zap.String("file", p), zap.Error(err))
			results[i] = pipeline.DocumentResult{ID: p, Err: err, Error: err.Error()}
			continue
		}
		docs = append(docs, pipeline.Document{ID: p, Batch: batch})
		slot = append(slot, i)
	}

	for j, r := range merger.MergeAll(ctx, docs) {
		results[slot[j]] = r
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return eris.Wrap(err, "write results")
	}

	var failed []string
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r.ID)
		}
	}
	if len(failed) > 0 {
		return eris.Errorf("%d of %d documents failed: %s", len(failed), len(results), strings.Join(failed, ", "))
	}
	return nil
}

func readBatch(path string) (model.Batch, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, eris.Wrapf(err, "read %s", path)
	}
	var batch model.Batch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, eris.Wrapf(err, "decode %s", path)
	}
	return batch, nil
}
