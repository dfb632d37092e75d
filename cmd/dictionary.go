package main

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/refmerge/internal/belief"
)

var (
	dictTitles  string
	dictAuthors string
	dictOutDir  string
	dictFPRate  float64
)

var dictionaryCmd = &cobra.Command{
	Use:   "dictionary",
	Short: "Manage the word dictionaries used for belief scoring",
}

var dictionaryBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build Bloom filter dictionaries from word lists",
	Long:  "Reads newline-separated title and author word lists and writes the filters that belief scoring loads from belief.data_dir.",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := dictOutDir
		if out == "" {
			out = cfg.Belief.DataDir
		}
		return buildDictionary(dictTitles, dictAuthors, out, dictFPRate)
	},
}

func init() {
	dictionaryBuildCmd.Flags().StringVar(&dictTitles, "titles", "", "title word list (one entry per line)")
	dictionaryBuildCmd.Flags().StringVar(&dictAuthors, "authors", "", "author name list (one entry per line)")
	dictionaryBuildCmd.Flags().StringVar(&dictOutDir, "out", "", "output directory (default from config)")
	dictionaryBuildCmd.Flags().Float64Var(&dictFPRate, "fp-rate", 0.001, "target false-positive rate")
	_ = dictionaryBuildCmd.MarkFlagRequired("titles")
	_ = dictionaryBuildCmd.MarkFlagRequired("authors")

	dictionaryCmd.AddCommand(dictionaryBuildCmd)
	rootCmd.AddCommand(dictionaryCmd)
}

func buildDictionary(titlesPath, authorsPath, outDir string, fpRate float64) error {
	if fpRate <= 0 || fpRate >= 1 {
		return eris.Errorf("fp-rate must be between 0 and 1, got %v", fpRate)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return eris.Wrapf(err, "create %s", outDir)
	}

	for _, list := range []struct {
		src, file string
	}{
		{titlesPath, belief.TitleFilterFile},
		{authorsPath, belief.AuthorFilterFile},
	} {
		words, err := readLines(list.src)
		if err != nil {
			return err
		}
		dst := filepath.Join(outDir, list.file)
		if err := belief.NewBloomMembership(words, fpRate).WriteFile(dst); err != nil {
			return err
		}
		zap.L().Info("dictionary written", zap.String("file", dst), zap.Int("entries", len(words)))
	}
	return nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := sc.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, eris.Wrapf(err, "read %s", path)
	}
	return lines, nil
}
