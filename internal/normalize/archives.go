package normalize

import "strings"

// hyphenatedArchives lists the arXiv archives whose names contain a hyphen.
// Extractors often drop the hyphen ("hepth" for "hep-th").
var hyphenatedArchives = []string{
	"acc-phys",
	"adap-org",
	"alg-geom",
	"ao-sci",
	"astro-ph",
	"atom-ph",
	"bayes-an",
	"chao-dyn",
	"chem-ph",
	"cmp-lg",
	"comp-gas",
	"cond-mat",
	"dg-ga",
	"funct-an",
	"gr-qc",
	"hep-ex",
	"hep-lat",
	"hep-ph",
	"hep-th",
	"math-ph",
	"mtrl-th",
	"nucl-ex",
	"nucl-th",
	"patt-sol",
	"plasm-ph",
	"q-alg",
	"q-bio",
	"q-fin",
	"quant-ph",
	"solv-int",
	"supr-con",
}

// ArXivID restores the hyphen in an archive name that lost it. The first
// matching archive is repaired; other values pass through.
func ArXivID(id string) string {
	for _, a := range hyphenatedArchives {
		typo := strings.ReplaceAll(a, "-", "")
		if strings.Contains(id, typo) {
			return strings.ReplaceAll(id, typo, a)
		}
	}
	return id
}
