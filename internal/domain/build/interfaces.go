package build

import (
	"github.com/jmorrel/seqprep/internal/artifact"
)

// Indexer produces the tokenized index for every dense item id in [0, maxItem].
// The default is a random placeholder; a real tokenizer swaps in here without
// touching the builder's filtering or remapping.
type Indexer interface {
	Index(maxItem int) map[int][]string
}

// FeatureSource produces the feature record for every dense item id in [0, maxItem].
type FeatureSource interface {
	Features(maxItem int) map[int]artifact.ItemFeatures
}

// ArtifactWriter persists the canonical artifact.
type ArtifactWriter interface {
	Write(dataset string, a *artifact.Artifact) error
}
