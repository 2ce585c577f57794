package build

import (
	"fmt"
	"math/rand/v2"

	"github.com/jmorrel/seqprep/internal/artifact"
)

// IndexArity is the number of tokens per item in the reference encoding.
const IndexArity = 4

// tokenSpace bounds the numeric part of each placeholder token.
const tokenSpace = 256

var tokenPrefixes = [IndexArity]string{"a", "b", "c", "d"}

// RandomIndexer emits placeholder token lists of the form
// ["<a_N>", "<b_N>", "<c_N>", "<d_N>"]. The tokens are opaque and carry no
// recoverability property.
type RandomIndexer struct{}

func (RandomIndexer) Index(maxItem int) map[int][]string {
	indices := make(map[int][]string, maxItem+1)
	for item := 0; item <= maxItem; item++ {
		tokens := make([]string, IndexArity)
		for i, prefix := range tokenPrefixes {
			tokens[i] = fmt.Sprintf("<%s_%d>", prefix, rand.IntN(tokenSpace))
		}
		indices[item] = tokens
	}
	return indices
}

// PlaceholderFeatures fills the feature file with synthetic titles and
// descriptions so downstream feature-aware readers have something to load.
type PlaceholderFeatures struct{}

func (PlaceholderFeatures) Features(maxItem int) map[int]artifact.ItemFeatures {
	features := make(map[int]artifact.ItemFeatures, maxItem+1)
	for item := 0; item <= maxItem; item++ {
		features[item] = artifact.ItemFeatures{
			Title:       fmt.Sprintf("Item %d", item),
			Description: fmt.Sprintf("Description for item %d", item),
		}
	}
	return features
}
