package split

import (
	"fmt"
	"log/slog"

	"github.com/jmorrel/seqprep/internal/artifact"
)

// ArtifactReader loads the canonical artifact for a dataset.
type ArtifactReader interface {
	Read(dataset string, withFeatures bool) (*artifact.Artifact, error)
}

// Reader loads one canonical dataset and exposes its splits, statistics and
// per-item lookups. All state is materialized at construction and read-only
// afterwards.
type Reader struct {
	dataset     string
	useFeatures bool
	stats       Stats
	splits      Splits
	indices     map[int][]string
	features    map[int]artifact.ItemFeatures
}

// NewReader reads the canonical artifact and materializes all three splits.
func NewReader(store ArtifactReader, dataset string, maxSeqLen int, useFeatures bool, logger *slog.Logger) (*Reader, error) {
	a, err := store.Read(dataset, useFeatures)
	if err != nil {
		return nil, fmt.Errorf("reading canonical artifact: %w", err)
	}

	stats := ComputeStats(a.Interactions)
	splits := Generate(a.Interactions, maxSeqLen, stats.PadItem())

	logger.Info("splits generated",
		"dataset", dataset,
		"users", stats.NUsers-1,
		"items", stats.NItems-1,
		"entries", stats.Interactions,
		"train", splits.Train.Len(),
		"valid", splits.Valid.Len(),
		"test", splits.Test.Len())
	for name, table := range map[string]*Table{
		"train": &splits.Train, "valid": &splits.Valid, "test": &splits.Test,
	} {
		if table.Len() == 0 {
			logger.Warn("split has no rows", "dataset", dataset, "split", name)
		}
	}

	return &Reader{
		dataset:     dataset,
		useFeatures: useFeatures,
		stats:       stats,
		splits:      splits,
		indices:     a.Indices,
		features:    a.Features,
	}, nil
}

// Dataset returns the dataset name the reader was built for.
func (r *Reader) Dataset() string {
	return r.dataset
}

// Stats returns the derived dataset statistics.
func (r *Reader) Stats() Stats {
	return r.stats
}

// Splits returns the materialized train/valid/test tables.
func (r *Reader) Splits() Splits {
	return r.splits
}

// TokensFor returns the tokenized index per item. Ids absent from the
// canonical artifact are omitted rather than failing.
func (r *Reader) TokensFor(itemIDs []int) map[int][]string {
	tokens := make(map[int][]string)
	for _, id := range itemIDs {
		if index, ok := r.indices[id]; ok {
			tokens[id] = index
		}
	}
	return tokens
}

// FeaturesFor returns the feature record per item with the same omission
// policy as TokensFor. It fails with ErrFeaturesDisabled when the reader was
// built without item features.
func (r *Reader) FeaturesFor(itemIDs []int) (map[int]artifact.ItemFeatures, error) {
	if !r.useFeatures {
		return nil, ErrFeaturesDisabled
	}
	features := make(map[int]artifact.ItemFeatures)
	for _, id := range itemIDs {
		if record, ok := r.features[id]; ok {
			features[id] = record
		}
	}
	return features, nil
}
