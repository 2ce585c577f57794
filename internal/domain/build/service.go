package build

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/jmorrel/seqprep/internal/artifact"
	"github.com/jmorrel/seqprep/internal/domain/source"
)

// Options control builder filtering. The rating threshold is an explicit
// parameter here, not shared state with any outer layer.
type Options struct {
	// RatingThreshold excludes interactions rated at or below it (strict >).
	RatingThreshold float64
	// MinInteractions drops users with fewer total interactions.
	MinInteractions int
	// MinItems drops items with fewer total interactions.
	MinItems int
}

// Summary reports what one build produced.
type Summary struct {
	Source       string
	RawRecords   int
	Dropped      int
	Interactions int
	Users        int
	Items        int
}

// Service builds the canonical artifact from a raw event source.
type Service struct {
	provider source.Provider
	writer   ArtifactWriter
	indexer  Indexer
	features FeatureSource
	logger   *slog.Logger
}

// NewService creates a builder service.
func NewService(provider source.Provider, writer ArtifactWriter, indexer Indexer, features FeatureSource, logger *slog.Logger) *Service {
	return &Service{
		provider: provider,
		writer:   writer,
		indexer:  indexer,
		features: features,
		logger:   logger,
	}
}

// Run ingests raw events, filters and remaps them, and writes the canonical
// artifact for dataset. All transformations are pure: the only side effects
// are the artifact files.
func (s *Service) Run(ctx context.Context, dataset string, opts Options) (*Summary, error) {
	res, err := s.provider.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading raw events: %w", err)
	}
	raw := len(res.Records)

	records := filterByRating(res.Records, opts.RatingThreshold)
	s.logger.Info("rating filter applied",
		"threshold", opts.RatingThreshold, "before", raw, "after", len(records))

	records = filterByFrequency(records, opts.MinInteractions, opts.MinItems)

	users, items := remap(records)
	seqs := sequences(records, users, items)

	a := &artifact.Artifact{
		Interactions: seqs,
		Indices:      map[int][]string{},
		Features:     map[int]artifact.ItemFeatures{},
	}
	if maxItem := len(items) - 1; maxItem >= 0 {
		a.Indices = s.indexer.Index(maxItem)
		a.Features = s.features.Features(maxItem)
	}

	if err := s.writer.Write(dataset, a); err != nil {
		return nil, fmt.Errorf("writing artifact: %w", err)
	}

	s.logger.Info("canonical artifact written",
		"dataset", dataset,
		"source", s.provider.Name(),
		"users", len(users),
		"items", len(items),
		"interactions", len(records),
		"dropped", res.Dropped)

	return &Summary{
		Source:       s.provider.Name(),
		RawRecords:   raw,
		Dropped:      res.Dropped,
		Interactions: len(records),
		Users:        len(users),
		Items:        len(items),
	}, nil
}

// filterByRating keeps interactions rated strictly above threshold. Boundary
// ratings are excluded.
func filterByRating(records []source.Record, threshold float64) []source.Record {
	kept := make([]source.Record, 0, len(records))
	for _, r := range records {
		if r.Rating > threshold {
			kept = append(kept, r)
		}
	}
	return kept
}

// filterByFrequency drops users below minInteractions, then items below
// minItems over the user-filtered set. A single pass is the contract: the
// item drop can leave users back under the threshold, and callers that need
// mutual convergence re-invoke the build.
func filterByFrequency(records []source.Record, minInteractions, minItems int) []source.Record {
	userCount := make(map[string]int)
	for _, r := range records {
		userCount[r.UserID]++
	}
	byUser := make([]source.Record, 0, len(records))
	for _, r := range records {
		if userCount[r.UserID] >= minInteractions {
			byUser = append(byUser, r)
		}
	}

	itemCount := make(map[string]int)
	for _, r := range byUser {
		itemCount[r.ItemID]++
	}
	kept := make([]source.Record, 0, len(byUser))
	for _, r := range byUser {
		if itemCount[r.ItemID] >= minItems {
			kept = append(kept, r)
		}
	}
	return kept
}

// remap assigns dense ids in ascending order of the original identifier,
// independently for users and items. Deterministic for a fixed filtered set.
func remap(records []source.Record) (users map[string]int, items map[string]int) {
	userSet := make(map[string]struct{})
	itemSet := make(map[string]struct{})
	for _, r := range records {
		userSet[r.UserID] = struct{}{}
		itemSet[r.ItemID] = struct{}{}
	}
	return denseIDs(userSet), denseIDs(itemSet)
}

func denseIDs(set map[string]struct{}) map[string]int {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	ids := make(map[string]int, len(keys))
	for i, k := range keys {
		ids[k] = i
	}
	return ids
}

// sequences groups interactions per user and projects them to item-id lists
// ordered by timestamp ascending. The sort is stable, so equal timestamps
// keep their original input order.
func sequences(records []source.Record, users, items map[string]int) map[int][]int {
	type event struct {
		item int
		ts   int64
	}
	grouped := make(map[int][]event, len(users))
	for _, r := range records {
		uid := users[r.UserID]
		grouped[uid] = append(grouped[uid], event{item: items[r.ItemID], ts: r.Timestamp})
	}

	out := make(map[int][]int, len(grouped))
	for uid, events := range grouped {
		sort.SliceStable(events, func(i, j int) bool { return events[i].ts < events[j].ts })
		seq := make([]int, len(events))
		for i, ev := range events {
			seq[i] = ev.item
		}
		out[uid] = seq
	}
	return out
}
