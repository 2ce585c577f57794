package split_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/jmorrel/seqprep/internal/artifact"
	"github.com/jmorrel/seqprep/internal/domain/split"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFixture(t *testing.T, withFeatures bool) *artifact.Store {
	t.Helper()
	store := artifact.NewStore(t.TempDir())
	a := &artifact.Artifact{
		Interactions: map[int][]int{
			0: {0, 1, 2, 3, 4, 5},
			1: {2, 3, 4},
		},
		Indices: map[int][]string{
			0: {"<a_1>", "<b_2>", "<c_3>", "<d_4>"},
			1: {"<a_5>", "<b_6>", "<c_7>", "<d_8>"},
		},
		Features: map[int]artifact.ItemFeatures{},
	}
	if withFeatures {
		a.Features = map[int]artifact.ItemFeatures{
			0: {Title: "Item 0", Description: "Description for item 0"},
			1: {Title: "Item 1", Description: "Description for item 1"},
		}
	}
	require.NoError(t, store.Write("test", a))
	return store
}

func TestReader_StatsAndSplits(t *testing.T) {
	store := writeFixture(t, false)

	reader, err := split.NewReader(store, "test", 4, false, discardLogger())
	require.NoError(t, err)

	stats := reader.Stats()
	require.Equal(t, 3, stats.NUsers)
	require.Equal(t, 7, stats.NItems)
	require.Equal(t, 9, stats.Interactions)

	splits := reader.Splits()
	require.Equal(t, 3, splits.Train.Len())
	require.Equal(t, 2, splits.Valid.Len())
	require.Equal(t, 2, splits.Test.Len())
}

func TestReader_MissingArtifact(t *testing.T) {
	store := artifact.NewStore(t.TempDir())

	_, err := split.NewReader(store, "absent", 4, false, discardLogger())
	require.ErrorIs(t, err, artifact.ErrNotFound)
}

func TestReader_TokensForOmitsUnknownIDs(t *testing.T) {
	store := writeFixture(t, false)

	reader, err := split.NewReader(store, "test", 4, false, discardLogger())
	require.NoError(t, err)

	tokens := reader.TokensFor([]int{0, 99})
	require.Len(t, tokens, 1)
	require.Equal(t, []string{"<a_1>", "<b_2>", "<c_3>", "<d_4>"}, tokens[0])
	require.NotContains(t, tokens, 99)
}

func TestReader_FeaturesForDisabled(t *testing.T) {
	store := writeFixture(t, false)

	reader, err := split.NewReader(store, "test", 4, false, discardLogger())
	require.NoError(t, err)

	_, err = reader.FeaturesFor([]int{0})
	require.ErrorIs(t, err, split.ErrFeaturesDisabled)
}

func TestReader_FeaturesForEnabled(t *testing.T) {
	store := writeFixture(t, true)

	reader, err := split.NewReader(store, "test", 4, true, discardLogger())
	require.NoError(t, err)

	features, err := reader.FeaturesFor([]int{1, 42})
	require.NoError(t, err)
	require.Len(t, features, 1)
	require.Equal(t, "Item 1", features[1].Title)

	// No matches is an empty map, distinct from the disabled sentinel.
	features, err = reader.FeaturesFor([]int{42})
	require.NoError(t, err)
	require.NotNil(t, features)
	require.Empty(t, features)
}
