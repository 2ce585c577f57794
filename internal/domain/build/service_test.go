package build_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/jmorrel/seqprep/internal/artifact"
	"github.com/jmorrel/seqprep/internal/domain/build"
	"github.com/jmorrel/seqprep/internal/domain/source"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type providerMock struct {
	mock.Mock
}

func (m *providerMock) Name() string { return "test" }

func (m *providerMock) Records(ctx context.Context) (*source.Result, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*source.Result), args.Error(1)
}

// captureWriter records the artifact handed to it instead of touching disk.
type captureWriter struct {
	dataset  string
	artifact *artifact.Artifact
}

func (w *captureWriter) Write(dataset string, a *artifact.Artifact) error {
	w.dataset = dataset
	w.artifact = a
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(records []source.Record, dropped int) (*build.Service, *captureWriter) {
	provider := &providerMock{}
	provider.On("Records", mock.Anything).Return(&source.Result{Records: records, Dropped: dropped}, nil)
	writer := &captureWriter{}
	svc := build.NewService(provider, writer, build.RandomIndexer{}, build.PlaceholderFeatures{}, discardLogger())
	return svc, writer
}

func TestService_RatingFilterIsStrict(t *testing.T) {
	ctx := context.Background()
	records := []source.Record{
		{UserID: "u1", ItemID: "i1", Rating: 3.0, Timestamp: 1}, // boundary, excluded
		{UserID: "u1", ItemID: "i2", Rating: 3.0001, Timestamp: 2},
		{UserID: "u1", ItemID: "i3", Rating: 5.0, Timestamp: 3},
	}
	svc, writer := newService(records, 0)

	summary, err := svc.Run(ctx, "ds", build.Options{RatingThreshold: 3.0, MinInteractions: 1, MinItems: 1})
	require.NoError(t, err)
	require.Equal(t, 2, summary.Interactions)
	require.Equal(t, 2, summary.Items)

	// i1 was filtered out, so dense ids cover i2 and i3 only.
	require.Equal(t, map[int][]int{0: {0, 1}}, writer.artifact.Interactions)
}

func TestService_FrequencyFilterSinglePass(t *testing.T) {
	ctx := context.Background()
	// u2 survives the user filter with two interactions, but loses one to
	// the item filter; the pass is not iterated, so u2 stays with a single
	// remaining interaction.
	records := []source.Record{
		{UserID: "u1", ItemID: "i1", Rating: 5, Timestamp: 1},
		{UserID: "u1", ItemID: "i1", Rating: 5, Timestamp: 2},
		{UserID: "u2", ItemID: "i1", Rating: 5, Timestamp: 1},
		{UserID: "u2", ItemID: "i9", Rating: 5, Timestamp: 2},
		{UserID: "u3", ItemID: "i1", Rating: 5, Timestamp: 1}, // below min_interactions
	}
	svc, writer := newService(records, 0)

	summary, err := svc.Run(ctx, "ds", build.Options{RatingThreshold: 0, MinInteractions: 2, MinItems: 2})
	require.NoError(t, err)
	require.Equal(t, 2, summary.Users)
	require.Equal(t, 1, summary.Items)
	require.Equal(t, 3, summary.Interactions)
	require.Equal(t, map[int][]int{
		0: {0, 0}, // u1 -> i1 twice
		1: {0},    // u2 left under min_interactions after the item drop
	}, writer.artifact.Interactions)
}

func TestService_RemapIsDenseAndOrdered(t *testing.T) {
	ctx := context.Background()
	records := []source.Record{
		{UserID: "zed", ItemID: "B00X", Rating: 5, Timestamp: 2},
		{UserID: "ann", ItemID: "A00Y", Rating: 5, Timestamp: 1},
		{UserID: "zed", ItemID: "A00Y", Rating: 5, Timestamp: 1},
		{UserID: "ann", ItemID: "B00X", Rating: 5, Timestamp: 2},
	}
	svc, writer := newService(records, 0)

	summary, err := svc.Run(ctx, "ds", build.Options{MinInteractions: 1, MinItems: 1})
	require.NoError(t, err)
	require.Equal(t, 2, summary.Users)
	require.Equal(t, 2, summary.Items)

	// ann -> 0, zed -> 1; A00Y -> 0, B00X -> 1, ascending original id.
	require.Equal(t, map[int][]int{
		0: {0, 1},
		1: {0, 1},
	}, writer.artifact.Interactions)
}

func TestService_TimestampSortIsStable(t *testing.T) {
	ctx := context.Background()
	records := []source.Record{
		{UserID: "u1", ItemID: "c", Rating: 5, Timestamp: 10},
		{UserID: "u1", ItemID: "a", Rating: 5, Timestamp: 10}, // tie: input order wins
		{UserID: "u1", ItemID: "b", Rating: 5, Timestamp: 5},
	}
	svc, writer := newService(records, 0)

	_, err := svc.Run(ctx, "ds", build.Options{MinInteractions: 1, MinItems: 1})
	require.NoError(t, err)

	// b first (earlier timestamp), then c before a (tie broken by input order).
	require.Equal(t, []int{1, 2, 0}, writer.artifact.Interactions[0])
}

func TestService_IndexAndFeatureCoverage(t *testing.T) {
	ctx := context.Background()
	records := []source.Record{
		{UserID: "u1", ItemID: "i1", Rating: 5, Timestamp: 1},
		{UserID: "u1", ItemID: "i2", Rating: 5, Timestamp: 2},
		{UserID: "u2", ItemID: "i3", Rating: 5, Timestamp: 1},
	}
	svc, writer := newService(records, 0)

	_, err := svc.Run(ctx, "ds", build.Options{MinInteractions: 1, MinItems: 1})
	require.NoError(t, err)

	require.Len(t, writer.artifact.Indices, 3)
	require.Len(t, writer.artifact.Features, 3)
	for item := 0; item < 3; item++ {
		require.Len(t, writer.artifact.Indices[item], build.IndexArity)
		require.NotEmpty(t, writer.artifact.Features[item].Title)
	}
}

func TestService_DroppedCountSurfaced(t *testing.T) {
	ctx := context.Background()
	records := []source.Record{
		{UserID: "u1", ItemID: "i1", Rating: 5, Timestamp: 1},
	}
	svc, _ := newService(records, 7)

	summary, err := svc.Run(ctx, "ds", build.Options{MinInteractions: 1, MinItems: 1})
	require.NoError(t, err)
	require.Equal(t, 7, summary.Dropped)
	require.Equal(t, 1, summary.RawRecords)
}

func TestService_EmptyAfterFiltering(t *testing.T) {
	ctx := context.Background()
	records := []source.Record{
		{UserID: "u1", ItemID: "i1", Rating: 1, Timestamp: 1},
	}
	svc, writer := newService(records, 0)

	summary, err := svc.Run(ctx, "ds", build.Options{RatingThreshold: 3, MinInteractions: 1, MinItems: 1})
	require.NoError(t, err)
	require.Zero(t, summary.Users)
	require.Zero(t, summary.Items)
	require.Empty(t, writer.artifact.Interactions)
	require.Empty(t, writer.artifact.Indices)
}

func TestService_SourceErrorPropagates(t *testing.T) {
	ctx := context.Background()
	provider := &providerMock{}
	provider.On("Records", mock.Anything).Return(nil, source.ErrSourceNotFound)
	svc := build.NewService(provider, &captureWriter{}, build.RandomIndexer{}, build.PlaceholderFeatures{}, discardLogger())

	_, err := svc.Run(ctx, "ds", build.Options{})
	require.ErrorIs(t, err, source.ErrSourceNotFound)
}
