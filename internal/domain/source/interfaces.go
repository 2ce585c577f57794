package source

import (
	"context"
	"log/slog"
	"strings"
)

// Provider loads raw interaction events from one source format. New source
// formats add a Provider implementation, not new call sites.
type Provider interface {
	// Name identifies the source for logging and the run catalog.
	Name() string
	// Records reads the full event log. Malformed records are dropped and
	// counted; a missing file fails with ErrSourceNotFound.
	Records(ctx context.Context) (*Result, error)
}

// ForDataset picks the provider for a dataset name. "yelp" selects the Yelp
// review dump; everything else is treated as an Amazon-style CSV.
func ForDataset(dir, dataset string, logger *slog.Logger) Provider {
	if strings.EqualFold(dataset, "yelp") {
		return NewYelp(dir, logger)
	}
	return NewAmazon(dir, dataset, logger)
}
