package source

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Amazon reads Amazon-review style CSV event logs. Column names are
// harmonized onto the canonical four-tuple before parsing.
type Amazon struct {
	dir     string
	dataset string
	logger  *slog.Logger
}

// NewAmazon creates a provider for <dir>/<dataset>.csv.
func NewAmazon(dir, dataset string, logger *slog.Logger) *Amazon {
	return &Amazon{dir: dir, dataset: dataset, logger: logger}
}

// columnAliases maps known source headers onto canonical field names.
var columnAliases = map[string]string{
	"user_id":        "user_id",
	"item_id":        "item_id",
	"rating":         "rating",
	"timestamp":      "timestamp",
	"reviewerID":     "user_id",
	"asin":           "item_id",
	"overall":        "rating",
	"unixReviewTime": "timestamp",
}

// columns holds the harmonized header indices.
type columns struct {
	user, item, rating, ts int
}

func (p *Amazon) Name() string { return "amazon" }

// Records reads the interaction CSV, dropping malformed rows.
func (p *Amazon) Records(ctx context.Context) (*Result, error) {
	path, err := p.resolveFile()
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(bufio.NewReader(f))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := harmonizeHeader(header)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			result.Dropped++
			continue
		}
		rec, ok := parseRow(row, cols)
		if !ok {
			result.Dropped++
			continue
		}
		result.Records = append(result.Records, rec)
	}

	if result.Dropped > 0 {
		p.logger.Warn("dropped malformed records",
			"source", p.Name(), "file", path, "count", result.Dropped)
	}
	return result, nil
}

// resolveFile probes the primary filename and a small fixed set of
// alternates; there is no wider path search.
func (p *Amazon) resolveFile() (string, error) {
	candidates := []string{
		p.dataset + ".csv",
		p.dataset + "_5.csv",
		p.dataset + "_interactions.csv",
	}
	for _, name := range candidates {
		path := filepath.Join(p.dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("dataset %s in %s: %w", p.dataset, p.dir, ErrSourceNotFound)
}

func harmonizeHeader(header []string) (columns, error) {
	cols := columns{user: -1, item: -1, rating: -1, ts: -1}
	for i, name := range header {
		canonical, ok := columnAliases[strings.TrimSpace(name)]
		if !ok {
			continue
		}
		switch canonical {
		case "user_id":
			if cols.user < 0 {
				cols.user = i
			}
		case "item_id":
			if cols.item < 0 {
				cols.item = i
			}
		case "rating":
			if cols.rating < 0 {
				cols.rating = i
			}
		case "timestamp":
			if cols.ts < 0 {
				cols.ts = i
			}
		}
	}
	for field, idx := range map[string]int{
		"user_id": cols.user, "item_id": cols.item,
		"rating": cols.rating, "timestamp": cols.ts,
	} {
		if idx < 0 {
			return columns{}, fmt.Errorf("%s: %w", field, ErrSchema)
		}
	}
	return cols, nil
}

func parseRow(row []string, cols columns) (Record, bool) {
	maxIdx := cols.user
	for _, idx := range []int{cols.item, cols.rating, cols.ts} {
		if idx > maxIdx {
			maxIdx = idx
		}
	}
	if len(row) <= maxIdx {
		return Record{}, false
	}

	user := strings.TrimSpace(row[cols.user])
	item := strings.TrimSpace(row[cols.item])
	if user == "" || item == "" {
		return Record{}, false
	}
	rating, err := strconv.ParseFloat(strings.TrimSpace(row[cols.rating]), 64)
	if err != nil {
		return Record{}, false
	}
	// Timestamps occasionally carry a fractional part in review dumps.
	ts, err := strconv.ParseFloat(strings.TrimSpace(row[cols.ts]), 64)
	if err != nil {
		return Record{}, false
	}

	return Record{UserID: user, ItemID: item, Rating: rating, Timestamp: int64(ts)}, true
}
