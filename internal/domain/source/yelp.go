package source

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
)

// yelpReviewFile is the fixed name of the Yelp academic review dump.
const yelpReviewFile = "yelp_academic_dataset_review.json"

// Yelp reads the newline-delimited JSON review dump.
type Yelp struct {
	dir    string
	logger *slog.Logger
}

// NewYelp creates a provider for <dir>/yelp_academic_dataset_review.json.
func NewYelp(dir string, logger *slog.Logger) *Yelp {
	return &Yelp{dir: dir, logger: logger}
}

type yelpReview struct {
	UserID     string  `json:"user_id"`
	BusinessID string  `json:"business_id"`
	Stars      float64 `json:"stars"`
	Date       string  `json:"date"`
}

func (p *Yelp) Name() string { return "yelp" }

// Records reads the review dump, dropping lines that fail to parse.
func (p *Yelp) Records(ctx context.Context) (*Result, error) {
	path := filepath.Join(p.dir, yelpReviewFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, ErrSourceNotFound)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	// Review text makes single lines far larger than the scanner default.
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)

	result := &Result{}
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var review yelpReview
		if err := json.Unmarshal(line, &review); err != nil {
			result.Dropped++
			continue
		}
		if review.UserID == "" || review.BusinessID == "" {
			result.Dropped++
			continue
		}
		ts, err := parseYelpDate(review.Date)
		if err != nil {
			result.Dropped++
			continue
		}
		result.Records = append(result.Records, Record{
			UserID:    review.UserID,
			ItemID:    review.BusinessID,
			Rating:    review.Stars,
			Timestamp: ts,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}

	if result.Dropped > 0 {
		p.logger.Warn("dropped malformed records",
			"source", p.Name(), "file", path, "count", result.Dropped)
	}
	return result, nil
}

func parseYelpDate(s string) (int64, error) {
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Unix(), nil
		}
	}
	return 0, fmt.Errorf("unrecognized date %q", s)
}
