package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/goccy/go-json"
)

// Store reads and writes canonical artifacts on the local filesystem.
// Each dataset occupies <root>/<dataset>/<dataset>.{inter,index,item}.json,
// JSON mappings keyed by stringified dense ids.
type Store struct {
	root string
}

// NewStore creates a Store rooted at the processed-datasets directory.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Write persists all three artifact files, creating the dataset directory.
// Last writer wins; callers that care must serialize builds externally.
func (s *Store) Write(dataset string, a *Artifact) error {
	dir := filepath.Join(s.root, dataset)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dataset dir: %w", err)
	}
	if err := writeJSON(s.interPath(dataset), stringKeys(a.Interactions)); err != nil {
		return err
	}
	if err := writeJSON(s.indexPath(dataset), stringKeys(a.Indices)); err != nil {
		return err
	}
	if err := writeJSON(s.itemPath(dataset), stringKeys(a.Features)); err != nil {
		return err
	}
	return nil
}

// Read loads the canonical artifact. The feature file is only touched when
// withFeatures is set.
func (s *Store) Read(dataset string, withFeatures bool) (*Artifact, error) {
	var rawInters map[string][]int
	if err := readJSON(s.interPath(dataset), &rawInters); err != nil {
		return nil, err
	}
	inters, err := intKeys(rawInters)
	if err != nil {
		return nil, fmt.Errorf("interaction mapping: %w", err)
	}

	var rawIndices map[string][]string
	if err := readJSON(s.indexPath(dataset), &rawIndices); err != nil {
		return nil, err
	}
	indices, err := intKeys(rawIndices)
	if err != nil {
		return nil, fmt.Errorf("index mapping: %w", err)
	}

	a := &Artifact{Interactions: inters, Indices: indices}

	if withFeatures {
		var rawFeatures map[string]ItemFeatures
		if err := readJSON(s.itemPath(dataset), &rawFeatures); err != nil {
			return nil, err
		}
		a.Features, err = intKeys(rawFeatures)
		if err != nil {
			return nil, fmt.Errorf("feature mapping: %w", err)
		}
	}

	return a, nil
}

func (s *Store) interPath(dataset string) string {
	return filepath.Join(s.root, dataset, dataset+".inter.json")
}

func (s *Store) indexPath(dataset string) string {
	return filepath.Join(s.root, dataset, dataset+".index.json")
}

func (s *Store) itemPath(dataset string) string {
	return filepath.Join(s.root, dataset, dataset+".item.json")
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

func readJSON(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func stringKeys[V any](m map[int]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[strconv.Itoa(k)] = v
	}
	return out
}

func intKeys[V any](m map[string]V) (map[int]V, error) {
	out := make(map[int]V, len(m))
	for k, v := range m {
		id, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("non-integer key %q", k)
		}
		out[id] = v
	}
	return out, nil
}
