package registry

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

//go:embed teams.json
var defaultDataset []byte

// dataset is the on-disk shape of a registry file.
type dataset struct {
	Teams []TeamRecord `json:"teams"`
}

// Parse decodes a JSON dataset and builds a registry from it.
func Parse(r io.Reader) (*Registry, error) {
	var ds dataset
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ds); err != nil {
		return nil, fmt.Errorf("decoding team dataset: %w", err)
	}
	if len(ds.Teams) == 0 {
		return nil, fmt.Errorf("team dataset has no teams")
	}
	return New(ds.Teams)
}

// Load reads a dataset file. An empty path loads the embedded dataset.
func Load(path string) (*Registry, error) {
	if path == "" {
		return LoadDefault()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening team dataset: %w", err)
	}
	defer f.Close()

	reg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}

// LoadDefault builds the registry from the embedded dataset.
func LoadDefault() (*Registry, error) {
	return Parse(bytes.NewReader(defaultDataset))
}

// Encode writes records in the dataset file format.
func Encode(w io.Writer, records []TeamRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(dataset{Teams: records})
}
