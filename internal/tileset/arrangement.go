package tileset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// arrangementDocument is the on-disk shape of a synthesized grid: one
// row of tile ids per grid row, written top to bottom.
type arrangementDocument struct {
	Width  int        `yaml:"width"`
	Height int        `yaml:"height"`
	Rows   [][]string `yaml:"rows"`
}

// WriteArrangement writes a completed synthesis result to path as YAML.
func WriteArrangement(path string, arrangement [][]string) error {
	if len(arrangement) == 0 {
		return fmt.Errorf("tileset: cannot write an empty arrangement")
	}

	doc := arrangementDocument{
		Width:  len(arrangement[0]),
		Height: len(arrangement),
		Rows:   arrangement,
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("tileset: creating %q: %w", path, err)
	}
	defer f.Close()

	encoder := yaml.NewEncoder(f)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("tileset: encoding arrangement to %q: %w", path, err)
	}
	return nil
}

// LoadArrangement reads back a previously written arrangement.
func LoadArrangement(path string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tileset: reading %q: %w", path, err)
	}
	var doc arrangementDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("tileset: parsing arrangement %q: %w", path, err)
	}
	return doc.Rows, nil
}
