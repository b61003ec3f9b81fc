// Package tileset loads a tile catalog from a YAML document and turns
// it into the wfc.TileDescriptor slice a rule table is built from. It
// is the input boundary for caller-supplied adjacency data; it does not
// reach into image decoding or tile slicing, which stay external
// collaborators.
package tileset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wavetile/tilesynth/internal/wfc"
)

// document is the on-disk YAML shape of a tile catalog.
type document struct {
	TileWidth  int         `yaml:"tile_width"`
	TileHeight int         `yaml:"tile_height"`
	Tiles      []tileEntry `yaml:"tiles"`
}

type tileEntry struct {
	ID      string              `yaml:"id"`
	Borders map[string][]string `yaml:"borders"`
}

var directionNames = map[string]wfc.Direction{
	"north": wfc.North,
	"east":  wfc.East,
	"south": wfc.South,
	"west":  wfc.West,
}

// Load reads a tile catalog from path and returns its tiles as
// wfc.TileDescriptor values. It does not itself run the full
// rule-table validation (duplicate ids, uniform dimensions); that
// happens when the caller passes the result to wfc.NewRuleTable, so the
// same validation rules are never duplicated here.
func Load(path string) ([]wfc.TileDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tileset: reading %q: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a tile catalog from raw YAML bytes.
func Parse(data []byte) ([]wfc.TileDescriptor, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("tileset: parsing YAML: %w", err)
	}
	if doc.TileWidth <= 0 || doc.TileHeight <= 0 {
		return nil, fmt.Errorf("%w: tile_width and tile_height must be positive", wfc.ErrInvalidInput)
	}
	if len(doc.Tiles) == 0 {
		return nil, fmt.Errorf("%w: tileset has no tiles", wfc.ErrInvalidInput)
	}

	tiles := make([]wfc.TileDescriptor, 0, len(doc.Tiles))
	for _, entry := range doc.Tiles {
		if entry.ID == "" {
			return nil, fmt.Errorf("%w: tile entry has an empty id", wfc.ErrInvalidInput)
		}

		var borders [4][]string
		for name, ids := range entry.Borders {
			d, ok := directionNames[name]
			if !ok {
				return nil, fmt.Errorf("%w: tile %q names unknown direction %q", wfc.ErrInvalidInput, entry.ID, name)
			}
			borders[d] = append([]string(nil), ids...)
		}

		tiles = append(tiles, wfc.TileDescriptor{
			ID:      entry.ID,
			Width:   doc.TileWidth,
			Height:  doc.TileHeight,
			Borders: borders,
		})
	}

	return tiles, nil
}

// Write renders tiles back to the on-disk YAML shape, the inverse of
// Load/Parse. Useful for round-tripping a catalog built in code (e.g.
// by a test fixture or an authoring tool) to disk.
func Write(path string, tiles []wfc.TileDescriptor) error {
	if len(tiles) == 0 {
		return fmt.Errorf("tileset: cannot write an empty tile set")
	}

	doc := document{
		TileWidth:  tiles[0].Width,
		TileHeight: tiles[0].Height,
	}
	for _, t := range tiles {
		entry := tileEntry{ID: t.ID, Borders: map[string][]string{}}
		for name, d := range directionNames {
			if len(t.Borders[d]) > 0 {
				entry.Borders[name] = t.Borders[d]
			}
		}
		doc.Tiles = append(doc.Tiles, entry)
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
		return fmt.Errorf("tileset: encoding %q: %w", path, err)
	}
	return nil
}
