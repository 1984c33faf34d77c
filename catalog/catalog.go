package catalog

import (
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// StemKind is the instrument family of a stem
type StemKind string

const (
	KindDrum  StemKind = "drum"
	KindBass  StemKind = "bass"
	KindSynth StemKind = "synth"
	KindVocal StemKind = "vocal"
	KindFX    StemKind = "fx"
)

// Valid reports whether k is one of the known kinds
func (k StemKind) Valid() bool {
	switch k {
	case KindDrum, KindBass, KindSynth, KindVocal, KindFX:
		return true
	}
	return false
}

// TextureLevels is the number of texture variants a stem cycles through
const TextureLevels = 3

// Stem is one layer of a loop
type Stem struct {
	ID      string   `yaml:"id" json:"id"`
	Kind    StemKind `yaml:"kind" json:"kind"`
	Name    string   `yaml:"name" json:"name"`
	Active  bool     `yaml:"active" json:"active"`
	Texture int      `yaml:"texture" json:"texture"`
}

// Loop is a catalog entry. Loops are never mutated once loaded.
type Loop struct {
	ID    string `yaml:"id" json:"id"`
	Name  string `yaml:"name" json:"name"`
	Genre string `yaml:"genre" json:"genre"`
	BPM   int    `yaml:"bpm" json:"bpm"`
	Color string `yaml:"color" json:"color"` // gradient token "#rrggbb..#rrggbb"
	Image string `yaml:"image" json:"image"`
	Stems []Stem `yaml:"stems" json:"stems"`
}

// CopyStems returns a copy of the loop's stems that is safe to mutate
func (l Loop) CopyStems() []Stem {
	if len(l.Stems) == 0 {
		return []Stem{}
	}
	out := make([]Stem, len(l.Stems))
	copy(out, l.Stems)
	return out
}

// Instrument is a template for adding a stem in the workspace
type Instrument struct {
	ID   string   `yaml:"id" json:"id"`
	Kind StemKind `yaml:"kind" json:"kind"`
	Name string   `yaml:"name" json:"name"`
}

// Catalog is the read-only data source for the deck and the workspace library
type Catalog struct {
	Loops       []Loop       `yaml:"loops"`
	Instruments []Instrument `yaml:"instruments"`
}

// Load decodes and validates a catalog from YAML
func Load(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadFile reads a catalog from a YAML file on disk
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Default returns the embedded catalog
func Default() *Catalog {
	var c Catalog
	if err := yaml.Unmarshal(defaultCatalog, &c); err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	if err := c.Validate(); err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return &c
}

// Validate checks the invariants the deck and workspace rely on
func (c *Catalog) Validate() error {
	if len(c.Loops) == 0 {
		return fmt.Errorf("catalog has no loops")
	}

	seen := make(map[string]bool)
	for i, l := range c.Loops {
		if l.ID == "" {
			return fmt.Errorf("loop %d: missing id", i)
		}
		if seen[l.ID] {
			return fmt.Errorf("loop %q: duplicate id", l.ID)
		}
		seen[l.ID] = true

		if l.BPM <= 0 {
			return fmt.Errorf("loop %q: bpm must be positive, got %d", l.ID, l.BPM)
		}
		stemIDs := make(map[string]bool, len(l.Stems))
		for _, s := range l.Stems {
			if stemIDs[s.ID] {
				return fmt.Errorf("loop %q stem %q: duplicate stem id", l.ID, s.ID)
			}
			stemIDs[s.ID] = true
			if !s.Kind.Valid() {
				return fmt.Errorf("loop %q stem %q: unknown kind %q", l.ID, s.ID, s.Kind)
			}
			if s.Texture < 0 || s.Texture >= TextureLevels {
				return fmt.Errorf("loop %q stem %q: texture %d out of range", l.ID, s.ID, s.Texture)
			}
		}
	}

	for _, inst := range c.Instruments {
		if !inst.Kind.Valid() {
			return fmt.Errorf("instrument %q: unknown kind %q", inst.ID, inst.Kind)
		}
	}
	return nil
}
