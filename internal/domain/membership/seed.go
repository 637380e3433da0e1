package membership

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

type tierFile struct {
	Tiers []Tier `yaml:"tiers"`
}

// LoadTiers reads tier definitions from YAML and validates each one. Levels
// must be unique.
func LoadTiers(r io.Reader) ([]Tier, error) {
	var f tierFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode tiers: %w", err)
	}

	seen := map[int]bool{}
	for i := range f.Tiers {
		t := &f.Tiers[i]
		if t.Color == "" {
			t.Color = "#999999"
		}
		if errs := ValidateTier(*t); len(errs) > 0 {
			return nil, fmt.Errorf("tier %d: %s", t.Level, strings.Join(errs, "; "))
		}
		if seen[t.Level] {
			return nil, fmt.Errorf("tier %d defined twice", t.Level)
		}
		seen[t.Level] = true
	}
	return f.Tiers, nil
}
