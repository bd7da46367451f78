package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Entry is one manifest row: a registered indicator name, its reference CSV
// and the relative tolerance applied when comparing against it.
type Entry struct {
	Name      string  `yaml:"name"`
	Source    string  `yaml:"source"`
	Reference string  `yaml:"reference"`
	Tolerance float64 `yaml:"tolerance"`
}

// Manifest is the parsed catalog.yaml.
type Manifest struct {
	Entries []Entry `yaml:"entries"`
}

// LoadManifest reads and parses a catalog manifest from path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: cannot read manifest %s: %w", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("catalog: cannot parse manifest %s: %w", path, err)
	}

	for i := range m.Entries {
		if m.Entries[i].Tolerance == 0 {
			m.Entries[i].Tolerance = 1e-6
		}
	}

	return &m, nil
}
