package ontology

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlFile is the on-disk shape of a YAML ontology definition.
type yamlFile struct {
	Concepts []Concept `yaml:"concepts"`
}

// LoadYAML reads concept definitions from a YAML file. The file holds a
// top-level `concepts` list; field names follow the Concept yaml tags.
// Definitions are validated by New, so a malformed file is a load-time
// configuration error.
func LoadYAML(path string) ([]Concept, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ontology file: %w", err)
	}
	return ParseYAML(data)
}

// ParseYAML decodes concept definitions from YAML bytes.
func ParseYAML(data []byte) ([]Concept, error) {
	var f yamlFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing ontology yaml: %w", err)
	}
	if len(f.Concepts) == 0 {
		return nil, fmt.Errorf("ontology yaml: no concepts defined")
	}
	return f.Concepts, nil
}
