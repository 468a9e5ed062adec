package skills

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Overlay extends the built-in table with deployment-specific vocabulary.
//
// Example file:
//
//	clusters:
//	  - name: Terraform
//	    category: devops
//	    aliases: [tf, terraform cloud]
//	denylist:
//	  - [scala, scalar]
//	plurals:
//	  lambdas: lambda
type Overlay struct {
	Clusters []Cluster         `yaml:"clusters"`
	Denylist [][]string        `yaml:"denylist"`
	Plurals  map[string]string `yaml:"plurals"`
}

// ParseOverlay decodes a YAML overlay document.
func ParseOverlay(data []byte) (Overlay, error) {
	var o Overlay
	if err := yaml.Unmarshal(data, &o); err != nil {
		return Overlay{}, &OverlayError{Message: "failed to parse skill overlay", Cause: err}
	}
	for i, c := range o.Clusters {
		if c.Name == "" {
			return Overlay{}, &OverlayError{Message: fmt.Sprintf("cluster %d has no name", i)}
		}
	}
	for i, pair := range o.Denylist {
		if len(pair) != 2 {
			return Overlay{}, &OverlayError{Message: fmt.Sprintf("denylist entry %d must have exactly two names, got %d", i, len(pair))}
		}
	}
	return o, nil
}

// LoadTable reads an overlay file and applies it on top of the built-in table.
// An empty path returns the built-in table unchanged.
func LoadTable(path string) (*Table, error) {
	if path == "" {
		return defaultTable, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &OverlayError{Message: fmt.Sprintf("failed to read skill overlay %s", path), Cause: err}
	}
	o, err := ParseOverlay(data)
	if err != nil {
		return nil, err
	}
	return defaultTable.With(o), nil
}
