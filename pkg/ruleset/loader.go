package ruleset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadScenario reads and validates a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scn Scenario
	if err := yaml.Unmarshal(data, &scn); err != nil {
		return nil, fmt.Errorf("failed to parse scenario YAML: %w", err)
	}
	if err := scn.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scn, nil
}

// Loader provides cached loading of scenarios from a base directory.
// Scenario <name> lives at baseDir/<name>.yaml.
type Loader struct {
	baseDir string
	cache   map[string]*Scenario
}

// NewLoader creates a scenario loader for the given base directory.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		baseDir: baseDir,
		cache:   make(map[string]*Scenario),
	}
}

// Load loads a scenario by name. Results are cached for subsequent loads.
func (l *Loader) Load(name string) (*Scenario, error) {
	// Validate name to prevent path traversal
	if strings.Contains(name, "..") || strings.Contains(name, "/") || strings.Contains(name, "\\") {
		return nil, fmt.Errorf("invalid scenario name: %s", name)
	}

	if scn, ok := l.cache[name]; ok {
		return scn, nil
	}

	scn, err := LoadScenario(filepath.Join(l.baseDir, name+".yaml"))
	if err != nil {
		return nil, err
	}

	l.cache[name] = scn
	return scn, nil
}
