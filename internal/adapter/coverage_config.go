package adapter

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	m "gooze.dev/pkg/covfold/internal/model"
)

// RemapEnvKey is the environment override for the coverage tool's remap
// pairs. Saving the configuration artifact also exports this variable so a
// report-generation pass in the same process observes the rewritten value
// immediately, without re-reading the on-disk copy.
const RemapEnvKey = "COVFOLD_REMAP"

// CoverageToolConfig is the coverage tool's own configuration artifact: a
// YAML document whose remap field holds ordered [from, to] prefix pairs.
// The tool's internal report-generation step reads source files from disk
// using these pairs, so they must point at the local workspace rather than
// container-only paths. Unknown fields round-trip untouched.
type CoverageToolConfig struct {
	Remap [][2]string    `yaml:"remap"`
	Extra map[string]any `yaml:",inline"`
}

// Rules converts the config's remap pairs into an ordered rule set.
func (c CoverageToolConfig) Rules() m.RuleSet {
	rules := make(m.RuleSet, 0, len(c.Remap))
	for _, pair := range c.Remap {
		rules = append(rules, m.RemapRule{From: pair[0], To: pair[1]})
	}

	return rules
}

// CoverageConfigStore reads and rewrites the coverage tool configuration.
type CoverageConfigStore interface {
	Load(path m.Path) (CoverageToolConfig, error)
	Save(path m.Path, cfg CoverageToolConfig) error
}

// LocalCoverageConfigStore is the disk-backed CoverageConfigStore.
type LocalCoverageConfigStore struct{}

// NewLocalCoverageConfigStore constructs a LocalCoverageConfigStore.
func NewLocalCoverageConfigStore() *LocalCoverageConfigStore {
	return &LocalCoverageConfigStore{}
}

// Load decodes the configuration artifact. The environment override, when
// present, takes precedence over the on-disk remap field.
func (s *LocalCoverageConfigStore) Load(path m.Path) (CoverageToolConfig, error) {
	raw, err := os.ReadFile(string(path))
	if err != nil {
		return CoverageToolConfig{}, fmt.Errorf("read coverage config: %w", err)
	}

	var cfg CoverageToolConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return CoverageToolConfig{}, fmt.Errorf("decode coverage config %s: %w", path, err)
	}

	if override, ok := os.LookupEnv(RemapEnvKey); ok && override != "" {
		var pairs [][2]string
		if err := json.Unmarshal([]byte(override), &pairs); err != nil {
			return CoverageToolConfig{}, fmt.Errorf("decode %s override: %w", RemapEnvKey, err)
		}

		cfg.Remap = pairs
	}

	return cfg, nil
}

// Save rewrites the configuration artifact and exports the remap override.
func (s *LocalCoverageConfigStore) Save(path m.Path, cfg CoverageToolConfig) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode coverage config: %w", err)
	}

	if err := os.WriteFile(string(path), raw, 0o600); err != nil {
		return fmt.Errorf("write coverage config: %w", err)
	}

	pairs, err := json.Marshal(cfg.Remap)
	if err != nil {
		return fmt.Errorf("encode %s override: %w", RemapEnvKey, err)
	}

	if err := os.Setenv(RemapEnvKey, string(pairs)); err != nil {
		return fmt.Errorf("set %s override: %w", RemapEnvKey, err)
	}

	return nil
}
