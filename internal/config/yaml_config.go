package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"searchlog/internal/terms"
)

// YAMLConfig represents the structure of the config.yaml file.
// Consolidation policy is easier to tune in a file than in env vars.
type YAMLConfig struct {
	Policy PolicyConfig `yaml:"policy"`
}

// PolicyConfig overrides the consolidation policy. Zero values keep the
// defaults.
type PolicyConfig struct {
	MergeWindow      time.Duration `yaml:"merge_window"`       // e.g. "60s"
	MaxMergeDistance *int          `yaml:"max_merge_distance"` // Levenshtein edits treated as a refinement
	GlobalCacheTTL   time.Duration `yaml:"global_cache_ttl"`   // e.g. "15s"
	SuggestionLimit  int           `yaml:"suggestion_limit"`   // at most 5
}

// LoadYAMLConfig loads the YAML configuration file at path.
// Returns nil without error if the config file doesn't exist.
func LoadYAMLConfig(path string) (*YAMLConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file is optional
			return nil, nil
		}
		return nil, err
	}

	var cfg YAMLConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// TermPolicy returns the consolidation policy with file overrides applied.
func (c *YAMLConfig) TermPolicy() terms.Policy {
	policy := terms.DefaultPolicy()
	if c == nil {
		return policy
	}

	p := c.Policy
	if p.MergeWindow > 0 {
		policy.MergeWindow = p.MergeWindow
	}
	if p.MaxMergeDistance != nil && *p.MaxMergeDistance >= 0 {
		policy.MaxMergeDistance = *p.MaxMergeDistance
	}
	if p.GlobalCacheTTL > 0 {
		policy.GlobalCacheTTL = p.GlobalCacheTTL
	}
	if p.SuggestionLimit > 0 {
		policy.SuggestionLimit = min(p.SuggestionLimit, terms.ViewLimit)
	}
	return policy
}
