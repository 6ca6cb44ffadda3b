package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// SeedConfig is the structure of the development seed file.
// Organizations and their portals are easier to describe in YAML than env vars.
type SeedConfig struct {
	Organizations []SeedOrganization `yaml:"organizations"`
}

// SeedOrganization defines an organization and the portals it starts with.
type SeedOrganization struct {
	Name    string       `yaml:"name"`
	Admins  []string     `yaml:"admins,omitempty"` // identity emails granted admin
	Members []string     `yaml:"members,omitempty"`
	Portals []SeedPortal `yaml:"portals,omitempty"`
}

// SeedPortal defines a portal in the seed file.
type SeedPortal struct {
	Name           string         `yaml:"name"`
	Slug           string         `yaml:"slug"`
	DestinationURL string         `yaml:"destination_url"`
	Theme          map[string]any `yaml:"theme,omitempty"`
}

// LoadSeedConfig loads the seed file at path.
// Returns nil without error if the file doesn't exist.
func LoadSeedConfig(path string) (*SeedConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var cfg SeedConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// PortalCount returns the number of portals across all seeded organizations.
func (c *SeedConfig) PortalCount() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, org := range c.Organizations {
		n += len(org.Portals)
	}
	return n
}
