package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadPolicy reads a YAML policy file. An empty path yields the default policy.
func LoadPolicy(path string) (Policy, error) {
	if path == "" {
		return Default(), nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("failed to read policy %s: %w", path, err)
	}

	var dto YAMLPolicy
	if err := yaml.Unmarshal(b, &dto); err != nil {
		return Policy{}, fmt.Errorf("failed to parse policy %s: %w", path, err)
	}

	p, err := MapPolicy(dto)
	if err != nil {
		return Policy{}, fmt.Errorf("invalid policy %s: %w", path, err)
	}
	return p, nil
}
