package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if err := c.Graph.validate(); err != nil {
		return fmt.Errorf("graph: %w", err)
	}

	return nil
}

func (g *GraphConfig) validate() error {
	if g.MaxBatchSize <= 0 {
		return fmt.Errorf("max_batch_size must be > 0 (got %d)", g.MaxBatchSize)
	}
	if g.MaxBulkKnowledge <= 0 {
		return fmt.Errorf("max_bulk_knowledge must be > 0 (got %d)", g.MaxBulkKnowledge)
	}

	g.ExtraEntityTypes = ParseEntityTypes(g.ExtraEntityTypesRaw)
	for _, t := range g.ExtraEntityTypes {
		if strings.ContainsAny(t, " \t") {
			return fmt.Errorf("extra_entity_types: %q contains whitespace", t)
		}
	}

	return nil
}

// ParseEntityTypes splits a comma-separated type list, trimming blanks.
// An empty string returns a nil slice.
func ParseEntityTypes(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var types []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			types = append(types, part)
		}
	}
	return types
}
