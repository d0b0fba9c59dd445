package config

import (
	"fmt"
	"math"
	"os"
)

// LoadConfig loads and parses a configuration file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := ParseConfigYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// validateConfig performs validation on the configuration
func validateConfig(cfg *Config) error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[cfg.LogLevel] {
		return fmt.Errorf("invalid log_level: %s (must be debug, info, warn, or error)", cfg.LogLevel)
	}

	if cfg.AgentsCount <= 0 {
		return fmt.Errorf("agents_count must be positive, got %d", cfg.AgentsCount)
	}
	if cfg.AgentsCount > MaxAgentsCount {
		return fmt.Errorf("agents_count must be at most %d, got %d", MaxAgentsCount, cfg.AgentsCount)
	}

	if !isFinite(cfg.OpinionsRange.Min) || !isFinite(cfg.OpinionsRange.Max) {
		return fmt.Errorf("opinions_range bounds must be finite")
	}
	if !cfg.OpinionsRange.Valid() {
		return fmt.Errorf("opinions_range min must be less than max, got [%g, %g)", cfg.OpinionsRange.Min, cfg.OpinionsRange.Max)
	}

	if math.IsNaN(cfg.MaxEpsilon) || cfg.MaxEpsilon <= 0 {
		return fmt.Errorf("max_epsilon must be positive, got %g", cfg.MaxEpsilon)
	}

	if cfg.MaxIterations < 0 {
		return fmt.Errorf("max_iterations cannot be negative, got %d", cfg.MaxIterations)
	}

	if err := validateInfluenced(&cfg.Influenced); err != nil {
		return fmt.Errorf("influenced_confrontation validation failed: %w", err)
	}

	if scale := cfg.Formatting.GetScale(); scale < 0 || scale > MaxScale {
		return fmt.Errorf("formatting scale must be between 0 and %d, got %d", MaxScale, scale)
	}

	return nil
}

// validateInfluenced validates the player configuration
func validateInfluenced(ic *InfluencedConfrontation) error {
	if len(ic.PlayersOpinions) == 0 {
		return fmt.Errorf("at least one player opinion range must be defined")
	}
	for i, r := range ic.PlayersOpinions {
		if len(r) != 2 {
			return fmt.Errorf("player %d: opinion range must have exactly 2 entries, got %d", i+1, len(r))
		}
		if r[0] >= r[1] {
			return fmt.Errorf("player %d: opinion range min must be less than max, got [%d, %d)", i+1, r[0], r[1])
		}
	}

	p := ic.NoInfluenceProbability
	if math.IsNaN(p) || p < 0 || p > 1 {
		return fmt.Errorf("no_influence_probability must be between 0 and 1, got %f", p)
	}

	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
