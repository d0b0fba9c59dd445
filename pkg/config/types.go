package config

import "github.com/GoSim-25-26J-441/opinion-core/pkg/models"

const (
	// DefaultLogLevel is used when log_level is omitted
	DefaultLogLevel = "info"
	// DefaultMaxIterations bounds the consensus loop when max_iterations is omitted
	DefaultMaxIterations = 100000
	// DefaultScale is the number of decimals used for display
	DefaultScale = 3
	// MaxScale is the largest accepted display scale
	MaxScale = 15
	// MaxAgentsCount is the largest accepted population; the trust network grows with its square
	MaxAgentsCount = 4096
)

// Config represents the opinion dynamics simulation configuration
type Config struct {
	LogLevel      string                  `yaml:"log_level"`
	Seed          int64                   `yaml:"seed"`
	AgentsCount   int                     `yaml:"agents_count"`
	OpinionsRange models.Range            `yaml:"opinions_range"`
	MaxEpsilon    float64                 `yaml:"max_epsilon"`
	MaxIterations int                     `yaml:"max_iterations,omitempty"`
	Influenced    InfluencedConfrontation `yaml:"influenced_confrontation"`
	Formatting    Formatting              `yaml:"formatting,omitempty"`
}

// InfluencedConfrontation configures the players of the influenced experiment
type InfluencedConfrontation struct {
	// PlayersOpinions holds one [min, max) integer range per player, in player order
	PlayersOpinions        [][]int `yaml:"players_opinions"`
	NoInfluenceProbability float64 `yaml:"no_influence_probability"`
}

// Formatting configures how numbers are displayed
type Formatting struct {
	Scale *int `yaml:"scale,omitempty"`
}

// PlayerRanges converts the configured player opinion ranges.
// It assumes the config has been validated.
func (ic *InfluencedConfrontation) PlayerRanges() []models.IntRange {
	ranges := make([]models.IntRange, 0, len(ic.PlayersOpinions))
	for _, r := range ic.PlayersOpinions {
		ranges = append(ranges, models.IntRange{Min: r[0], Max: r[1]})
	}
	return ranges
}

// GetScale returns the display scale, falling back to DefaultScale
func (f Formatting) GetScale() int {
	if f.Scale == nil {
		return DefaultScale
	}
	return *f.Scale
}

// GetMaxIterations returns the consensus iteration bound, falling back to DefaultMaxIterations
func (c *Config) GetMaxIterations() int {
	if c.MaxIterations <= 0 {
		return DefaultMaxIterations
	}
	return c.MaxIterations
}
