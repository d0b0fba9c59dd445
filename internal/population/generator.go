// Package population generates agent populations, with or without player
// influence, from the run's random stream.
package population

import (
	"errors"
	"fmt"
	"math"

	"github.com/GoSim-25-26J-441/opinion-core/pkg/models"
	"github.com/GoSim-25-26J-441/opinion-core/pkg/utils"
)

var (
	// ErrInvalidCount is returned for an agent count <= 0
	ErrInvalidCount = errors.New("agent count must be positive")
	// ErrInvalidRange is returned for an opinion range with min >= max
	ErrInvalidRange = errors.New("opinion range min must be less than max")
	// ErrInvalidProbability is returned for a no-influence probability outside [0, 1]
	ErrInvalidProbability = errors.New("no-influence probability must be between 0 and 1")
	// ErrEmptyPlayerSet is returned when influenced generation gets no players
	ErrEmptyPlayerSet = errors.New("at least one player is required")
)

// Generator draws populations and players from a shared random stream.
// Calls consume the stream in order, so the call sequence is part of the
// reproducibility contract.
type Generator struct {
	rng *utils.RandSource
}

// NewGenerator creates a generator over rng
func NewGenerator(rng *utils.RandSource) *Generator {
	return &Generator{rng: rng}
}

// Unconditioned returns count agents with IDs 1..count and opinions drawn
// uniformly from [r.Min, r.Max).
func (g *Generator) Unconditioned(count int, r models.Range) ([]models.Agent, error) {
	if err := validate(count, r); err != nil {
		return nil, err
	}

	agents := make([]models.Agent, count)
	for i := range agents {
		agents[i] = models.Agent{ID: i + 1, Opinion: g.rng.UniformFloat64(r.Min, r.Max)}
	}
	return agents, nil
}

// Influenced returns count agents whose initial opinions are set by players.
// For each agent in ID order one trial is drawn: with probability
// noInfluenceProbability the agent escapes and gets a uniform opinion from r,
// otherwise a uniformly chosen player hands it its own opinion and records
// the agent as owned. Ownership of every passed player is reset first.
// Nothing is drawn or mutated when validation fails.
func (g *Generator) Influenced(count int, r models.Range, players []*models.Player, noInfluenceProbability float64) ([]models.Agent, error) {
	if err := validate(count, r); err != nil {
		return nil, err
	}
	if math.IsNaN(noInfluenceProbability) || noInfluenceProbability < 0 || noInfluenceProbability > 1 {
		return nil, fmt.Errorf("%w: got %g", ErrInvalidProbability, noInfluenceProbability)
	}
	if len(players) == 0 {
		return nil, ErrEmptyPlayerSet
	}

	for _, p := range players {
		p.Reset()
	}

	agents := make([]models.Agent, count)
	for i := range agents {
		id := i + 1
		if g.rng.BernoulliBool(noInfluenceProbability) {
			agents[i] = models.Agent{ID: id, Opinion: g.rng.UniformFloat64(r.Min, r.Max)}
			continue
		}
		p := players[g.rng.Intn(len(players))]
		p.Own(id)
		agents[i] = models.Agent{ID: id, Opinion: p.Opinion}
	}
	return agents, nil
}

// Players creates one player per range with IDs 1..k in input order. Each
// opinion is a uniform integer drawn from [min, max).
func (g *Generator) Players(ranges []models.IntRange) ([]*models.Player, error) {
	if len(ranges) == 0 {
		return nil, ErrEmptyPlayerSet
	}
	for i, r := range ranges {
		if !r.Valid() {
			return nil, fmt.Errorf("player %d: %w: got [%d, %d)", i+1, ErrInvalidRange, r.Min, r.Max)
		}
	}

	players := make([]*models.Player, len(ranges))
	for i, r := range ranges {
		players[i] = models.NewPlayer(i+1, float64(g.rng.UniformInt(r.Min, r.Max)))
	}
	return players, nil
}

// Escaped returns the IDs of agents not owned by any player, in ID order
func Escaped(agents []models.Agent, players []*models.Player) []int {
	owned := make(map[int]bool, len(agents))
	for _, p := range players {
		for _, id := range p.Agents() {
			owned[id] = true
		}
	}

	escaped := make([]int, 0)
	for _, a := range agents {
		if !owned[a.ID] {
			escaped = append(escaped, a.ID)
		}
	}
	return escaped
}

func validate(count int, r models.Range) error {
	if count <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidCount, count)
	}
	if !r.Valid() {
		return fmt.Errorf("%w: got [%g, %g)", ErrInvalidRange, r.Min, r.Max)
	}
	return nil
}
