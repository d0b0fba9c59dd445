// Package influence attributes converged agents to their nearest player and
// decides which players won the confrontation.
package influence

import (
	"errors"
	"math"
	"sort"

	"github.com/GoSim-25-26J-441/opinion-core/pkg/models"
)

var (
	// ErrEmptyAgentSet is returned when there are no agents to score
	ErrEmptyAgentSet = errors.New("at least one agent is required to score players")
	// ErrEmptyPlayerSet is returned when there are no players to score
	ErrEmptyPlayerSet = errors.New("at least one player is required to score")
)

// Outcome is the result of scoring a converged population
type Outcome struct {
	// Winners are the players with the highest tally, ordered by ID
	Winners []*models.Player
	// Losers are all other players, ordered by ID
	Losers []*models.Player
	// Tally maps player ID to the number of agents nearest to it
	Tally map[int]int
	// Nearest holds, per agent index, the ID of the player it is attributed to
	Nearest []int
	// FormedOpinion is the final opinion of the first agent
	FormedOpinion float64
}

// Gap returns the distance between a player's opinion and the formed opinion
func (o *Outcome) Gap(p *models.Player) float64 {
	return math.Abs(p.Opinion - o.FormedOpinion)
}

// IsWinner reports whether the player with the given ID won
func (o *Outcome) IsWinner(playerID int) bool {
	for _, w := range o.Winners {
		if w.ID == playerID {
			return true
		}
	}
	return false
}

// Score attributes every agent to the player with the closest opinion and
// tallies the attributions. Equidistant players are resolved in favour of the
// lowest player ID. Every player sharing the maximum tally is a winner.
func Score(agents []models.Agent, players []*models.Player) (*Outcome, error) {
	if len(agents) == 0 {
		return nil, ErrEmptyAgentSet
	}
	if len(players) == 0 {
		return nil, ErrEmptyPlayerSet
	}

	ordered := make([]*models.Player, len(players))
	copy(ordered, players)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	out := &Outcome{
		Tally:         make(map[int]int, len(ordered)),
		Nearest:       make([]int, len(agents)),
		FormedOpinion: agents[0].Opinion,
	}
	for _, p := range ordered {
		out.Tally[p.ID] = 0
	}

	for i, a := range agents {
		nearest := nearestPlayer(a.Opinion, ordered)
		out.Nearest[i] = nearest.ID
		out.Tally[nearest.ID]++
	}

	best := 0
	for _, n := range out.Tally {
		if n > best {
			best = n
		}
	}
	for _, p := range ordered {
		if out.Tally[p.ID] == best {
			out.Winners = append(out.Winners, p)
		} else {
			out.Losers = append(out.Losers, p)
		}
	}

	return out, nil
}

// nearestPlayer expects players ordered by ID; the strict comparison keeps the
// first, lowest-ID player on ties.
func nearestPlayer(opinion float64, players []*models.Player) *models.Player {
	nearest := players[0]
	bestDist := math.Abs(nearest.Opinion - opinion)
	for _, p := range players[1:] {
		if d := math.Abs(p.Opinion - opinion); d < bestDist {
			nearest, bestDist = p, d
		}
	}
	return nearest
}
