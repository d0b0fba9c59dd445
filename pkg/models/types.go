package models

import (
	"time"
)

// RunStatus represents the status of a simulation run
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// IsTerminal reports whether the status is final
func (s RunStatus) IsTerminal() bool {
	return s == RunStatusCompleted || s == RunStatusFailed
}

// Range is a half-open interval [Min, Max) of opinions
type Range struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Valid reports whether Min < Max
func (r Range) Valid() bool {
	return r.Min < r.Max
}

// Contains reports whether v lies in [Min, Max)
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v < r.Max
}

// IntRange is a half-open interval [Min, Max) of integers
type IntRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Valid reports whether Min < Max
func (r IntRange) Valid() bool {
	return r.Min < r.Max
}

// Agent is a member of the population. Its opinion is overwritten on every
// consensus iteration; the ID is its row/column in the trust network plus one.
type Agent struct {
	ID      int     `json:"id"`
	Opinion float64 `json:"opinion"`
}

// CopyAgents returns an independent copy of a population
func CopyAgents(agents []Agent) []Agent {
	out := make([]Agent, len(agents))
	copy(out, agents)
	return out
}

// Opinions returns the opinion vector of a population in id order
func Opinions(agents []Agent) []float64 {
	out := make([]float64, len(agents))
	for i, a := range agents {
		out[i] = a.Opinion
	}
	return out
}

// Player is an external opinion source competing for agents.
// The opinion is fixed for the run; owned agents are recorded during
// influenced population generation.
type Player struct {
	ID      int
	Opinion float64
	agents  []int
}

// NewPlayer creates a player with no owned agents
func NewPlayer(id int, opinion float64) *Player {
	return &Player{ID: id, Opinion: opinion}
}

// Own records agentID as directly influenced by the player
func (p *Player) Own(agentID int) {
	p.agents = append(p.agents, agentID)
}

// Reset clears the owned agents
func (p *Player) Reset() {
	p.agents = nil
}

// Agents returns the IDs of the owned agents in the order they were assigned
func (p *Player) Agents() []int {
	out := make([]int, len(p.agents))
	copy(out, p.agents)
	return out
}

// Run represents a simulation run
type Run struct {
	ID          string                             `json:"id"`
	Status      RunStatus                          `json:"status"`
	Seed        int64                              `json:"seed"`
	AgentsCount int                                `json:"agents_count"`
	StartTime   time.Time                          `json:"start_time"`
	EndTime     time.Time                          `json:"end_time,omitempty"`
	Duration    time.Duration                      `json:"duration,omitempty"`
	Report      *Report                            `json:"report,omitempty"`
	Metrics     map[string]map[string]*Aggregation `json:"metrics,omitempty"`
	Error       string                             `json:"error,omitempty"`
}

// Report is the final state of a run: the trust network, both experiments and
// the scoring outcome. Nothing per-iteration is kept here.
type Report struct {
	TrustMatrix  [][]float64      `json:"trust_matrix"`
	ResultMatrix [][]float64      `json:"result_matrix,omitempty"`
	Baseline     ExperimentResult `json:"baseline"`
	Influenced   ExperimentResult `json:"influenced"`
	Players      []PlayerSummary  `json:"players"`
	Winners      []int            `json:"winners"`
	Losers       []int            `json:"losers"`
	Formed       float64          `json:"formed_opinion"`
	Escaped      []int            `json:"escaped_agents,omitempty"`
}

// ExperimentResult holds the initial and converged opinions of one experiment
type ExperimentResult struct {
	Initial    []float64 `json:"initial"`
	Final      []float64 `json:"final"`
	Iterations int       `json:"iterations"`
}

// PlayerSummary is the scored view of a player after the influenced experiment
type PlayerSummary struct {
	ID      int     `json:"id"`
	Opinion float64 `json:"opinion"`
	Agents  []int   `json:"agents"`
	Tally   int     `json:"tally"`
	Gap     float64 `json:"gap"`
	Winner  bool    `json:"winner"`
}

// MetricPoint represents a single metric data point
type MetricPoint struct {
	Iteration int               `json:"iteration"`
	Name      string            `json:"name"`
	Value     float64           `json:"value"`
	Labels    map[string]string `json:"labels,omitempty"`
}

// Aggregation represents aggregated statistics for a metric
type Aggregation struct {
	Count int64   `json:"count"`
	Sum   float64 `json:"sum"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
	Last  float64 `json:"last"`
}
