// Package consensus runs the synchronous weighted-averaging (DeGroot) process:
// every agent's next opinion is the trust-weighted mean of all current opinions,
// repeated until the largest per-agent change drops below a tolerance.
package consensus

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/GoSim-25-26J-441/opinion-core/internal/metrics"
	"github.com/GoSim-25-26J-441/opinion-core/internal/trust"
	"github.com/GoSim-25-26J-441/opinion-core/pkg/logger"
	"github.com/GoSim-25-26J-441/opinion-core/pkg/models"
	"github.com/GoSim-25-26J-441/opinion-core/pkg/utils"
)

// DefaultMaxIterations bounds a run when no explicit bound is configured
const DefaultMaxIterations = 100000

var (
	// ErrDimensionMismatch is returned when the network size differs from the population size
	ErrDimensionMismatch = errors.New("trust network size does not match agent count")
	// ErrInvalidTolerance is returned for epsilon <= 0
	ErrInvalidTolerance = errors.New("convergence tolerance must be positive")
	// ErrNonConvergence is matched by *NonConvergenceError
	ErrNonConvergence = errors.New("consensus did not converge")
)

// NonConvergenceError reports a run that hit its iteration bound.
// The agents hold the last computed opinions, which are not a usable result.
type NonConvergenceError struct {
	MaxIterations int
	MaxDelta      float64
	Epsilon       float64
}

func (e *NonConvergenceError) Error() string {
	return fmt.Sprintf("%s after %d iterations (last max delta %g, epsilon %g)",
		ErrNonConvergence, e.MaxIterations, e.MaxDelta, e.Epsilon)
}

func (e *NonConvergenceError) Unwrap() error {
	return ErrNonConvergence
}

// Result describes a converged run
type Result struct {
	// Iterations is the number of update steps performed, at least 1
	Iterations int
	// Opinions is the converged opinion vector in agent ID order
	Opinions []float64
	// MaxDelta is the largest opinion change of the final step
	MaxDelta float64
}

// Engine runs consensus processes. An Engine holds no per-run state and can be
// reused for several runs.
type Engine struct {
	maxIterations int
	collector     *metrics.Collector
	labels        map[string]string
	logger        *slog.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithMaxIterations sets the safety bound; n <= 0 selects DefaultMaxIterations
func WithMaxIterations(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxIterations = n
		}
	}
}

// WithCollector records per-iteration max delta and spread under labels
func WithCollector(c *metrics.Collector, labels map[string]string) Option {
	return func(e *Engine) {
		e.collector = c
		e.labels = labels
	}
}

// WithLogger sets the engine's logger
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates a consensus engine
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		maxIterations: DefaultMaxIterations,
		logger:        logger.Default,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MaxIterations returns the configured safety bound
func (e *Engine) MaxIterations() int {
	return e.maxIterations
}

// Run iterates X(t+1) = T·X(t) starting from the agents' current opinions until
// max_i |X(t+1)_i - X(t)_i| < epsilon, then writes X(t+1) back into agents.
// Every step reads only the previous vector. At least one step is always
// performed. Preconditions are checked before agents are touched.
func (e *Engine) Run(net *trust.Network, agents []models.Agent, epsilon float64) (*Result, error) {
	if net == nil || net.Size() != len(agents) {
		size := 0
		if net != nil {
			size = net.Size()
		}
		return nil, fmt.Errorf("%w: network size %d, %d agents", ErrDimensionMismatch, size, len(agents))
	}
	if math.IsNaN(epsilon) || epsilon <= 0 {
		return nil, fmt.Errorf("%w: got %g", ErrInvalidTolerance, epsilon)
	}

	prev := models.Opinions(agents)
	next := make([]float64, len(prev))

	for iteration := 1; ; iteration++ {
		net.Apply(next, prev)
		delta := utils.MaxAbsDiff(next, prev)
		e.record(iteration, delta, next)

		if delta < epsilon {
			writeBack(agents, next)
			e.logger.Debug("consensus reached",
				"iterations", iteration,
				"max_delta", delta,
				"epsilon", epsilon)
			return &Result{
				Iterations: iteration,
				Opinions:   append([]float64(nil), next...),
				MaxDelta:   delta,
			}, nil
		}

		if iteration >= e.maxIterations {
			writeBack(agents, next)
			e.logger.Warn("consensus iteration bound exceeded",
				"max_iterations", e.maxIterations,
				"max_delta", delta,
				"epsilon", epsilon)
			return nil, &NonConvergenceError{
				MaxIterations: e.maxIterations,
				MaxDelta:      delta,
				Epsilon:       epsilon,
			}
		}

		prev, next = next, prev
	}
}

func (e *Engine) record(iteration int, delta float64, opinions []float64) {
	if e.collector == nil {
		return
	}
	metrics.RecordMaxDelta(e.collector, iteration, delta, e.labels)
	metrics.RecordSpread(e.collector, iteration, utils.Spread(opinions), e.labels)
}

func writeBack(agents []models.Agent, opinions []float64) {
	for i := range agents {
		agents[i].Opinion = opinions[i]
	}
}
