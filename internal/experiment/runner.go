// Package experiment drives one simulation run: a baseline consensus over an
// unconditioned population, then a second consensus over a population drawn
// toward competing players, scored by nearest player.
package experiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/GoSim-25-26J-441/opinion-core/internal/consensus"
	"github.com/GoSim-25-26J-441/opinion-core/internal/influence"
	"github.com/GoSim-25-26J-441/opinion-core/internal/metrics"
	"github.com/GoSim-25-26J-441/opinion-core/internal/population"
	"github.com/GoSim-25-26J-441/opinion-core/internal/trust"
	"github.com/GoSim-25-26J-441/opinion-core/pkg/config"
	"github.com/GoSim-25-26J-441/opinion-core/pkg/logger"
	"github.com/GoSim-25-26J-441/opinion-core/pkg/models"
	"github.com/GoSim-25-26J-441/opinion-core/pkg/utils"
)

// ErrNilConfig is returned when Execute is called without a configuration
var ErrNilConfig = errors.New("config is required")

// Runner executes simulation runs from a configuration
type Runner struct {
	logger *slog.Logger
}

// NewRunner creates a runner; a nil logger selects logger.Default
func NewRunner(l *slog.Logger) *Runner {
	if l == nil {
		l = logger.Default
	}
	return &Runner{logger: l}
}

// Execute performs a complete run. The returned run is always non-nil and
// reflects the terminal status; err is set when the run failed.
func (r *Runner) Execute(ctx context.Context, runID string, cfg *config.Config) (*models.Run, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	rm := NewRunManager(runID, cfg.Seed, cfg.AgentsCount)
	rm.Start()
	log := r.logger.With("run_id", runID)

	collector := metrics.NewCollector()
	report, err := r.execute(ctx, runID, cfg, collector, log)
	if err != nil {
		log.Error("run failed", "error", err)
		rm.Fail(err)
		return rm.GetRun(), err
	}

	rm.Complete(report, collector.SummaryBy(metrics.LabelExperiment))
	run := rm.GetRun()
	log.Info("run completed",
		"baseline_iterations", report.Baseline.Iterations,
		"influenced_iterations", report.Influenced.Iterations,
		"winners", report.Winners,
		"duration", run.Duration)
	return run, nil
}

func (r *Runner) execute(ctx context.Context, runID string, cfg *config.Config, collector *metrics.Collector, log *slog.Logger) (*models.Report, error) {
	// one source per run, drawn from in a fixed order
	rng := utils.NewRandSource(cfg.Seed)
	gen := population.NewGenerator(rng)

	net, err := trust.GenerateRandom(rng, cfg.AgentsCount)
	if err != nil {
		return nil, fmt.Errorf("generate trust network: %w", err)
	}

	initial, err := gen.Unconditioned(cfg.AgentsCount, cfg.OpinionsRange)
	if err != nil {
		return nil, fmt.Errorf("generate baseline population: %w", err)
	}
	baseline := models.CopyAgents(initial)
	log.Debug("baseline population generated", "seed", rng.Seed(), "agents", len(initial))

	baselineEngine := consensus.NewEngine(
		consensus.WithMaxIterations(cfg.GetMaxIterations()),
		consensus.WithCollector(collector, metrics.CreateExperimentLabels(runID, metrics.ExperimentBaseline)),
		consensus.WithLogger(log.With("experiment", metrics.ExperimentBaseline)),
	)
	baseResult, err := baselineEngine.Run(net, baseline, cfg.MaxEpsilon)
	if err != nil {
		return nil, fmt.Errorf("baseline experiment: %w", err)
	}
	log.Debug("baseline converged", "iterations", baseResult.Iterations, "max_delta", baseResult.MaxDelta)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run cancelled after baseline: %w", err)
	}

	players, err := gen.Players(cfg.Influenced.PlayerRanges())
	if err != nil {
		return nil, fmt.Errorf("generate players: %w", err)
	}
	influenced, err := gen.Influenced(cfg.AgentsCount, cfg.OpinionsRange, players, cfg.Influenced.NoInfluenceProbability)
	if err != nil {
		return nil, fmt.Errorf("generate influenced population: %w", err)
	}
	influencedInitial := models.Opinions(influenced)
	escaped := population.Escaped(influenced, players)

	influencedEngine := consensus.NewEngine(
		consensus.WithMaxIterations(cfg.GetMaxIterations()),
		consensus.WithCollector(collector, metrics.CreateExperimentLabels(runID, metrics.ExperimentInfluenced)),
		consensus.WithLogger(log.With("experiment", metrics.ExperimentInfluenced)),
	)
	infResult, err := influencedEngine.Run(net, influenced, cfg.MaxEpsilon)
	if err != nil {
		return nil, fmt.Errorf("influenced experiment: %w", err)
	}
	log.Debug("influenced converged", "iterations", infResult.Iterations, "max_delta", infResult.MaxDelta)

	outcome, err := influence.Score(influenced, players)
	if err != nil {
		return nil, fmt.Errorf("score players: %w", err)
	}

	return buildReport(net, baseResult, models.Opinions(initial), infResult, influencedInitial, players, outcome, escaped), nil
}

func buildReport(
	net *trust.Network,
	baseResult *consensus.Result, baselineInitial []float64,
	infResult *consensus.Result, influencedInitial []float64,
	players []*models.Player, outcome *influence.Outcome, escaped []int,
) *models.Report {
	report := &models.Report{
		TrustMatrix:  net.Rows(),
		ResultMatrix: net.PowerRows(baseResult.Iterations),
		Baseline: models.ExperimentResult{
			Initial:    baselineInitial,
			Final:      baseResult.Opinions,
			Iterations: baseResult.Iterations,
		},
		Influenced: models.ExperimentResult{
			Initial:    influencedInitial,
			Final:      infResult.Opinions,
			Iterations: infResult.Iterations,
		},
		Formed:  outcome.FormedOpinion,
		Escaped: escaped,
	}

	for _, w := range outcome.Winners {
		report.Winners = append(report.Winners, w.ID)
	}
	for _, l := range outcome.Losers {
		report.Losers = append(report.Losers, l.ID)
	}
	for _, p := range players {
		report.Players = append(report.Players, models.PlayerSummary{
			ID:      p.ID,
			Opinion: p.Opinion,
			Agents:  p.Agents(),
			Tally:   outcome.Tally[p.ID],
			Gap:     outcome.Gap(p),
			Winner:  outcome.IsWinner(p.ID),
		})
	}
	return report
}
