package metrics

// Common metric names
const (
	// MetricMaxDelta is max_i |X(t+1)_i - X(t)_i| of a consensus step
	MetricMaxDelta = "consensus_max_delta"
	// MetricSpread is max_i X(t)_i - min_i X(t)_i after a consensus step
	MetricSpread = "consensus_spread"
)

// Label names
const (
	LabelRun        = "run"
	LabelExperiment = "experiment"
)

// Experiment label values
const (
	ExperimentBaseline   = "baseline"
	ExperimentInfluenced = "influenced"
)

// RecordMaxDelta records the largest opinion change of an iteration
func RecordMaxDelta(collector *Collector, iteration int, delta float64, labels map[string]string) {
	collector.Record(MetricMaxDelta, iteration, delta, labels)
}

// RecordSpread records the opinion spread after an iteration
func RecordSpread(collector *Collector, iteration int, spread float64, labels map[string]string) {
	collector.Record(MetricSpread, iteration, spread, labels)
}

// CreateExperimentLabels creates a labels map for an experiment of a run
func CreateExperimentLabels(runID, experiment string) map[string]string {
	return map[string]string{
		LabelRun:        runID,
		LabelExperiment: experiment,
	}
}
