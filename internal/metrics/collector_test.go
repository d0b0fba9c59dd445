package metrics

import (
	"testing"
)

func TestNewCollector(t *testing.T) {
	c := NewCollector()
	if c == nil {
		t.Fatalf("expected non-nil collector")
	}
}

func TestCollectorRecordAndGetSeries(t *testing.T) {
	c := NewCollector()

	c.Record("test_metric", 1, 10.0, nil)
	c.Record("test_metric", 2, 20.0, nil)
	c.Record("test_metric", 3, 30.0, nil)

	points := c.GetSeries("test_metric", nil)
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}

	for i, want := range []float64{10, 20, 30} {
		if points[i].Value != want {
			t.Fatalf("expected point %d value %f, got %f", i, want, points[i].Value)
		}
		if points[i].Iteration != i+1 {
			t.Fatalf("expected point %d iteration %d, got %d", i, i+1, points[i].Iteration)
		}
	}
}

func TestCollectorRecordWithLabels(t *testing.T) {
	c := NewCollector()

	baseline := CreateExperimentLabels("run-1", ExperimentBaseline)
	influenced := CreateExperimentLabels("run-1", ExperimentInfluenced)

	RecordMaxDelta(c, 1, 0.5, baseline)
	RecordMaxDelta(c, 1, 0.9, influenced)
	RecordMaxDelta(c, 2, 0.1, influenced)

	if got := len(c.GetSeries(MetricMaxDelta, baseline)); got != 1 {
		t.Fatalf("expected 1 baseline point, got %d", got)
	}
	if got := len(c.GetSeries(MetricMaxDelta, influenced)); got != 2 {
		t.Fatalf("expected 2 influenced points, got %d", got)
	}
	if c.GetSeries(MetricMaxDelta, nil) != nil {
		t.Fatalf("expected no points for empty labels")
	}

	// label order must not matter
	reordered := map[string]string{"experiment": ExperimentBaseline, "run": "run-1"}
	if got := len(c.GetSeries(MetricMaxDelta, reordered)); got != 1 {
		t.Fatalf("expected lookup to be independent of map order, got %d points", got)
	}
}

func TestCollectorSeriesIsCopy(t *testing.T) {
	c := NewCollector()
	labels := map[string]string{"experiment": "baseline"}
	c.Record("m", 1, 1.0, labels)

	labels["experiment"] = "mutated"
	points := c.GetSeries("m", map[string]string{"experiment": "baseline"})
	if len(points) != 1 {
		t.Fatalf("recorded labels must be copied, got %d points", len(points))
	}
	points[0].Value = 99
	if c.GetSeries("m", map[string]string{"experiment": "baseline"})[0].Value != 1.0 {
		t.Fatalf("GetSeries must return copies")
	}
}

func TestCollectorAggregation(t *testing.T) {
	c := NewCollector()
	for i, v := range []float64{4, 1, 3, 2} {
		RecordSpread(c, i+1, v, nil)
	}

	agg := c.GetAggregation(MetricSpread, nil)
	if agg == nil {
		t.Fatalf("expected aggregation")
	}
	if agg.Count != 4 {
		t.Errorf("expected count 4, got %d", agg.Count)
	}
	if agg.Sum != 10 {
		t.Errorf("expected sum 10, got %f", agg.Sum)
	}
	if agg.Min != 1 || agg.Max != 4 {
		t.Errorf("expected min 1 and max 4, got %f and %f", agg.Min, agg.Max)
	}
	if agg.Mean != 2.5 {
		t.Errorf("expected mean 2.5, got %f", agg.Mean)
	}
	if agg.Last != 2 {
		t.Errorf("expected last 2, got %f", agg.Last)
	}

	if c.GetAggregation("missing", nil) != nil {
		t.Errorf("expected nil aggregation for unknown metric")
	}
}

func TestCollectorSummaryByAndNames(t *testing.T) {
	c := NewCollector()
	RecordSpread(c, 1, 3, nil)
	RecordMaxDelta(c, 1, 2, map[string]string{"experiment": "baseline"})

	names := c.GetMetricNames()
	if len(names) != 2 || names[0] != MetricMaxDelta || names[1] != MetricSpread {
		t.Fatalf("expected sorted metric names, got %v", names)
	}

	summary := c.SummaryBy("experiment")
	if summary[""][MetricSpread] == nil {
		t.Fatalf("expected unlabeled spread aggregation under empty group")
	}
	if agg := summary["baseline"][MetricMaxDelta]; agg == nil || agg.Count != 1 || agg.Last != 2 {
		t.Fatalf("expected baseline delta aggregation, got %v", summary["baseline"])
	}

	labels := c.GetLabelsForMetric(MetricMaxDelta)
	if len(labels) != 1 || labels[0]["experiment"] != "baseline" {
		t.Fatalf("unexpected labels %v", labels)
	}
}
