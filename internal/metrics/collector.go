package metrics

import (
	"sort"
	"sync"

	"github.com/GoSim-25-26J-441/opinion-core/pkg/models"
)

// Collector collects per-iteration series during consensus runs
type Collector struct {
	mu sync.RWMutex

	// Series data: metric name -> labels -> []MetricPoint
	series map[string]map[string][]*models.MetricPoint
}

// NewCollector creates a new metrics collector
func NewCollector() *Collector {
	return &Collector{
		series: make(map[string]map[string][]*models.MetricPoint),
	}
}

// Record records a metric value at an iteration
func (c *Collector) Record(name string, iteration int, value float64, labels map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := labelKey(labels)
	if c.series[name] == nil {
		c.series[name] = make(map[string][]*models.MetricPoint)
	}

	point := &models.MetricPoint{
		Iteration: iteration,
		Name:      name,
		Value:     value,
		Labels:    copyLabels(labels),
	}

	c.series[name][key] = append(c.series[name][key], point)
}

// GetSeries returns all points recorded for a metric and label set
func (c *Collector) GetSeries(name string, labels map[string]string) []*models.MetricPoint {
	c.mu.RLock()
	defer c.mu.RUnlock()

	points := c.getPointsUnsafe(name, labelKey(labels))
	if points == nil {
		return nil
	}

	// Return a copy
	result := make([]*models.MetricPoint, len(points))
	for i, p := range points {
		result[i] = &models.MetricPoint{
			Iteration: p.Iteration,
			Name:      p.Name,
			Value:     p.Value,
			Labels:    copyLabels(p.Labels),
		}
	}
	return result
}

// GetAggregation calculates and returns aggregated statistics for a metric
func (c *Collector) GetAggregation(name string, labels map[string]string) *models.Aggregation {
	c.mu.RLock()
	defer c.mu.RUnlock()

	points := c.getPointsUnsafe(name, labelKey(labels))
	if len(points) == 0 {
		return nil
	}

	return calculateAggregation(points)
}

// SummaryBy aggregates every series and groups the results by the value of
// one label, then by metric name. Series without the label are grouped under "".
// Series sharing a label value are merged in recording order.
func (c *Collector) SummaryBy(label string) map[string]map[string]*models.Aggregation {
	c.mu.RLock()
	defer c.mu.RUnlock()

	grouped := make(map[string]map[string][]*models.MetricPoint)
	for name, labelMap := range c.series {
		keys := make([]string, 0, len(labelMap))
		for key := range labelMap {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			points := labelMap[key]
			if len(points) == 0 {
				continue
			}
			group := points[0].Labels[label]
			if grouped[group] == nil {
				grouped[group] = make(map[string][]*models.MetricPoint)
			}
			grouped[group][name] = append(grouped[group][name], points...)
		}
	}

	summary := make(map[string]map[string]*models.Aggregation, len(grouped))
	for group, byName := range grouped {
		summary[group] = make(map[string]*models.Aggregation, len(byName))
		for name, points := range byName {
			summary[group][name] = calculateAggregation(points)
		}
	}
	return summary
}

// GetMetricNames returns all metric names that have been collected, sorted
func (c *Collector) GetMetricNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.series))
	for name := range c.series {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetLabelsForMetric returns all label combinations for a metric
func (c *Collector) GetLabelsForMetric(name string) []map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.series[name] == nil {
		return nil
	}

	labelsList := make([]map[string]string, 0, len(c.series[name]))
	for _, points := range c.series[name] {
		if len(points) > 0 {
			labelsList = append(labelsList, copyLabels(points[0].Labels))
		}
	}
	return labelsList
}

// getPointsUnsafe returns points without locking (caller must hold lock)
func (c *Collector) getPointsUnsafe(name, key string) []*models.MetricPoint {
	if c.series[name] == nil {
		return nil
	}
	return c.series[name][key]
}

// labelKey creates a key from labels for map lookup
func labelKey(labels map[string]string) string {
	if len(labels) == 0 {
		return ""
	}

	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	key := ""
	for _, k := range keys {
		key += k + "=" + labels[k] + ","
	}
	return key
}

// copyLabels creates a copy of the labels map
func copyLabels(labels map[string]string) map[string]string {
	if labels == nil {
		return nil
	}
	out := make(map[string]string, len(labels))
	for k, v := range labels {
		out[k] = v
	}
	return out
}

// calculateAggregation calculates aggregated statistics from metric points.
// Points are kept in recording order, so Last is the final recorded value.
func calculateAggregation(points []*models.MetricPoint) *models.Aggregation {
	if len(points) == 0 {
		return nil
	}

	agg := &models.Aggregation{
		Count: int64(len(points)),
		Min:   points[0].Value,
		Max:   points[0].Value,
		Last:  points[len(points)-1].Value,
	}
	for _, p := range points {
		agg.Sum += p.Value
		if p.Value < agg.Min {
			agg.Min = p.Value
		}
		if p.Value > agg.Max {
			agg.Max = p.Value
		}
	}
	agg.Mean = agg.Sum / float64(agg.Count)
	return agg
}
