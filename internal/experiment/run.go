package experiment

import (
	"sync"
	"time"

	"github.com/GoSim-25-26J-441/opinion-core/pkg/models"
)

// RunManager manages the lifecycle of a simulation run
type RunManager struct {
	run *models.Run
	mu  sync.RWMutex
}

// NewRunManager creates a new run manager
func NewRunManager(runID string, seed int64, agentsCount int) *RunManager {
	return &RunManager{
		run: &models.Run{
			ID:          runID,
			Status:      models.RunStatusPending,
			Seed:        seed,
			AgentsCount: agentsCount,
			StartTime:   time.Now(),
		},
	}
}

// Start marks the run as started
func (rm *RunManager) Start() {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	rm.run.Status = models.RunStatusRunning
	rm.run.StartTime = time.Now()
}

// Complete marks the run as completed with its final report
func (rm *RunManager) Complete(report *models.Report, summary map[string]map[string]*models.Aggregation) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	rm.run.Status = models.RunStatusCompleted
	rm.run.EndTime = time.Now()
	rm.run.Duration = rm.run.EndTime.Sub(rm.run.StartTime)
	rm.run.Report = report
	rm.run.Metrics = summary
}

// Fail marks the run as failed
func (rm *RunManager) Fail(err error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	rm.run.Status = models.RunStatusFailed
	rm.run.EndTime = time.Now()
	rm.run.Duration = rm.run.EndTime.Sub(rm.run.StartTime)
	if err != nil {
		rm.run.Error = err.Error()
	}
}

// GetRun returns the current run state (thread-safe)
func (rm *RunManager) GetRun() *models.Run {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	runCopy := *rm.run
	return &runCopy
}
