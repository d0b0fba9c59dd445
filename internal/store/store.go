// Package store persists finished runs: their status, timing and final report.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/GoSim-25-26J-441/opinion-core/pkg/models"
)

// DefaultListLimit is used when List is called with limit <= 0
const DefaultListLimit = 50

var (
	// ErrNotFound is returned when no run has the requested ID
	ErrNotFound = errors.New("run not found")
	// ErrAlreadyExists is returned when saving a run whose ID is taken
	ErrAlreadyExists = errors.New("run already exists")
	// ErrInvalidRun is returned when saving a nil run, a run without an ID or
	// a run that has not finished
	ErrInvalidRun = errors.New("run must have an id and a terminal status")
)

// RunStore stores runs by ID
type RunStore interface {
	// Save stores a new run
	Save(ctx context.Context, run *models.Run) error
	// Get retrieves a run by ID
	Get(ctx context.Context, id string) (*models.Run, error)
	// List returns runs newest first
	List(ctx context.Context, limit, offset int) ([]*models.Run, error)
	// Close releases the store's resources
	Close() error
}

func validateRun(run *models.Run) error {
	if run == nil || run.ID == "" {
		return ErrInvalidRun
	}
	if !run.Status.IsTerminal() {
		return fmt.Errorf("%w: run %s is %s", ErrInvalidRun, run.ID, run.Status)
	}
	return nil
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// sortNewestFirst orders by start time descending, then ID
func sortNewestFirst(runs []*models.Run) {
	sort.Slice(runs, func(i, j int) bool {
		if !runs[i].StartTime.Equal(runs[j].StartTime) {
			return runs[i].StartTime.After(runs[j].StartTime)
		}
		return runs[i].ID < runs[j].ID
	})
}
