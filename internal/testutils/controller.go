package testutils

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aretw0/macrograph/pkg/domain"
)

// Controller is a ports.Controller stub for adapter tests.
// It records calls and returns canned results.
type Controller struct {
	mu sync.Mutex

	StartErr error
	StopErr  error
	Graph    *domain.Graph
	Runs     []domain.RunRecord

	status  domain.RunStatus
	current *domain.RunRecord
	Started int
	Stopped int
}

func (c *Controller) StartRun(ctx context.Context) (domain.RunRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Started++
	if c.StartErr != nil {
		return domain.RunRecord{}, c.StartErr
	}
	rec := domain.RunRecord{ID: "run-1", StartedAt: time.Now(), Status: domain.StatusRunning}
	c.status, c.current = domain.StatusRunning, &rec
	return rec, nil
}

func (c *Controller) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Stopped++
	if c.StopErr != nil {
		return c.StopErr
	}
	c.status = domain.StatusStopped
	if c.current != nil {
		c.current.Status = domain.StatusStopped
		c.current.Outcome = domain.OutcomeStopped
	}
	return nil
}

func (c *Controller) Status() (domain.RunStatus, *domain.RunRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status == "" {
		return domain.StatusIdle, nil
	}
	return c.status, c.current
}

func (c *Controller) Inspect(ctx context.Context) (*domain.Graph, error) {
	if c.Graph == nil {
		return nil, errors.New("no graph")
	}
	return c.Graph, nil
}

func (c *Controller) History(ctx context.Context) ([]domain.RunRecord, error) {
	return c.Runs, nil
}

// SetActive makes rec the current running record.
func (c *Controller) SetActive(rec domain.RunRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec.Status = domain.StatusRunning
	c.status, c.current = domain.StatusRunning, &rec
}
