package report

import (
	"context"
	"sync"

	"grindstone/internal/app/ports"
)

// Collector keeps delivered reports in memory for assertions.
type Collector struct {
	mu      sync.Mutex
	reports []ports.Report
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Deliver(_ context.Context, r ports.Report) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reports = append(c.reports, r)
	return nil
}

func (c *Collector) Reports() []ports.Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]ports.Report{}, c.reports...)
}
