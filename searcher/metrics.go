package searcher

import (
	"sync/atomic"
	"time"
)

// SearchMetric summarizes what one Search call actually did.
type SearchMetric struct {
	Start        time.Time
	Elapsed      time.Duration
	Simulations  int
	FullRollouts int
	Truncations  int
}

// Collector observes a search from the outside. Implementations must be
// safe for concurrent use: root-parallel searches add from several
// goroutines at once.
type Collector interface {
	Start()
	AddSimulation()
	AddFullRollout()
	AddTruncation()
	Complete() SearchMetric
}

type collector struct {
	startTime    time.Time
	simulations  atomic.Int64
	fullRollouts atomic.Int64
	truncations  atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (c *collector) Start() {
	c.startTime = time.Now()
	c.simulations.Store(0)
	c.fullRollouts.Store(0)
	c.truncations.Store(0)
}

func (c *collector) AddSimulation() {
	c.simulations.Add(1)
}

func (c *collector) AddFullRollout() {
	c.fullRollouts.Add(1)
}

func (c *collector) AddTruncation() {
	c.truncations.Add(1)
}

func (c *collector) Complete() SearchMetric {
	return SearchMetric{
		Start:        c.startTime,
		Elapsed:      time.Since(c.startTime),
		Simulations:  int(c.simulations.Load()),
		FullRollouts: int(c.fullRollouts.Load()),
		Truncations:  int(c.truncations.Load()),
	}
}

type nopCollector struct{}

func NewNopCollector() Collector {
	return nopCollector{}
}

func (nopCollector) Start()                 {}
func (nopCollector) AddSimulation()         {}
func (nopCollector) AddFullRollout()        {}
func (nopCollector) AddTruncation()         {}
func (nopCollector) Complete() SearchMetric { return SearchMetric{} }
