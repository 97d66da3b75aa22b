package join

import (
	"sort"

	"github.com/packagewjx/workload-profiler/pkg/core"
)

type sampleKey struct {
	entityID string
	seconds  int64
	nanos    int
}

// Engine joins usage samples to deployment windows. Deduplication state is kept across Join
// calls, so joining shard by shard gives the same result as joining the concatenated shards.
type Engine struct {
	// deployments of each entity sorted by window start
	index map[string][]*Deployment
	order []*Deployment
	seen  map[sampleKey]struct{}
	stats Stats
}

func NewEngine(deployments []*Deployment) *Engine {
	index := make(map[string][]*Deployment, len(deployments))
	for _, d := range deployments {
		index[d.EntityID] = append(index[d.EntityID], d)
	}
	for _, windows := range index {
		sort.SliceStable(windows, func(i, j int) bool {
			return windows[i].Start.Before(windows[j].Start)
		})
	}
	return &Engine{
		index: index,
		order: deployments,
		seen:  make(map[sampleKey]struct{}),
	}
}

// Join keeps the samples that fall inside a deployment window of their entity, inclusive at
// both ends. The first occurrence of an (entity, timestamp) pair wins.
func (e *Engine) Join(samples []Sample) []Row {
	rows := make([]Row, 0, len(samples))
	for _, s := range samples {
		windows, ok := e.index[s.EntityID]
		if !ok {
			e.stats.Unmatched++
			continue
		}
		d := containing(windows, s.Time)
		if d == nil {
			e.stats.OutOfWindow++
			continue
		}
		key := sampleKey{entityID: s.EntityID, seconds: s.Time.Time.Unix(), nanos: s.Time.Time.Nanosecond()}
		if _, ok := e.seen[key]; ok {
			e.stats.Duplicates++
			continue
		}
		e.seen[key] = struct{}{}
		rows = append(rows, Row{Deployment: d, Sample: s})
	}
	return rows
}

// Standalone emits one row per entity from deployments that carry their own average usage.
// Later records of an entity already emitted are duplicates.
func (e *Engine) Standalone() []Row {
	rows := make([]Row, 0, len(e.order))
	emitted := make(map[string]struct{}, len(e.order))
	for _, d := range e.order {
		if d.Average == nil {
			continue
		}
		if _, ok := emitted[d.EntityID]; ok {
			e.stats.Duplicates++
			continue
		}
		emitted[d.EntityID] = struct{}{}
		rows = append(rows, Row{Deployment: d, Sample: *d.Average})
	}
	return rows
}

func (e *Engine) Stats() Stats {
	return e.stats
}

// containing returns the latest-starting window that contains t.
func containing(windows []*Deployment, t core.Timestamp) *Deployment {
	i := sort.Search(len(windows), func(i int) bool {
		return windows[i].Start.After(t)
	})
	for i--; i >= 0; i-- {
		if !t.After(windows[i].End) {
			return windows[i]
		}
	}
	return nil
}
