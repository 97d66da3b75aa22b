package join

import "github.com/packagewjx/workload-profiler/pkg/core"

// Deployment is one lifetime window of a VM.
type Deployment struct {
	EntityID string
	SizeID   string
	Group    string
	Start    core.Timestamp
	End      core.Timestamp

	// Size and Average are only set by the vmtable layout, which carries the resource bundle
	// and the average usage in the deployment record itself.
	Size    *core.SizeSpec
	Average *Sample
}

func (d *Deployment) Contains(t core.Timestamp) bool {
	return !t.Before(d.Start) && !t.After(d.End)
}

type Sample struct {
	EntityID string
	Time     core.Timestamp
	CPU      float64
	Mem      float64
}

// Row is a usage sample paired with the deployment whose window contains it.
type Row struct {
	Deployment *Deployment
	Sample     Sample
}

// Stats counts dropped rows by reason.
type Stats struct {
	Unmatched      int
	OutOfWindow    int
	Duplicates     int
	InvalidRows    int
	InvalidWindows int
}

func (s *Stats) Add(o Stats) {
	s.Unmatched += o.Unmatched
	s.OutOfWindow += o.OutOfWindow
	s.Duplicates += o.Duplicates
	s.InvalidRows += o.InvalidRows
	s.InvalidWindows += o.InvalidWindows
}
