package profile

import (
	"log"
	"strconv"

	"github.com/packagewjx/workload-profiler/internal/join"
	"github.com/packagewjx/workload-profiler/pkg/core"
	"github.com/pkg/errors"
)

type SizeResolver interface {
	Resolve(id string) (core.SizeSpec, error)
}

// Candidate is a joined row whose size has been resolved.
type Candidate struct {
	Row  join.Row
	Size core.SizeSpec
}

// Emitter resolves sizes for joined rows and builds the profiles.
type Emitter struct {
	resolver SizeResolver
	layout   core.Layout
	format   core.TimeFormat
	// identifiers already reported as unknown
	unknown      map[string]struct{}
	unknownSizes int
	logger       *log.Logger
}

func NewEmitter(resolver SizeResolver, layout core.Layout, format core.TimeFormat, logger *log.Logger) *Emitter {
	if format == "" {
		format = core.TimeFormatISO
	}
	return &Emitter{
		resolver: resolver,
		layout:   layout,
		format:   format,
		unknown:  make(map[string]struct{}),
		logger:   logger,
	}
}

// Resolve determines the resource bundle of the row. Rows whose size cannot be resolved are
// dropped; each distinct identifier is logged once.
func (e *Emitter) Resolve(row join.Row) (Candidate, bool) {
	d := row.Deployment
	if d.Size != nil {
		return Candidate{Row: row, Size: *d.Size}, true
	}
	spec, err := e.resolver.Resolve(d.SizeID)
	if err == nil && spec.Valid() {
		return Candidate{Row: row, Size: spec}, true
	}
	if err == nil {
		err = errors.Errorf("size %q resolved to %d vCPU and %v GiB", d.SizeID, spec.VCPUs, spec.MemoryGiB)
	}
	e.unknownSizes++
	if _, ok := e.unknown[d.SizeID]; !ok {
		e.unknown[d.SizeID] = struct{}{}
		e.logger.Printf("dropping rows of vm %s and others with the same size: %v\n", d.EntityID, err)
	}
	return Candidate{}, false
}

// UnknownSizes is the number of rows dropped by Resolve.
func (e *Emitter) UnknownSizes() int {
	return e.unknownSizes
}

func (e *Emitter) Build(c Candidate, extraLabels map[string]string) *core.WorkloadProfile {
	d := c.Row.Deployment
	s := c.Row.Sample

	labels := map[string]string{
		core.LabelGroup:      d.Group,
		core.LabelSizeSource: string(c.Size.Source),
	}
	for k, v := range extraLabels {
		labels[k] = v
	}
	annotations := map[string]string{
		core.AnnotationVMId: d.EntityID,
	}
	if d.SizeID != "" {
		annotations[core.AnnotationVMSize] = d.SizeID
	}

	name := "workload-" + d.EntityID
	if e.layout != core.LayoutVMTable {
		name += "-" + strconv.FormatFloat(s.Time.Offset, 'f', -1, 64)
		annotations[core.AnnotationSampleTime] = s.Time.ISO()
	}

	return &core.WorkloadProfile{
		Name:          name,
		CpuRequest:    c.Size.VCPUs,
		MemoryRequest: c.Size.MemoryGiB,
		CpuUsage:      s.CPU,
		MemUsage:      s.Mem,
		StartTime:     core.TimeValue{Timestamp: d.Start, Format: e.format},
		EndTime:       core.TimeValue{Timestamp: d.End, Format: e.format},
		Labels:        labels,
		Annotations:   annotations,
	}
}
