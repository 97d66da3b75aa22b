package join

import (
	"log"
	"math"
	"strconv"
	"time"

	"github.com/packagewjx/workload-profiler/internal/schema"
	"github.com/packagewjx/workload-profiler/internal/tracefile"
	"github.com/packagewjx/workload-profiler/pkg/core"
	"github.com/pkg/errors"
)

// Converter turns reconciled table rows into deployments and samples. Rows with empty or
// unparseable cells are dropped and counted.
type Converter struct {
	Origin time.Time
	Stats  Stats
	logger *log.Logger
}

func NewConverter(origin time.Time, logger *log.Logger) *Converter {
	return &Converter{Origin: origin, logger: logger}
}

func (c *Converter) Deployments(table *tracefile.ReconciledTable) []*Deployment {
	result := make([]*Deployment, 0, len(table.Rows))
	for _, row := range table.Rows {
		d, err := c.window(table, row)
		if err != nil {
			c.drop(table, err)
			continue
		}
		d.SizeID = table.Field(row, schema.FieldSize)
		d.Group = table.Field(row, schema.FieldGroup)
		if d.SizeID == "" {
			c.drop(table, errors.Errorf("vm %s has no size", d.EntityID))
			continue
		}
		result = append(result, d)
	}
	return result
}

// VMTable converts the rows of the single-table layout. Each deployment carries its own
// size and average usage.
func (c *Converter) VMTable(table *tracefile.ReconciledTable) []*Deployment {
	result := make([]*Deployment, 0, len(table.Rows))
	for _, row := range table.Rows {
		d, err := c.window(table, row)
		if err != nil {
			c.drop(table, err)
			continue
		}
		d.Group = table.Field(row, schema.FieldWorkloadType)

		values, err := parseFloats(table, row, schema.FieldVCPUs, schema.FieldMemoryGiB, schema.FieldCpuAvg, schema.FieldMemAvg)
		if err != nil {
			c.drop(table, errors.Wrapf(err, "vm %s", d.EntityID))
			continue
		}
		if values[0] != math.Trunc(values[0]) || values[0] < 1 || values[0] > math.MaxInt32 {
			c.drop(table, errors.Errorf("vm %s has invalid vcpus %q", d.EntityID, table.Field(row, schema.FieldVCPUs)))
			continue
		}
		d.Size = &core.SizeSpec{VCPUs: int(values[0]), MemoryGiB: values[1], Source: core.SizeFromTrace}
		if !d.Size.Valid() {
			c.drop(table, errors.Errorf("vm %s has no usable size: %v vCPU, %v GiB", d.EntityID, values[0], values[1]))
			continue
		}
		d.Average = &Sample{EntityID: d.EntityID, Time: d.Start, CPU: values[2], Mem: values[3]}
		result = append(result, d)
	}
	return result
}

func (c *Converter) Samples(table *tracefile.ReconciledTable) []Sample {
	result := make([]Sample, 0, len(table.Rows))
	for _, row := range table.Rows {
		id := table.Field(row, schema.FieldEntityId)
		if id == "" {
			c.drop(table, errors.New("empty vm id"))
			continue
		}
		ts, err := core.ParseTimestamp(table.Field(row, schema.FieldTimestamp), c.Origin)
		if err != nil {
			c.drop(table, errors.Wrapf(err, "vm %s", id))
			continue
		}
		values, err := parseFloats(table, row, schema.FieldCpu, schema.FieldMem)
		if err != nil {
			c.drop(table, errors.Wrapf(err, "vm %s", id))
			continue
		}
		result = append(result, Sample{EntityID: id, Time: ts, CPU: values[0], Mem: values[1]})
	}
	return result
}

func (c *Converter) window(table *tracefile.ReconciledTable, row []string) (*Deployment, error) {
	id := table.Field(row, schema.FieldEntityId)
	if id == "" {
		return nil, errors.New("empty vm id")
	}
	start, err := core.ParseTimestamp(table.Field(row, schema.FieldStart), c.Origin)
	if err != nil {
		return nil, errors.Wrapf(err, "vm %s start", id)
	}
	end, err := core.ParseTimestamp(table.Field(row, schema.FieldEnd), c.Origin)
	if err != nil {
		return nil, errors.Wrapf(err, "vm %s end", id)
	}
	if start.After(end) {
		c.Stats.InvalidWindows++
		return nil, errInvalidWindow
	}
	return &Deployment{EntityID: id, Start: start, End: end}, nil
}

var errInvalidWindow = errors.New("window starts after it ends")

func (c *Converter) drop(table *tracefile.ReconciledTable, err error) {
	if err != errInvalidWindow {
		c.Stats.InvalidRows++
	}
	if c.logger != nil && c.Stats.InvalidRows+c.Stats.InvalidWindows <= maxLoggedDrops {
		c.logger.Printf("%s: skipping row: %v\n", table.Source, err)
	}
}

// only the first few invalid rows are logged
const maxLoggedDrops = 20

func parseFloats(table *tracefile.ReconciledTable, row []string, fields ...string) ([]float64, error) {
	values := make([]float64, len(fields))
	for i, field := range fields {
		raw := table.Field(row, field)
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.Errorf("invalid %s %q", field, raw)
		}
		values[i] = v
	}
	return values, nil
}
