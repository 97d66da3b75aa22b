package pipeline

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/packagewjx/workload-profiler/internal/classify"
	"github.com/packagewjx/workload-profiler/internal/store"
	"github.com/packagewjx/workload-profiler/pkg/core"
	"github.com/pkg/errors"
)

const (
	DefaultInputDir = "azure_traces"
	DefaultOutput   = "workloads_preprocessed.json"
	DefaultEpoch    = "2020-01-01T00:00:00Z"
)

type Config struct {
	InputDir string
	Output   string
	// Limit caps the deployment rows and the usage rows of a run, 0 means no cap.
	Limit  int
	Layout core.Layout

	DeploymentFiles   []string // candidate names of the deployment table
	UsagePatterns     []string // glob patterns of the usage shards
	HeaderRow         int
	DeploymentColumns []string // column labels of a headerless deployment table
	UsageColumns      []string // column labels of headerless usage shards

	TimeFormat       core.TimeFormat
	Epoch            string
	MemoryMultiplier float64
	SizeCatalog      string

	Classes     int
	KMeansRound int

	StoreDriver string
	StoreDSN    string `json:"-"`
	MetricsFile string

	origin time.Time
}

func (c Config) String() string {
	marshal, _ := json.Marshal(c)
	return string(marshal)
}

// Complete fills in defaults and validates the configuration.
func (c *Config) Complete() error {
	if c.InputDir == "" {
		c.InputDir = DefaultInputDir
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.Limit < 0 {
		return fmt.Errorf("limit must not be negative, got %d", c.Limit)
	}

	switch c.Layout {
	case "":
		c.Layout = core.LayoutSplit
	case core.LayoutSplit, core.LayoutVMTable:
	default:
		return fmt.Errorf("unknown layout %q, expecting %q or %q", c.Layout, core.LayoutSplit, core.LayoutVMTable)
	}

	if c.HeaderRow < 0 {
		return fmt.Errorf("header row must not be negative, got %d", c.HeaderRow)
	}

	switch c.TimeFormat {
	case "":
		c.TimeFormat = core.TimeFormatISO
	case core.TimeFormatISO, core.TimeFormatRaw:
	default:
		return fmt.Errorf("unknown time format %q, expecting %q or %q", c.TimeFormat, core.TimeFormatISO, core.TimeFormatRaw)
	}

	if c.Epoch == "" {
		c.Epoch = DefaultEpoch
	}
	origin, err := time.Parse(time.RFC3339, c.Epoch)
	if err != nil {
		return errors.Wrapf(err, "invalid epoch %q", c.Epoch)
	}
	c.origin = origin.UTC()

	if c.MemoryMultiplier < 0 {
		return fmt.Errorf("memory multiplier must not be negative, got %v", c.MemoryMultiplier)
	}

	if c.Classes < 0 {
		return fmt.Errorf("class count must not be negative, got %d", c.Classes)
	}
	if c.KMeansRound <= 0 {
		c.KMeansRound = classify.KMeansDefaultRound
	}

	switch c.StoreDriver {
	case "":
	case store.DriverMySQL, store.DriverPostgres:
		if c.StoreDSN == "" {
			return fmt.Errorf("store driver %s needs a dsn", c.StoreDriver)
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}

	return nil
}

// Origin is the instant relative timestamps are counted from. Valid after Complete.
func (c *Config) Origin() time.Time {
	return c.origin
}
