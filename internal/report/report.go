package report

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/packagewjx/workload-profiler/internal/metrics"
	"github.com/packagewjx/workload-profiler/pkg/core"
	"gonum.org/v1/gonum/stat"
)

// Usage summarizes one usage dimension over the emitted profiles.
type Usage struct {
	Mean   float64
	StdDev float64
	P95    float64
}

type Summary struct {
	// Loaded counts the rows of every table read, deployments included.
	Loaded  int
	Dropped map[string]int
	Emitted int
	CPU     Usage
	Mem     Usage
}

func (s *Summary) DroppedTotal() int {
	total := 0
	for _, n := range s.Dropped {
		total += n
	}
	return total
}

// DropRate is the share of loaded rows dropped for any reason.
func (s *Summary) DropRate() float64 {
	if s.Loaded == 0 {
		return 0
	}
	return float64(s.DroppedTotal()) / float64(s.Loaded)
}

func Summarize(loaded int, dropped map[string]int, profiles []*core.WorkloadProfile) *Summary {
	s := &Summary{
		Loaded:  loaded,
		Dropped: dropped,
		Emitted: len(profiles),
	}
	if len(profiles) == 0 {
		return s
	}
	cpu := make([]float64, len(profiles))
	mem := make([]float64, len(profiles))
	for i, p := range profiles {
		cpu[i] = p.CpuUsage
		mem[i] = p.MemUsage
	}
	s.CPU = usage(cpu)
	s.Mem = usage(mem)
	return s
}

func usage(values []float64) Usage {
	sort.Float64s(values)
	u := Usage{P95: stat.Quantile(0.95, stat.Empirical, values, nil)}
	if len(values) > 1 {
		u.Mean, u.StdDev = stat.MeanStdDev(values, nil)
	} else {
		u.Mean = values[0]
	}
	return u
}

func (s *Summary) Print(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "rows loaded\t%d\n", s.Loaded)
	for _, reason := range metrics.Reasons {
		if n := s.Dropped[reason]; n > 0 {
			fmt.Fprintf(tw, "dropped (%s)\t%d\n", reason, n)
		}
	}
	fmt.Fprintf(tw, "drop rate\t%.2f%%\n", s.DropRate()*100)
	fmt.Fprintf(tw, "profiles emitted\t%d\n", s.Emitted)
	if s.Emitted > 0 {
		fmt.Fprintf(tw, "cpu usage\tmean %.2f, stddev %.2f, p95 %.2f\n", s.CPU.Mean, s.CPU.StdDev, s.CPU.P95)
		fmt.Fprintf(tw, "mem usage\tmean %.2f, stddev %.2f, p95 %.2f\n", s.Mem.Mean, s.Mem.StdDev, s.Mem.P95)
	}
	return tw.Flush()
}
