package sizing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/packagewjx/workload-profiler/pkg/core"
)

// DefaultMemoryMultiplier is the GiB per vCPU assumed for identifiers missing from the table.
// It is an approximation, not catalog truth.
const DefaultMemoryMultiplier = 4.0

// family letters, vCPU digit run, modifier letters, version suffix
var sizePattern = regexp.MustCompile(`^(?i:standard_|basic_)?([A-Za-z]+)(\d+)([A-Za-z]*)(?:_[vV](\d+))?$`)

type UnknownSizeError struct {
	ID     string
	Reason string
}

func (e *UnknownSizeError) Error() string {
	return fmt.Sprintf("unknown size %q: %s", e.ID, e.Reason)
}

type Resolver struct {
	table      map[string]core.SizeSpec
	multiplier float64
	fallback   func(id string) (core.SizeSpec, error)
}

func NewResolver(multiplier float64) *Resolver {
	if multiplier <= 0 {
		multiplier = DefaultMemoryMultiplier
	}
	table := make(map[string]core.SizeSpec, len(knownSizes))
	for id, s := range knownSizes {
		table[id] = core.SizeSpec{VCPUs: s.vcpus, MemoryGiB: s.memory, Source: core.SizeFromTable}
	}
	r := &Resolver{table: table, multiplier: multiplier}
	r.fallback = r.parse
	return r
}

// Merge adds or overrides table entries.
func (r *Resolver) Merge(entries map[string]core.SizeSpec) {
	for id, spec := range entries {
		r.table[id] = spec
	}
}

func (r *Resolver) Known() int {
	return len(r.table)
}

// Resolve looks the identifier up in the table and only parses it on a miss.
func (r *Resolver) Resolve(id string) (core.SizeSpec, error) {
	id = strings.TrimSpace(id)
	if spec, ok := r.table[id]; ok {
		return spec, nil
	}
	return r.fallback(id)
}

func (r *Resolver) parse(id string) (core.SizeSpec, error) {
	match := sizePattern.FindStringSubmatch(id)
	if match == nil {
		return core.SizeSpec{}, &UnknownSizeError{ID: id, Reason: "no table entry and unrecognized pattern"}
	}
	vcpus, err := strconv.Atoi(match[2])
	if err != nil || vcpus <= 0 {
		return core.SizeSpec{}, &UnknownSizeError{ID: id, Reason: fmt.Sprintf("invalid vCPU count %q", match[2])}
	}
	return core.SizeSpec{
		VCPUs:     vcpus,
		MemoryGiB: float64(vcpus) * r.multiplier,
		Source:    core.SizeFromPattern,
	}, nil
}
