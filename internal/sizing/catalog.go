package sizing

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/packagewjx/workload-profiler/pkg/core"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/api/resource"
)

const gibibyte = 1 << 30

// skuEntry is the layout of instance_specs.json and of the SKU fetcher output.
type skuEntry struct {
	Name      string  `json:"Name"`
	VCpus     int     `json:"VCpus"`
	MemoryGiB float64 `json:"MemoryGiB"`
}

type catalogEntry struct {
	Name   string `yaml:"name"`
	VCPUs  int    `yaml:"vcpus"`
	Memory string `yaml:"memory"`
}

// LoadCatalog reads size overrides from a JSON or YAML file.
func LoadCatalog(path string) (map[string]core.SizeSpec, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read size catalog %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return parseJSONCatalog(data)
	case ".yaml", ".yml":
		return parseYAMLCatalog(data)
	default:
		return nil, fmt.Errorf("size catalog %s: unsupported extension, want .json, .yaml or .yml", path)
	}
}

func parseJSONCatalog(data []byte) (map[string]core.SizeSpec, error) {
	entries := make([]skuEntry, 0)
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrap(err, "decode json size catalog")
	}
	result := make(map[string]core.SizeSpec, len(entries))
	for i, e := range entries {
		spec := core.SizeSpec{VCPUs: e.VCpus, MemoryGiB: e.MemoryGiB, Source: core.SizeFromCatalog}
		if err := checkEntry(i, e.Name, spec); err != nil {
			return nil, err
		}
		result[e.Name] = spec
	}
	return result, nil
}

func parseYAMLCatalog(data []byte) (map[string]core.SizeSpec, error) {
	entries := make([]catalogEntry, 0)
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrap(err, "decode yaml size catalog")
	}
	result := make(map[string]core.SizeSpec, len(entries))
	for i, e := range entries {
		memory, err := parseMemory(e.Memory)
		if err != nil {
			return nil, errors.Wrapf(err, "size catalog entry %d (%s)", i, e.Name)
		}
		spec := core.SizeSpec{VCPUs: e.VCPUs, MemoryGiB: memory, Source: core.SizeFromCatalog}
		if err := checkEntry(i, e.Name, spec); err != nil {
			return nil, err
		}
		result[e.Name] = spec
	}
	return result, nil
}

// parseMemory accepts a plain number of GiB or a quantity such as 16Gi or 512Mi.
func parseMemory(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f, nil
	}
	q, err := resource.ParseQuantity(value)
	if err != nil {
		return 0, errors.Wrapf(err, "memory %q", value)
	}
	return q.AsApproximateFloat64() / gibibyte, nil
}

func checkEntry(index int, name string, spec core.SizeSpec) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("size catalog entry %d has no name", index)
	}
	if !spec.Valid() {
		return fmt.Errorf("size catalog entry %d (%s) needs positive vcpus and memory, got %d/%v",
			index, name, spec.VCPUs, spec.MemoryGiB)
	}
	return nil
}
