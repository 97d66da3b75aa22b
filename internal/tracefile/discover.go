package tracefile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/packagewjx/workload-profiler/pkg/core"
)

// SearchDirs are the subdirectories of the input root that are searched, in order.
var SearchDirs = []string{
	"",
	"vmtable",
	filepath.Join("trace_data", "vmtable"),
	filepath.Join("AzurePublicDataset-master", "trace_data", "vmtable"),
	filepath.Join("AzurePublicDataset-master", "vmtable"),
}

var (
	DefaultDeploymentFiles = []string{"vm_deployments_aggregate_2020.csv", "vm_deployments.csv", "deployments.csv"}
	DefaultVMTableFiles    = []string{"vmtable.csv"}
	DefaultUsagePatterns   = []string{"vm_cpu_mem*.csv*", "vm_cpu_readings*.csv*", "usage*.csv*"}
)

type MissingInputError struct {
	What     string
	Searched []string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("could not find %s, searched:\n  %s", e.What, strings.Join(e.Searched, "\n  "))
}

// Sources are the files of one run. Usage is empty for the vmtable layout.
type Sources struct {
	Deployment string
	Usage      []string
}

// Discover locates the deployment table and, for the split layout, every usage shard.
// Empty name or pattern lists fall back to the defaults of the layout.
func Discover(root string, layout core.Layout, deploymentFiles, usagePatterns []string) (*Sources, error) {
	if len(deploymentFiles) == 0 {
		if layout == core.LayoutVMTable {
			deploymentFiles = DefaultVMTableFiles
		} else {
			deploymentFiles = DefaultDeploymentFiles
		}
	}
	if len(usagePatterns) == 0 {
		usagePatterns = DefaultUsagePatterns
	}

	deployment, searched := findFirst(root, deploymentFiles)
	if deployment == "" {
		return nil, &MissingInputError{What: "deployment table", Searched: searched}
	}
	sources := &Sources{Deployment: deployment}
	if layout == core.LayoutVMTable {
		return sources, nil
	}

	searched = make([]string, 0, len(SearchDirs)*len(usagePatterns))
	seen := map[string]struct{}{deployment: {}}
	for _, dir := range SearchDirs {
		for _, pattern := range usagePatterns {
			glob := filepath.Join(root, dir, pattern)
			searched = append(searched, glob)
			matches, err := filepath.Glob(glob)
			if err != nil {
				return nil, fmt.Errorf("bad usage pattern %q: %v", pattern, err)
			}
			for _, match := range matches {
				if _, ok := seen[match]; ok || !isFile(match) {
					continue
				}
				seen[match] = struct{}{}
				sources.Usage = append(sources.Usage, match)
			}
		}
	}
	if len(sources.Usage) == 0 {
		return nil, &MissingInputError{What: "usage samples", Searched: searched}
	}
	sort.Strings(sources.Usage)
	return sources, nil
}

func findFirst(root string, names []string) (string, []string) {
	searched := make([]string, 0, len(SearchDirs)*len(names)*2)
	for _, dir := range SearchDirs {
		for _, name := range names {
			candidates := []string{name}
			if !strings.HasSuffix(name, ".gz") {
				candidates = append(candidates, name+".gz")
			}
			for _, candidate := range candidates {
				path := filepath.Join(root, dir, candidate)
				searched = append(searched, path)
				if isFile(path) {
					return path, searched
				}
			}
		}
	}
	return "", searched
}

func isFile(path string) bool {
	stat, err := os.Stat(path)
	return err == nil && !stat.IsDir()
}
