package sizing

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/packagewjx/workload-profiler/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, ioutil.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadCatalog_JSON(t *testing.T) {
	path := writeFile(t, "instance_specs.json", `[
  {"Name": "Standard_D4s_v3", "VCpus": 4, "MemoryGiB": 16, "PricePerHour": 0.2},
  {"Name": "Standard_NC6s_v3", "VCpus": 6, "MemoryGiB": 112}
]`)
	catalog, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, 2, len(catalog))
	assert.Equal(t, core.SizeSpec{VCPUs: 6, MemoryGiB: 112, Source: core.SizeFromCatalog}, catalog["Standard_NC6s_v3"])
}

func TestLoadCatalog_YAML(t *testing.T) {
	path := writeFile(t, "sizes.yaml", `
- name: Standard_D2_v3
  vcpus: 2
  memory: 8Gi
- name: Tiny
  vcpus: 1
  memory: 512Mi
- name: Plain
  vcpus: 2
  memory: "3.5"
`)
	catalog, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, 8.0, catalog["Standard_D2_v3"].MemoryGiB)
	assert.Equal(t, 0.5, catalog["Tiny"].MemoryGiB)
	assert.Equal(t, 3.5, catalog["Plain"].MemoryGiB)
}

func TestLoadCatalog_Invalid(t *testing.T) {
	_, err := LoadCatalog(writeFile(t, "bad.yaml", "- name: Zero\n  vcpus: 0\n  memory: 4Gi\n"))
	assert.Error(t, err)

	_, err = LoadCatalog(writeFile(t, "bad.yml", "- name: Weird\n  vcpus: 2\n  memory: lots\n"))
	assert.Error(t, err)

	_, err = LoadCatalog(writeFile(t, "noname.json", `[{"VCpus": 2, "MemoryGiB": 4}]`))
	assert.Error(t, err)

	_, err = LoadCatalog(writeFile(t, "sizes.csv", "a,b"))
	assert.Error(t, err)

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
