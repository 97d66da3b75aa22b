package cmd

import (
	"bytes"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/packagewjx/workload-profiler/internal/pipeline"
	"github.com/packagewjx/workload-profiler/pkg/core"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCmd(t *testing.T) {
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetArgs([]string{"resolve-size", "Standard_D4_v3", "Standard_Q8_v2", "Foo_Bar"})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), "Standard_D4_v3\t4 vCPU\t16 GiB\ttable")
	assert.Contains(t, out.String(), "Standard_Q8_v2\t8 vCPU\t32 GiB\tfallback")
	assert.Contains(t, out.String(), "Foo_Bar\tunknown size")
}

func TestConfigFromViper(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "profiler.yaml")
	require.NoError(t, ioutil.WriteFile(cfgPath, []byte(
		"input-dir: /data/traces\n"+
			"layout: vmtable\n"+
			"usage-pattern: [\"readings-*.csv.gz\"]\n"+
			"memory-multiplier: 8\n"+
			"classes: 4\n"), 0644))

	viper.SetConfigFile(cfgPath)
	require.NoError(t, viper.ReadInConfig())
	t.Setenv("WORKLOAD_PROFILER_LIMIT", "100")
	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()

	config := configFromViper()
	assert.Equal(t, "/data/traces", config.InputDir)
	assert.Equal(t, core.LayoutVMTable, config.Layout)
	assert.Equal(t, []string{"readings-*.csv.gz"}, config.UsagePatterns)
	assert.Equal(t, 8.0, config.MemoryMultiplier)
	assert.Equal(t, 4, config.Classes)
	assert.Equal(t, 100, config.Limit)
	assert.Equal(t, pipeline.DefaultOutput, config.Output)
}
