package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/packagewjx/workload-profiler/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProfiles(t *testing.T, n int) []*core.WorkloadProfile {
	start, err := core.ParseTimestamp("1000", core.DefaultEpoch)
	require.NoError(t, err)
	end, err := core.ParseTimestamp("5000", core.DefaultEpoch)
	require.NoError(t, err)

	profiles := make([]*core.WorkloadProfile, n)
	for i := range profiles {
		profiles[i] = &core.WorkloadProfile{
			Name:          fmt.Sprintf("workload-v%d-3000", i),
			CpuRequest:    2,
			MemoryRequest: 8,
			CpuUsage:      40,
			MemUsage:      20,
			StartTime:     core.TimeValue{Timestamp: start},
			EndTime:       core.TimeValue{Timestamp: end},
			Labels: map[string]string{
				core.LabelGroup:      "rg1",
				core.LabelSizeSource: string(core.SizeFromTable),
			},
			Annotations: map[string]string{
				core.AnnotationVMId:   fmt.Sprintf("v%d", i),
				core.AnnotationVMSize: "Standard_D2_v3",
			},
		}
	}
	return profiles
}

func TestToProfileDOs(t *testing.T) {
	records, err := toProfileDOs("run-1", testProfiles(t, 2))
	require.NoError(t, err)
	require.Equal(t, 2, len(records))

	r := records[1]
	assert.Equal(t, "run-1", r.RunID)
	assert.Equal(t, "workload-v1-3000", r.Name)
	assert.Equal(t, "v1", r.VMId)
	assert.Equal(t, "Standard_D2_v3", r.VMSize)
	assert.Equal(t, "rg1", r.GroupLabel)
	assert.Equal(t, "table", r.SizeSource)
	assert.Equal(t, "", r.WorkloadClass)
	assert.Equal(t, 2, r.CpuRequest)
	assert.Equal(t, core.DefaultEpoch.Add(1000*time.Second), r.StartTime)

	labels := map[string]string{}
	require.NoError(t, json.Unmarshal([]byte(r.Labels), &labels))
	assert.Equal(t, "rg1", labels[core.LabelGroup])
}

func TestNewRunID(t *testing.T) {
	id := NewRunID()
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.NotEqual(t, id, NewRunID())
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("sqlite", "file.db", log.New(ioutil.Discard, "", 0))
	assert.Error(t, err)
}

func testLiveStore(t *testing.T, driver, env string) {
	dsn := os.Getenv(env)
	if dsn == "" {
		t.Skipf("%s not set", env)
	}
	s, err := Open(driver, dsn, log.New(ioutil.Discard, "", 0))
	require.NoError(t, err)
	defer func() {
		_ = s.Close()
	}()

	now := time.Now()
	run := &Run{
		ID:         NewRunID(),
		Input:      "azure_traces",
		Output:     "workloads_preprocessed.json",
		StartedAt:  now.Add(-time.Minute),
		FinishedAt: now,
		Emitted:    3,
	}
	ctx := context.Background()
	require.NoError(t, s.SaveRun(ctx, run, testProfiles(t, 3)))

	count, err := s.CountProfiles(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestMySQLStore(t *testing.T) {
	testLiveStore(t, DriverMySQL, "WORKLOAD_PROFILER_TEST_MYSQL")
}

func TestPostgresStore(t *testing.T) {
	testLiveStore(t, DriverPostgres, "WORKLOAD_PROFILER_TEST_POSTGRES")
}
