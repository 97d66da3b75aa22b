package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	ts, err := ParseTimestamp("3000", DefaultEpoch)
	require.NoError(t, err)
	assert.Equal(t, 3000.0, ts.Offset)
	assert.Equal(t, "2020-01-01T00:50:00Z", ts.ISO())

	ts, err = ParseTimestamp(" 1.5 ", DefaultEpoch)
	require.NoError(t, err)
	assert.Equal(t, 1.5, ts.Offset)
	assert.Equal(t, DefaultEpoch.Add(1500*time.Millisecond), ts.Time)

	ts, err = ParseTimestamp("2020-01-02 00:00:00", DefaultEpoch)
	require.NoError(t, err)
	assert.Equal(t, 86400.0, ts.Offset)

	ts, err = ParseTimestamp("2020-01-01T01:00:00+01:00", DefaultEpoch)
	require.NoError(t, err)
	assert.Equal(t, 0.0, ts.Offset)

	origin := time.Date(2019, 12, 31, 0, 0, 0, 0, time.UTC)
	ts, err = ParseTimestamp("60", origin)
	require.NoError(t, err)
	assert.Equal(t, "2019-12-31T00:01:00Z", ts.ISO())

	for _, raw := range []string{"", "NaN", "Inf", "yesterday", "2020-13-01 00:00:00"} {
		_, err = ParseTimestamp(raw, DefaultEpoch)
		assert.Error(t, err, raw)
		assert.Equal(t, ErrInvalidTimestamp, errors.Cause(err), raw)
	}
}

func TestParseTimestamp_Range(t *testing.T) {
	// millisecond epochs do not fit a relative offset in seconds
	for _, raw := range []string{"10000000000", "1600000000000", "-10000000000", "1e10", "9300000000.5", "2400-01-01 00:00:00"} {
		_, err := ParseTimestamp(raw, DefaultEpoch)
		assert.Error(t, err, raw)
		assert.Equal(t, ErrInvalidTimestamp, errors.Cause(err), raw)
	}

	ts, err := ParseTimestamp("9000000000", DefaultEpoch)
	require.NoError(t, err)
	assert.Equal(t, 9e9, ts.Offset)
	assert.Equal(t, DefaultEpoch.Unix()+9000000000, ts.Time.Unix())

	start, err := ParseTimestamp("1000", DefaultEpoch)
	require.NoError(t, err)
	assert.True(t, start.Before(ts))

	ts, err = ParseTimestamp("2200-01-01T00:00:00Z", DefaultEpoch)
	require.NoError(t, err)
	assert.Equal(t, float64(ts.Time.Unix()-DefaultEpoch.Unix()), ts.Offset)
}

func TestTimestampOrder(t *testing.T) {
	a, _ := ParseTimestamp("1000", DefaultEpoch)
	b, _ := ParseTimestamp("5000", DefaultEpoch)
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.After(a))
}

func TestWorkloadProfileJSON(t *testing.T) {
	start, _ := ParseTimestamp("1000", DefaultEpoch)
	end, _ := ParseTimestamp("5000", DefaultEpoch)
	profile := &WorkloadProfile{
		Name:          "workload-v1-3000",
		CpuRequest:    2,
		MemoryRequest: 8,
		CpuUsage:      40,
		MemUsage:      20,
		StartTime:     TimeValue{Timestamp: start, Format: TimeFormatISO},
		EndTime:       TimeValue{Timestamp: end, Format: TimeFormatRaw},
		Labels:        map[string]string{LabelGroup: "rg1"},
		Annotations:   map[string]string{AnnotationVMId: "v1"},
	}
	data, err := json.Marshal(profile)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "workload-v1-3000",
		"cpu_request": 2,
		"memory_request": 8,
		"cpu_usage": 40,
		"mem_usage": 20,
		"start_time": "2020-01-01T00:16:40Z",
		"end_time": 5000,
		"labels": {"group": "rg1"},
		"annotations": {"vm_id": "v1"}
	}`, string(data))
}

func TestSizeSpecValid(t *testing.T) {
	assert.True(t, SizeSpec{VCPUs: 2, MemoryGiB: 8}.Valid())
	assert.False(t, SizeSpec{VCPUs: 0, MemoryGiB: 8}.Valid())
	assert.False(t, SizeSpec{VCPUs: 2, MemoryGiB: 0}.Valid())
}
