package metrics

import (
	"io/ioutil"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	r.RowsLoaded(TableUsage, 3)
	r.RowsLoaded(TableUsage, 2)
	r.RowsDropped(ReasonOutOfWindow, 2)
	r.ProfilesEmitted(1)
	r.RunDuration(1500 * time.Millisecond)

	assert.Equal(t, 5.0, testutil.ToFloat64(r.rowsLoaded.WithLabelValues(TableUsage)))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.rowsDropped.WithLabelValues(ReasonOutOfWindow)))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.rowsDropped.WithLabelValues(ReasonDuplicate)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.emitted))
	assert.Equal(t, 1.5, testutil.ToFloat64(r.duration))
	assert.Equal(t, len(Reasons), testutil.CollectAndCount(r.rowsDropped))
}

func TestWriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.ProfilesEmitted(7)
	path := filepath.Join(t.TempDir(), "workload_profiler.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "workload_profiler_profiles_emitted_total 7")
	assert.Contains(t, string(data), `workload_profiler_rows_dropped_total{reason="unknown_size"} 0`)

	err = r.WriteTextfile(filepath.Join(t.TempDir(), "missing", "out.prom"))
	assert.Error(t, err)
}
