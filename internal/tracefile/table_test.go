package tracefile

import (
	"io/ioutil"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	data := "vm_id, cpu ,mem\n" +
		"v1,1,2\n" +
		"v2,3\n" +
		"v3,5,6,7\n"
	table, err := Read(strings.NewReader(data), "test.csv", ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"vm_id", "cpu", "mem"}, table.Columns)
	assert.Equal(t, 3, len(table.Rows))
	assert.Equal(t, "1", table.Value(table.Rows[0], "cpu"))
	assert.Equal(t, "", table.Value(table.Rows[1], "mem"))
	assert.Equal(t, "6", table.Value(table.Rows[2], "mem"))
	assert.Equal(t, "", table.Value(table.Rows[0], "absent"))
}

func TestRead_HeaderRowAndLimit(t *testing.T) {
	data := "garbage line\n" +
		"vm_id,cpu\n" +
		"v1,1\n" +
		"v2,2\n" +
		"v3,3\n"
	table, err := Read(strings.NewReader(data), "test.csv", ReadOptions{HeaderRow: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"vm_id", "cpu"}, table.Columns)
	assert.Equal(t, 2, len(table.Rows))
	assert.Equal(t, "v2", table.Value(table.Rows[1], "vm_id"))
}

func TestRead_Headerless(t *testing.T) {
	table, err := Read(strings.NewReader("0,v1,0.5\n300,v1,0.7\n"), "readings.csv",
		ReadOptions{Columns: []string{"timestamp", "vm_id", "cpu"}})
	require.NoError(t, err)
	assert.Equal(t, 2, len(table.Rows))
	assert.Equal(t, "300", table.Value(table.Rows[1], "timestamp"))
}

func TestOpen_GzipAndBOM(t *testing.T) {
	root := t.TempDir()
	content := "\uFEFFvm_id,cpu\nv1,1\n"
	plain := writeTrace(t, root, "plain.csv", content)
	// gzip detected by magic bytes, not by extension
	compressed := writeGzipTrace(t, root, "compressed.csv", content)

	for _, path := range []string{plain, compressed} {
		count := uint64(0)
		in, err := Open(path, &count)
		require.NoError(t, err)
		data, err := ioutil.ReadAll(in)
		require.NoError(t, err)
		require.NoError(t, in.Close())
		assert.Equal(t, "vm_id,cpu\nv1,1\n", string(data), path)
		assert.True(t, count > 0)
	}
}

func TestOpen_CorruptGzip(t *testing.T) {
	root := t.TempDir()
	path := writeTrace(t, root, "corrupt.csv.gz", "\x1f\x8b\x00\x00garbage")
	in, err := Open(path, nil)
	if err == nil {
		_, err = ioutil.ReadAll(in)
		_ = in.Close()
	}
	assert.Error(t, err)

	_, err = Open(root+"/missing.csv", nil)
	assert.Error(t, err)
}
