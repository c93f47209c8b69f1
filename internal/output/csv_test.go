package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrixWriterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.csv")
	m := NewMatrix([]int{1, 2, 4}, []string{"m1", "m2"})
	m.Set(0, 0, 100)
	m.Fail(0, 1)
	m.Set(1, 1, 45.6)

	w := NewMatrixWriter(path)
	require.NoError(t, w.Write(m))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "seqlen,m1,m2\n1,100.0,\n2,,45.6\n4,,\n", string(data))

	back, err := ReadMatrix(path)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 4}, back.Seqlens)
	assert.Equal(t, []string{"m1", "m2"}, back.Models)
	assert.Equal(t, Cell{State: Measured, Value: 100}, back.Cell(0, 0))
	assert.Equal(t, Unmeasured, back.Cell(0, 1).State, "failed cells persist as empty")
	assert.Equal(t, 45.6, back.Cell(1, 1).Value)
	assert.Equal(t, Unmeasured, back.Cell(2, 0).State)
}

func TestMatrixWriterIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	m := NewMatrix([]int{8, 16}, []string{"a", "b", "c"})
	m.Set(1, 2, 1.5e3)

	w := NewMatrixWriter(path)
	require.NoError(t, w.Write(m))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, w.Write(m))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, w.Writes())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
	assert.Equal(t, "out.csv", entries[0].Name())
}

func TestMatrixWriterEmptyMatrix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	m := NewMatrix([]int{1, 2}, []string{"x", "y"})

	require.NoError(t, NewMatrixWriter(path).Write(m))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "seqlen,x,y\n1,,\n2,,\n", string(data))
	assert.NotContains(t, string(data), "NA")
}

func TestMatrixWriterReplaceFailureKeepsOldFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	m := NewMatrix([]int{1}, []string{"m"})
	require.NoError(t, NewMatrixWriter(path).Write(m))

	// A directory cannot be replaced by a file.
	blocked := filepath.Join(dir, "blocked")
	require.NoError(t, os.MkdirAll(filepath.Join(blocked, "child"), 0755))
	err := NewMatrixWriter(blocked).Write(m)
	assert.Error(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "seqlen,m\n1,\n", string(data))
}

func TestReadMatrixErrors(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"no header":   "",
		"bad header":  "len,m1\n1,2\n",
		"bad seqlen":  "seqlen,m1\nx,2\n",
		"bad value":   "seqlen,m1\n1,fast\n",
		"ragged rows": "seqlen,m1,m2\n1,2\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(name, " ", "_")+".csv")
			require.NoError(t, os.WriteFile(path, []byte(content), 0644))
			_, err := ReadMatrix(path)
			assert.Error(t, err)
		})
	}
}
