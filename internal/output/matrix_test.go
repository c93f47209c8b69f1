package output

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewMatrixStartsUnmeasured(t *testing.T) {
	m := NewMatrix([]int{1, 2}, []string{"a", "b", "c"})

	measured, failed, unmeasured := m.Counts()
	assert.Equal(t, 0, measured)
	assert.Equal(t, 0, failed)
	assert.Equal(t, 6, unmeasured)
}

func TestMatrixDuplicateModelsGetOwnColumns(t *testing.T) {
	m := NewMatrix([]int{1}, []string{"a", "a"})
	m.Set(0, 0, 1)
	m.Set(0, 1, 2)

	assert.Equal(t, []string{"seqlen", "a", "a"}, m.Records()[0])
	assert.Equal(t, []string{"1", "1.0", "2.0"}, m.Records()[1])

	c, ok := m.Lookup(1, "a")
	assert.True(t, ok)
	assert.Equal(t, 1.0, c.Value)
}

func TestMatrixSetTwicePanics(t *testing.T) {
	m := NewMatrix([]int{1}, []string{"a"})
	m.Fail(0, 0)

	assert.Panics(t, func() { m.Set(0, 0, 3) })
}

func TestMatrixLookupMissing(t *testing.T) {
	m := NewMatrix([]int{1}, []string{"a"})

	_, ok := m.Lookup(2, "a")
	assert.False(t, ok)
	_, ok = m.Lookup(1, "b")
	assert.False(t, ok)
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{100, "100.0"},
		{45.6, "45.6"},
		{0, "0.0"},
		{-2, "-2.0"},
		{0.001, "0.001"},
		{1500, "1500.0"},
		{123.456789, "123.456789"},
		{math.NaN(), "NaN"},
		{math.Inf(1), "+Inf"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatValue(tt.in))
	}
}

func TestMatrixWriteTable(t *testing.T) {
	m := NewMatrix([]int{1, 1024}, []string{"a8w8", "nvfp4"})
	m.Set(0, 0, 12.5)
	m.Fail(1, 1)

	var buf bytes.Buffer
	assert.NoError(t, m.WriteTable(&buf))

	out := buf.String()
	assert.Contains(t, out, "seqlen")
	assert.Contains(t, out, "12.5")
	assert.Contains(t, out, "NA")
	assert.Equal(t, 3, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestCellStateString(t *testing.T) {
	assert.Equal(t, "unmeasured", Unmeasured.String())
	assert.Equal(t, "measured", Measured.String())
	assert.Equal(t, "failed", Failed.String())
}
