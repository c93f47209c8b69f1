package output

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchSeesEveryReplace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	m := NewMatrix([]int{1, 2}, []string{"m1"})
	w := NewMatrixWriter(path)
	require.NoError(t, w.Write(m))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := make(chan *Matrix, 16)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(got *Matrix) { updates <- got })
	}()

	// GIVEN the initial read has happened, the directory is being watched.
	select {
	case got := <-updates:
		_, _, unmeasured := got.Counts()
		assert.Equal(t, 2, unmeasured)
	case <-time.After(5 * time.Second):
		t.Fatal("no initial callback")
	}

	// WHEN a cell is recorded and the file replaced
	m.Set(0, 0, 99.5)
	require.NoError(t, w.Write(m))

	// THEN the watcher reports the new value
	require.Eventually(t, func() bool {
		select {
		case got := <-updates:
			c, _ := got.Lookup(1, "m1")
			return c.State == Measured && c.Value == 99.5
		default:
			return false
		}
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestWatchMissingFileWaits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "later", "out.csv")
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	calls := 0
	err := Watch(ctx, path, func(*Matrix) { calls++ })
	assert.NoError(t, err)
	assert.Equal(t, 0, calls)
}
