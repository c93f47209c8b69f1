package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daryltucker/genai-sweep/internal/engine"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// benchRoot lays out <root>/bin/samples_bin/benchmark_genai and <root>/model/<present...>.
func benchRoot(t *testing.T, script string, present ...string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on windows")
	}
	root := t.TempDir()
	bin := filepath.Join(root, "bin", "samples_bin", "benchmark_genai")
	require.NoError(t, os.MkdirAll(filepath.Dir(bin), 0755))
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\n"+script), 0755))
	for _, m := range present {
		require.NoError(t, os.MkdirAll(filepath.Join(root, "model", m), 0755))
	}
	return root
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitOK, ExitCode(nil))
	assert.Equal(t, ExitFailure, ExitCode(errors.New("boom")))
	assert.Equal(t, ExitPreflight, ExitCode(fmt.Errorf("wrapped: %w", engine.ErrPreflight)))
}

func TestRunMissingBinary(t *testing.T) {
	root := t.TempDir()

	_, err := execute(t, "", "run", "--root", root, "--seqlens", "1")
	require.Error(t, err)
	assert.Equal(t, ExitPreflight, ExitCode(err))
	assert.Contains(t, err.Error(), "benchmark_genai not found")
	assert.NoFileExists(t, filepath.Join(root, "profile_log", "genai_tokens_per_s.csv"), "the sweep never starts")
}

func TestRunInvalidSeqlens(t *testing.T) {
	root := benchRoot(t, "echo 'Throughput: 1 tokens/s'\n", "m1")

	tests := []struct {
		name    string
		seqlens []string
		want    string
	}{
		{"not a number", []string{"--seqlens", "1,abc"}, `"abc"`},
		{"zero", []string{"--seqlens", "0"}, "got 0"},
		{"empty", []string{"--seqlens", ""}, "empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"run", "--root", root, "--models", "m1"}, tt.seqlens...)
			_, err := execute(t, "", args...)
			require.Error(t, err)
			assert.Equal(t, ExitPreflight, ExitCode(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRunSpaceSeparatedModelsHint(t *testing.T) {
	root := benchRoot(t, "echo 'Throughput: 1 tokens/s'\n", "a8w8")

	_, err := execute(t, "", "run", "--root", root, "--seqlens", "1", "--models", "a8w8", "nvfp4")
	require.Error(t, err)
	assert.Equal(t, ExitPreflight, ExitCode(err))
	assert.Contains(t, err.Error(), `"nvfp4"`)
	assert.Contains(t, err.Error(), "separate --models with commas")
}

func TestRunRepeatedModelsFlag(t *testing.T) {
	root := benchRoot(t, "echo 'Throughput: 3 tokens/s'\n", "a", "b")

	_, err := execute(t, "", "run", "--root", root, "--cpu-core", "", "--seqlens", "1", "--models", "a", "--models", "b")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "profile_log", "genai_tokens_per_s.csv"))
	require.NoError(t, err)
	assert.Equal(t, "seqlen,a,b\n1,3.0,3.0\n", string(data))
}

func TestRunSweep(t *testing.T) {
	root := benchRoot(t, `echo "loading $2"
echo "Throughput: 100.0 ± 0.5 tokens/s"
`, "m1")

	_, err := execute(t, "", "run", "--root", root, "--models", "m1,m2", "--cpu-core", "", "--seqlens", "1", "2")
	require.NoError(t, err)
	assert.Equal(t, ExitOK, ExitCode(err))

	data, err := os.ReadFile(filepath.Join(root, "profile_log", "genai_tokens_per_s.csv"))
	require.NoError(t, err)
	assert.Equal(t, "seqlen,m1,m2\n1,100.0,\n2,100.0,\n", string(data))
}

func TestRunWithConfigFile(t *testing.T) {
	root := benchRoot(t, `echo "Throughput: $4 tokens/s"`+"\n", "a", "b")
	out := filepath.Join(t.TempDir(), "custom.csv")
	cfgPath := filepath.Join(t.TempDir(), "sweep.yaml")
	cfg := fmt.Sprintf("root: %s\nmodels: [a, b]\nseqlens: [\"4,2\", 2, 8]\ncpu_core: \"\"\noutput: %s\n", root, out)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0644))

	_, err := execute(t, "", "--config", cfgPath, "run", "--models", "b")
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "seqlen,b\n4,4.0\n2,2.0\n8,8.0\n", string(data), "flags override the file, file seqlens keep their order")
}

func TestRunBadConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "sweep.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("not_a_field: 1\n"), 0644))

	_, err := execute(t, "", "--config", cfgPath, "run")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, ExitCode(err))
}

func TestListModels(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "model", "a8w8"), 0755))

	out, err := execute(t, "", "list-models", "--root", root, "--models", "a8w8,nvfp4")
	require.NoError(t, err)
	assert.Contains(t, out, "Model root: "+filepath.Join(root, "model"))
	assert.Contains(t, out, "- a8w8 (present)")
	assert.Contains(t, out, "- nvfp4 (missing)")
}

func TestExtract(t *testing.T) {
	t.Run("from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "run.log")
		require.NoError(t, os.WriteFile(path, []byte("Throughput: 12.3 tokens/s\nThroughput: 45.6 ± 0.4 tokens/s\n"), 0644))

		out, err := execute(t, "", "extract", path)
		require.NoError(t, err)
		assert.Equal(t, "45.6\n", out)
	})

	t.Run("from stdin", func(t *testing.T) {
		out, err := execute(t, "Throughput: 100 tokens/s\n", "extract")
		require.NoError(t, err)
		assert.Equal(t, "100.0\n", out)
	})

	t.Run("no value", func(t *testing.T) {
		out, err := execute(t, "nothing here\n", "extract")
		assert.ErrorIs(t, err, errNoThroughput)
		assert.Equal(t, ExitFailure, ExitCode(err))
		assert.Equal(t, "NA\n", out)
	})
}

func TestWatchOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, os.WriteFile(path, []byte("seqlen,m1,m2\n1,100.0,\n2,,\n"), 0644))

	out, err := execute(t, "", "watch", "--root", t.TempDir(), "--out", path, "--once")
	require.NoError(t, err)
	assert.Contains(t, out, "seqlen")
	assert.Contains(t, out, "100.0")
	assert.Equal(t, 3, strings.Count(out, "NA"))
}
