package reconbf

import (
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpeak/reconbf/types"
)

func TestSummarize(t *testing.T) {
	result := &types.RunResult{
		Records: []types.ResultRecord{
			{Name: "mod_a.TestPass", Payload: types.Result{Status: types.StatusPass}},
			{Name: "mod_a.TestFail", Payload: types.Result{Status: types.StatusFail, Notes: "bad perms"}},
			{Name: "mod_a.TestSkip", Payload: types.Result{Status: types.StatusSkip}},
			{Name: "mod_b.TestGroup", Payload: types.GroupResult{
				{Name: "sub1", Result: types.Result{Status: types.StatusPass}},
				{Name: "sub2", Result: types.Result{Status: types.StatusFail}},
			}},
			{Name: "mod_b.TestOpaque", Payload: "raw string payload"},
		},
	}

	stats := summarize(result)
	assert.Equal(t, 6, stats.Total)
	assert.Equal(t, 2, stats.Passed)
	assert.Equal(t, 2, stats.Failed)
	assert.Equal(t, 1, stats.Skipped)
}

func TestOverallStatus(t *testing.T) {
	tests := []struct {
		name  string
		stats types.RunStats
		want  string
	}{
		{"all passed", types.RunStats{Total: 3, Passed: 3}, types.StatusPass},
		{"any failure fails", types.RunStats{Total: 3, Passed: 2, Failed: 1}, types.StatusFail},
		{"only skips", types.RunStats{Total: 2, Skipped: 2}, types.StatusSkip},
		{"skips with passes", types.RunStats{Total: 3, Passed: 1, Skipped: 2}, types.StatusPass},
		{"empty run", types.RunStats{}, types.StatusPass},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, overallStatus(tt.stats))
		})
	}
}

func TestPayloadStatus(t *testing.T) {
	assert.Equal(t, types.StatusFail, payloadStatus(types.Result{Status: types.StatusFail}))
	assert.Equal(t, types.StatusPass, payloadStatus(types.Result{Status: types.StatusPass}))

	group := types.GroupResult{
		{Name: "sub1", Result: types.Result{Status: types.StatusPass}},
		{Name: "sub2", Result: types.Result{Status: types.StatusSkip}},
	}
	assert.Equal(t, types.StatusPass, payloadStatus(group))

	allSkipped := types.GroupResult{
		{Name: "sub1", Result: types.Result{Status: types.StatusSkip}},
	}
	assert.Equal(t, types.StatusSkip, payloadStatus(allSkipped))

	// an opaque payload is something the check chose to report
	assert.Equal(t, types.StatusPass, payloadStatus("anything"))
}

func TestGetResultString(t *testing.T) {
	assert.Equal(t, "✓ pass", getResultString(types.StatusPass))
	assert.Equal(t, "- skip", getResultString(types.StatusSkip))
	assert.Equal(t, "✗ fail", getResultString(types.StatusFail))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "1.5s", formatDuration(1500*time.Millisecond))
	assert.Equal(t, "0.0s", formatDuration(0))
}

func TestNew(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		_, err := New(context.Background(), nil, "v0.0.1")
		require.Error(t, err)
	})

	t.Run("bad config file", func(t *testing.T) {
		cfg := &Config{
			TestDir:    t.TempDir(),
			ConfigFile: "/nonexistent/config.yaml",
			Log:        log.New(),
		}
		_, err := New(context.Background(), cfg, "v0.0.1")
		require.Error(t, err)
	})

	t.Run("valid config without provider", func(t *testing.T) {
		cfg := &Config{
			TestDir: t.TempDir(),
			Log:     log.New(),
		}
		r, err := New(context.Background(), cfg, "v0.0.1")
		require.NoError(t, err)
		require.NotNil(t, r)
		assert.Nil(t, r.Result())
	})
}

func TestLifecycle(t *testing.T) {
	cfg := &Config{
		TestDir: t.TempDir(),
		Log:     log.New(),
	}
	r, err := New(context.Background(), cfg, "v0.0.1")
	require.NoError(t, err)
	require.True(t, r.Stopped())

	// an empty check directory discovers zero units and the run succeeds
	require.NoError(t, r.Start(context.Background()))
	require.False(t, r.Stopped())
	require.NotNil(t, r.Result())
	assert.Empty(t, r.Result().Records)

	require.NoError(t, r.Stop(context.Background()))
	require.True(t, r.Stopped())
}

func TestErrorClassification(t *testing.T) {
	runtimeErr := NewRuntimeError(assert.AnError)
	assert.True(t, IsRuntimeError(runtimeErr))
	assert.False(t, IsCheckFailureError(runtimeErr))

	failErr := NewCheckFailureError("2 of 5 checks failed")
	assert.True(t, IsCheckFailureError(failErr))
	assert.False(t, IsRuntimeError(failErr))
}
