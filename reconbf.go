package reconbf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ethereum-optimism/optimism/op-service/cliapp"

	"github.com/mcpeak/reconbf/checks"
	"github.com/mcpeak/reconbf/conf"
	"github.com/mcpeak/reconbf/discovery"
	"github.com/mcpeak/reconbf/metrics"
	"github.com/mcpeak/reconbf/registry"
	"github.com/mcpeak/reconbf/testset"
	"github.com/mcpeak/reconbf/types"
)

// reconbf implements the cliapp.Lifecycle interface.
var _ cliapp.Lifecycle = &reconbf{}

type reconbf struct {
	ctx      context.Context
	config   *Config
	version  string
	registry *registry.Registry
	provider conf.Provider
	result   *types.RunResult

	running atomic.Bool
}

func New(ctx context.Context, config *Config, version string) (*reconbf, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}

	config.Log.Debug("Creating reconbf with config",
		"testDir", config.TestDir,
		"script", config.ScriptFile,
		"config", config.ConfigFile)

	reg := registry.NewRegistry(registry.Config{Log: config.Log})
	if err := checks.Register(reg); err != nil {
		return nil, fmt.Errorf("failed to register check modules: %w", err)
	}

	var provider conf.Provider
	if config.ConfigFile != "" {
		p, err := conf.NewYAMLProvider(config.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
		provider = p
	}
	config.Log.Info("reconbf.New: created registry", "configProvider", provider != nil)

	return &reconbf{
		ctx:      ctx,
		config:   config,
		version:  version,
		registry: reg,
		provider: provider,
	}, nil
}

// Start discovers, selects and runs the checks.
// Start implements the cliapp.Lifecycle interface.
func (r *reconbf) Start(ctx context.Context) error {
	r.config.Log.Info("Starting reconbf", "version", r.version)
	r.ctx = ctx
	r.running.Store(true)

	set := testset.New(r.config.Log)
	err := set.AddFromDirectory(discovery.Config{
		Dir:         r.config.TestDir,
		FilePattern: r.config.FilePattern,
		FuncPrefix:  r.config.FuncPrefix,
		Registry:    r.registry,
		Log:         r.config.Log,
	})
	if err != nil {
		metrics.RecordErrorDetails("discovery failed", err)
		return NewRuntimeError(err)
	}
	r.config.Log.Info("Discovered checks", "count", set.Count())

	set.ReduceToTags(r.config.Tags)
	if len(r.config.Tags) > 0 {
		r.config.Log.Info("Reduced checks to tags", "tags", r.config.Tags, "count", set.Count())
	}

	if r.config.ScriptFile != "" {
		if err := set.SetScript(r.config.ScriptFile); err != nil {
			metrics.RecordErrorDetails("script failed", err)
			return NewRuntimeError(err)
		}
	}

	result := set.Run(ctx, r.provider)
	r.result = result

	stats := summarize(result)
	r.printResultsTable(result, stats)

	status := overallStatus(stats)
	for _, record := range result.Records {
		metrics.RecordCheck(result.RunID, record.Name, payloadStatus(record.Payload))
	}
	metrics.RecordRun(result.RunID, status, stats.Total, stats.Passed, stats.Failed, result.Duration)
	r.config.Log.Info("reconbf finished", "run_id", result.RunID, "status", status)

	if stats.Failed > 0 {
		return NewCheckFailureError(fmt.Sprintf("%d of %d checks failed", stats.Failed, stats.Total))
	}
	return nil
}

// Stop stops the reconbf service.
// Stop implements the cliapp.Lifecycle interface.
func (r *reconbf) Stop(ctx context.Context) error {
	r.running.Store(false)
	r.config.Log.Info("reconbf stopped")
	return nil
}

// Stopped returns true if the reconbf service is stopped.
// Stopped implements the cliapp.Lifecycle interface.
func (r *reconbf) Stopped() bool {
	return !r.running.Load()
}

// Result returns the aggregate of the last run.
func (r *reconbf) Result() *types.RunResult {
	return r.result
}

// summarize derives run statistics from the record payloads. Group payloads
// contribute one count per sub-outcome.
func summarize(result *types.RunResult) types.RunStats {
	var stats types.RunStats
	for _, record := range result.Records {
		switch payload := record.Payload.(type) {
		case types.Result:
			countStatus(&stats, payload.Status)
		case types.GroupResult:
			for _, sub := range payload {
				countStatus(&stats, sub.Result.Status)
			}
		default:
			// opaque payloads count toward the total only
			stats.Total++
		}
	}
	return stats
}

func countStatus(stats *types.RunStats, status string) {
	stats.Total++
	switch status {
	case types.StatusPass:
		stats.Passed++
	case types.StatusFail:
		stats.Failed++
	case types.StatusSkip:
		stats.Skipped++
	}
}

// overallStatus reduces run statistics to a single status string.
func overallStatus(stats types.RunStats) string {
	switch {
	case stats.Failed > 0:
		return types.StatusFail
	case stats.Passed == 0 && stats.Skipped > 0:
		return types.StatusSkip
	default:
		return types.StatusPass
	}
}

// payloadStatus reduces a record payload to a single status string for
// metrics. Unknown payload shapes count as a pass: the check chose to report
// something and did not fail.
func payloadStatus(payload interface{}) string {
	switch p := payload.(type) {
	case types.Result:
		return p.Status
	case types.GroupResult:
		var stats types.RunStats
		for _, sub := range p {
			countStatus(&stats, sub.Result.Status)
		}
		return overallStatus(stats)
	default:
		return types.StatusPass
	}
}

// printResultsTable prints the results of the check run to the console.
func (r *reconbf) printResultsTable(result *types.RunResult, stats types.RunStats) {
	r.config.Log.Info("Printing results...")
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle(fmt.Sprintf("reconbf Results (%s)", formatDuration(result.Duration)))

	// Configure columns
	t.AppendHeader(table.Row{
		"Type", "ID", "Status", "Notes",
	})

	// Set column configurations for better readability
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Type", AutoMerge: true},
		{Name: "ID", WidthMax: 50},
		{Name: "Status", Align: text.AlignLeft},
		{Name: "Notes", WidthMax: 60},
	})

	for _, record := range result.Records {
		switch payload := record.Payload.(type) {
		case types.Result:
			t.AppendRow(table.Row{
				"Check",
				record.Name,
				getResultString(payload.Status),
				payload.Notes,
			})
		case types.GroupResult:
			t.AppendRow(table.Row{
				"Group",
				record.Name,
				getResultString(payloadStatus(payload)),
				"",
			})
			for i, sub := range payload {
				prefix := "├──"
				if i == len(payload)-1 {
					prefix = "└──"
				}
				t.AppendRow(table.Row{
					"Check",
					fmt.Sprintf("%s %s", prefix, sub.Name),
					getResultString(sub.Result.Status),
					sub.Result.Notes,
				})
			}
		default:
			t.AppendRow(table.Row{
				"Check",
				record.Name,
				"·",
				fmt.Sprintf("%v", payload),
			})
		}
	}

	// Update the table style setting based on the overall status
	switch overallStatus(stats) {
	case types.StatusPass:
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	case types.StatusSkip:
		t.SetStyle(table.StyleColoredBlackOnYellowWhite)
	default:
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	}

	// Add summary footer
	t.AppendFooter(table.Row{
		"TOTAL",
		fmt.Sprintf("%d passed, %d failed, %d skipped", stats.Passed, stats.Failed, stats.Skipped),
		getResultString(overallStatus(stats)),
		"",
	})

	t.Render()
}

// getResultString returns a colored string representing the check status
func getResultString(status string) string {
	switch status {
	case types.StatusPass:
		return "✓ pass"
	case types.StatusSkip:
		return "- skip"
	default:
		return "✗ fail"
	}
}

// Helper function to format duration to seconds with 1 decimal place
func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}
