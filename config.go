package reconbf

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/mcpeak/reconbf/flags"
)

type Config struct {
	// Discovery config
	TestDir     string
	FilePattern string
	FuncPrefix  string

	// Selection config
	Tags       []string
	ScriptFile string

	// Structured config resolved for checks that take config
	ConfigFile string

	Log log.Logger
}

// NewConfig creates a new Config instance
func NewConfig(ctx *cli.Context, log log.Logger) (*Config, error) {
	// Parse flags
	if err := flags.CheckRequired(ctx); err != nil {
		return nil, fmt.Errorf("missing required flags: %w", err)
	}
	testDir := ctx.String(flags.TestDir.Name)
	if testDir == "" {
		return nil, errors.New("check directory is required")
	}

	// Get absolute paths
	absTestDir, err := filepath.Abs(testDir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for check dir: %w", err)
	}

	scriptFile := ctx.String(flags.ScriptFile.Name)
	if scriptFile != "" {
		if scriptFile, err = filepath.Abs(scriptFile); err != nil {
			return nil, fmt.Errorf("failed to get absolute path for script file: %w", err)
		}
	}

	configFile := ctx.String(flags.ConfigFile.Name)
	if configFile != "" {
		if configFile, err = filepath.Abs(configFile); err != nil {
			return nil, fmt.Errorf("failed to get absolute path for config file: %w", err)
		}
	}

	return &Config{
		TestDir:     absTestDir,
		FilePattern: ctx.String(flags.FilePattern.Name),
		FuncPrefix:  ctx.String(flags.FuncPrefix.Name),
		Tags:        ctx.StringSlice(flags.Tags.Name),
		ScriptFile:  scriptFile,
		ConfigFile:  configFile,
		Log:         log,
	}, nil
}
