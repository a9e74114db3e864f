package flags

import (
	"fmt"

	"github.com/urfave/cli/v2"

	opservice "github.com/ethereum-optimism/optimism/op-service"
	oplog "github.com/ethereum-optimism/optimism/op-service/log"

	"github.com/mcpeak/reconbf/discovery"
)

const EnvVarPrefix = "RECONBF"

var (
	TestDir = &cli.StringFlag{
		Name:     "testdir",
		Value:    "",
		Required: true,
		EnvVars:  opservice.PrefixEnvVar(EnvVarPrefix, "TESTDIR"),
		Usage:    "Path to the directory from which to discover checks",
	}
	ConfigFile = &cli.StringFlag{
		Name:    "config",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "CONFIG"),
		Usage:   "Path to the structured config file (eg. 'config.yaml') resolved for checks that take config",
	}
	ScriptFile = &cli.StringFlag{
		Name:    "script",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "SCRIPT"),
		Usage:   "Path to a script file naming the checks to run, one 'module.name' per line",
	}
	Tags = &cli.StringSliceFlag{
		Name:    "tags",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "TAGS"),
		Usage:   "Only run checks carrying at least one of these tags",
	}
	FilePattern = &cli.StringFlag{
		Name:    "file-pattern",
		Value:   discovery.DefaultFilePattern,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "FILE_PATTERN"),
		Usage:   "Glob a file in the check directory must match to be scanned",
	}
	FuncPrefix = &cli.StringFlag{
		Name:    "func-prefix",
		Value:   discovery.DefaultFuncPrefix,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "FUNC_PREFIX"),
		Usage:   "Prefix a function name must carry to be collected as a check",
	}
)

var requiredFlags = []cli.Flag{
	TestDir,
}

var optionalFlags = []cli.Flag{
	ConfigFile,
	ScriptFile,
	Tags,
	FilePattern,
	FuncPrefix,
}

var Flags []cli.Flag

func init() {
	optionalFlags = append(optionalFlags, oplog.CLIFlags(EnvVarPrefix)...)

	Flags = append(requiredFlags, optionalFlags...)
}

func CheckRequired(ctx *cli.Context) error {
	for _, f := range requiredFlags {
		if !ctx.IsSet(f.Names()[0]) {
			return fmt.Errorf("flag %s is required", f.Names()[0])
		}
	}
	return nil
}
