package checks

import (
	"context"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/log"

	"github.com/mcpeak/reconbf/conf"
	"github.com/mcpeak/reconbf/registry"
	"github.com/mcpeak/reconbf/types"
)

var permsModule = registry.Module{
	Name: "test_perms",
	Checks: []registry.Check{
		{
			Name: "TestSensitiveFilePerms",
			Fn:   TestSensitiveFilePerms,
			Meta: types.NewMetadata(
				types.WithTags("filesystem"),
				types.GroupCheck(),
				types.WithExplanation("Credential and account files readable or writable by "+
					"unprivileged users defeat local privilege separation."),
			),
		},
	},
}

// sensitiveFiles lists paths with the permission bits that must not be set.
var sensitiveFiles = []struct {
	path      string
	forbidden os.FileMode
}{
	{"/etc/shadow", 0o077},  // no group/other access
	{"/etc/gshadow", 0o077},
	{"/etc/passwd", 0o022}, // no group/other write
	{"/etc/group", 0o022},
}

// TestSensitiveFilePerms audits the permission bits of account and credential
// files, one sub-outcome per file.
func TestSensitiveFilePerms(ctx context.Context, logger log.Logger, cfg conf.Value) (interface{}, error) {
	var group types.GroupResult
	for _, file := range sensitiveFiles {
		result := types.Result{Status: types.StatusPass}

		info, err := os.Stat(file.path)
		switch {
		case os.IsNotExist(err):
			logger.Debug("file not present, skipping", "path", file.path)
			result = types.Result{Status: types.StatusSkip, Notes: "not present"}
		case err != nil:
			return nil, err
		default:
			if perm := info.Mode().Perm(); perm&file.forbidden != 0 {
				result = types.Result{
					Status: types.StatusFail,
					Notes:  fmt.Sprintf("mode %04o too permissive", perm),
				}
			}
		}
		group = append(group, types.GroupedResult{Name: file.path, Result: result})
	}
	return group, nil
}
