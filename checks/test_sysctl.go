package checks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/log"

	"github.com/mcpeak/reconbf/conf"
	"github.com/mcpeak/reconbf/registry"
	"github.com/mcpeak/reconbf/types"
)

var sysctlModule = registry.Module{
	Name: "test_sysctl",
	Checks: []registry.Check{
		{
			Name: "TestASLR",
			Fn:   TestASLR,
			Meta: types.NewMetadata(
				types.WithTags("kernel"),
				types.WithExplanation("Full address space layout randomization makes memory "+
					"corruption exploits substantially harder."),
			),
		},
		{
			Name: "TestIPForward",
			Fn:   TestIPForward,
			Meta: types.NewMetadata(
				types.WithTags("kernel", "net"),
				types.WithExplanation("Hosts that are not routers should not forward IPv4 "+
					"packets between interfaces."),
			),
		},
	},
}

// TestASLR verifies that address space layout randomization is fully enabled.
func TestASLR(ctx context.Context, logger log.Logger, cfg conf.Value) (interface{}, error) {
	return sysctlEquals(logger, "kernel.randomize_va_space", "2")
}

// TestIPForward verifies that IPv4 forwarding is disabled.
func TestIPForward(ctx context.Context, logger log.Logger, cfg conf.Value) (interface{}, error) {
	return sysctlEquals(logger, "net.ipv4.ip_forward", "0")
}

// sysctlEquals reads a sysctl value from /proc/sys and compares it against
// the expected value. A missing entry is a skip, not a failure: the kernel
// may not expose the knob at all.
func sysctlEquals(logger log.Logger, name, want string) (interface{}, error) {
	path := filepath.Join("/proc/sys", strings.ReplaceAll(name, ".", "/"))
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logger.Debug("sysctl not present, skipping", "sysctl", name)
		return types.Result{Status: types.StatusSkip, Notes: fmt.Sprintf("%s not present", name)}, nil
	}
	if err != nil {
		return nil, err
	}

	got := strings.TrimSpace(string(data))
	if got != want {
		return types.Result{
			Status: types.StatusFail,
			Notes:  fmt.Sprintf("%s is %q, expected %q", name, got, want),
		}, nil
	}
	return types.Result{Status: types.StatusPass}, nil
}
