package checks

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/log"

	"github.com/mcpeak/reconbf/conf"
	"github.com/mcpeak/reconbf/registry"
	"github.com/mcpeak/reconbf/types"
)

const defaultSSHDConfig = "/etc/ssh/sshd_config"

var sshModule = registry.Module{
	Name: "test_ssh",
	Checks: []registry.Check{
		{
			Name: "TestSSHConfigPerms",
			Fn:   TestSSHConfigPerms,
			Meta: types.NewMetadata(
				types.WithTags("ssh", "config"),
				types.WithExplanation("A world-readable or group-writable sshd_config lets local "+
					"users read or change the SSH daemon's security posture."),
			),
		},
		{
			Name: "TestSSHDirectives",
			Fn:   TestSSHDirectives,
			Meta: types.NewMetadata(
				types.WithTags("ssh"),
				types.RequiresConfig(),
				types.GroupCheck(),
				types.WithExplanation("Weak sshd directives such as PermitRootLogin or "+
					"PasswordAuthentication are a common remote entry point."),
			),
		},
	},
}

// TestSSHConfigPerms verifies that sshd_config is owned by root and not
// accessible to group or other.
func TestSSHConfigPerms(ctx context.Context, logger log.Logger, cfg conf.Value) (interface{}, error) {
	info, err := os.Stat(defaultSSHDConfig)
	if os.IsNotExist(err) {
		logger.Debug("sshd_config not present, skipping", "path", defaultSSHDConfig)
		return types.Result{Status: types.StatusSkip, Notes: "sshd_config not present"}, nil
	}
	if err != nil {
		return nil, err
	}

	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		return types.Result{
			Status: types.StatusFail,
			Notes:  fmt.Sprintf("%s has mode %04o, expected no group/other access", defaultSSHDConfig, perm),
		}, nil
	}
	return types.Result{Status: types.StatusPass}, nil
}

// TestSSHDirectives compares sshd_config directives against expected values
// from config. The config value is a mapping of directive name to required
// value, optionally with a "config_path" entry overriding the default path.
func TestSSHDirectives(ctx context.Context, logger log.Logger, cfg conf.Value) (interface{}, error) {
	expected, ok := cfg.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("expected a mapping of directives, got %T", cfg)
	}

	path := defaultSSHDConfig
	if override, ok := expected["config_path"].(string); ok {
		path = override
	}

	directives, err := readSSHDirectives(path)
	if os.IsNotExist(err) {
		logger.Debug("sshd_config not present, skipping", "path", path)
		return types.Result{Status: types.StatusSkip, Notes: "sshd_config not present"}, nil
	}
	if err != nil {
		return nil, err
	}

	var group types.GroupResult
	for directive, want := range expected {
		if directive == "config_path" {
			continue
		}
		wantValue := fmt.Sprintf("%v", want)

		result := types.Result{Status: types.StatusPass}
		got, present := directives[strings.ToLower(directive)]
		switch {
		case !present:
			result = types.Result{
				Status: types.StatusFail,
				Notes:  fmt.Sprintf("directive not set, expected %q", wantValue),
			}
		case !strings.EqualFold(got, wantValue):
			result = types.Result{
				Status: types.StatusFail,
				Notes:  fmt.Sprintf("set to %q, expected %q", got, wantValue),
			}
		}
		group = append(group, types.GroupedResult{Name: directive, Result: result})
	}
	return group, nil
}

// readSSHDirectives parses sshd_config into a lowercase directive → value
// map. Later occurrences win, matching sshd's first-match semantics closely
// enough for auditing defaults.
func readSSHDirectives(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	directives := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		directives[strings.ToLower(fields[0])] = strings.Join(fields[1:], " ")
	}
	return directives, scanner.Err()
}
