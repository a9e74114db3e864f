// Package checks ships reconbf's built-in host compliance checks. Every
// test_*.go file in this directory is one check module: it registers a static
// descriptor per check function, and discovery collects those functions when
// the binary is pointed at this directory.
package checks

import (
	"github.com/mcpeak/reconbf/registry"
)

// Scope is the registration scope for this directory. It must match the
// directory's base name so discovery can resolve the modules it finds here.
const Scope = "checks"

// Register adds every built-in check module to the registry.
func Register(r *registry.Registry) error {
	for _, mod := range []registry.Module{
		sshModule,
		sysctlModule,
		permsModule,
	} {
		if err := r.Register(Scope, mod); err != nil {
			return err
		}
	}
	return nil
}
