package types

// TestUnit is one discovered, invocable check. Units are created by discovery
// (or constructed directly in tests) and never mutated afterward.
type TestUnit struct {
	// Name is the function identifier, unique within its module.
	Name string
	// Module is the identifier of the owning source file, sans extension.
	Module string
	// Fn is the code executed for this unit.
	Fn CheckFunc
	// Meta holds the descriptors attached at registration time.
	Meta Metadata
}

// CanonicalName is the module-qualified identity used for scripting and
// de-duplication.
func (u TestUnit) CanonicalName() string {
	return u.Module + "." + u.Name
}
