package discovery

import "fmt"

// LoadError is a fatal discovery failure: a check source file could not be
// loaded, either because it does not parse or because its module was never
// registered. Discovery aborts at the first LoadError.
type LoadError struct {
	Scope  string
	Module string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("could not load check module %s.%s: %v", e.Scope, e.Module, e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *LoadError) Unwrap() error {
	return e.Err
}

// MissingFunctionError is a fatal discovery failure: a function enumerated
// from a check file has no registration to resolve against. A well-formed
// check module registers every function its file defines.
type MissingFunctionError struct {
	Scope  string
	Module string
	Name   string
}

func (e *MissingFunctionError) Error() string {
	return fmt.Sprintf("could not locate check function %q in module %s.%s", e.Name, e.Scope, e.Module)
}
