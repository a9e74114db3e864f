// Package exitcodes defines the standard exit codes used by reconbf.
package exitcodes

// Exit code constants used by reconbf
// These constants define the exit codes that the application uses to indicate
// various states when it exits:
//
// * Success (0): Used when every executed check passes
// * CheckFailure (1): Used when one or more checks fail
// * RuntimeErr (2): Used for fatal conditions such as discovery or script errors
const (
	Success      = 0 // All checks pass
	CheckFailure = 1 // Check failures
	RuntimeErr   = 2 // Fatal runtime conditions
)
