package testset

import "fmt"

// ScriptIOError is a fatal script failure: the script file could not be
// opened or read.
type ScriptIOError struct {
	Path string
	Err  error
}

func (e *ScriptIOError) Error() string {
	return fmt.Sprintf("unable to read script file %s: %v", e.Path, e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *ScriptIOError) Unwrap() error {
	return e.Err
}

// MalformedScriptLineError is a fatal script failure: a line did not split
// into exactly a module and a check name. Line carries the offending raw
// text, whitespace-trimmed.
type MalformedScriptLineError struct {
	Path string
	Line string
}

func (e *MalformedScriptLineError) Error() string {
	return fmt.Sprintf("malformed script line %q in %s", e.Line, e.Path)
}

// UnresolvedScriptEntryError is a fatal script failure: a scripted canonical
// name does not exist in the current working set.
type UnresolvedScriptEntryError struct {
	Path string
	Name string
}

func (e *UnresolvedScriptEntryError) Error() string {
	return fmt.Sprintf("unable to find check %q named in script %s", e.Name, e.Path)
}
