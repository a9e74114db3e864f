// Package testset implements the working set of checks for one run: populated
// by discovery, optionally narrowed by tags or replaced by a script, then
// executed sequentially with per-check fault isolation.
package testset

import (
	"bufio"
	"context"
	"os"
	"reflect"
	"runtime/debug"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"

	"github.com/mcpeak/reconbf/conf"
	"github.com/mcpeak/reconbf/discovery"
	"github.com/mcpeak/reconbf/types"
)

// TestSet is an ordered sequence of test units. Order is the execution order.
// A TestSet is owned by a single goroutine; no locking is provided.
type TestSet struct {
	log   log.Logger
	tests []types.TestUnit
}

// New creates an empty test set.
func New(logger log.Logger) *TestSet {
	if logger == nil {
		logger = log.Root()
	}
	return &TestSet{log: logger}
}

// Copy creates a new set sharing the same underlying test units. Units are
// immutable once discovered, so sharing is safe.
func Copy(other *TestSet) *TestSet {
	s := New(other.log)
	s.tests = append(s.tests, other.tests...)
	return s
}

// Count returns the number of units currently in the set.
func (s *TestSet) Count() int {
	return len(s.tests)
}

// Tests returns the units in execution order.
func (s *TestSet) Tests() []types.TestUnit {
	return s.tests
}

// Add appends units to the set. Used by tests and embedding callers that
// construct units directly.
func (s *TestSet) Add(units ...types.TestUnit) {
	s.tests = append(s.tests, units...)
}

// AddFromDirectory populates the set from a discovery pass over a directory.
// Discovery failures are fatal and leave the set unchanged.
func (s *TestSet) AddFromDirectory(cfg discovery.Config) error {
	if cfg.Log == nil {
		cfg.Log = s.log
	}
	units, err := discovery.DiscoverChecks(cfg)
	if err != nil {
		return err
	}
	s.tests = units
	return nil
}

// ReduceToTags filters the set to units whose tag set intersects the
// requested tags, preserving relative order. An empty request is a no-op:
// it means "unfiltered", not "nothing". The result may be empty.
func (s *TestSet) ReduceToTags(tags []string) {
	if len(tags) == 0 {
		return
	}

	trimmed := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed = append(trimmed, strings.TrimSpace(tag))
	}

	var kept []types.TestUnit
	for _, unit := range s.tests {
		if unit.Meta.HasAnyTag(trimmed) {
			kept = append(kept, unit)
		}
	}
	s.tests = kept
}

// SetScript replaces the set's contents and order with the checks named in
// the script file, one canonical name (module.name) per line, in file order,
// duplicates included. Blank lines are ignored. An unreadable file, a line
// that is not exactly module.name, or a name not present in the current set
// are fatal; on any fatal error the set is left unchanged.
func (s *TestSet) SetScript(path string) error {
	f, err := os.Open(path)
	if err != nil {
		s.log.Error("Unable to open script file", "script", path, "err", err)
		return &ScriptIOError{Path: path, Err: err}
	}
	defer f.Close()

	var scripted []types.TestUnit
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Split(line, ".")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			s.log.Error("Malformed script line", "script", path, "line", line)
			return &MalformedScriptLineError{Path: path, Line: line}
		}

		unit, ok := s.findByCanonicalName(parts[0], parts[1])
		if !ok {
			s.log.Error("Unable to find check", "script", path, "check", line)
			return &UnresolvedScriptEntryError{Path: path, Name: line}
		}
		scripted = append(scripted, unit)
	}
	if err := scanner.Err(); err != nil {
		s.log.Error("Unable to read script file", "script", path, "err", err)
		return &ScriptIOError{Path: path, Err: err}
	}

	s.log.Info("Loaded script", "script", path, "checks", len(scripted))
	s.tests = scripted
	return nil
}

// findByCanonicalName finds a unit by module and function name.
func (s *TestSet) findByCanonicalName(module, name string) (types.TestUnit, bool) {
	for _, unit := range s.tests {
		if unit.Module == module && unit.Name == name {
			return unit, true
		}
	}
	return types.TestUnit{}, false
}

// Run executes every unit in the set, in order, exactly once each, and
// returns the aggregate of the records produced. The set is not mutated.
//
// Recoverable conditions are contained here: a unit whose config cannot be
// resolved is skipped, and a unit that returns an error or panics contributes
// no record; in both cases the run continues. Run never fails as a whole.
func (s *TestSet) Run(ctx context.Context, provider conf.Provider) *types.RunResult {
	start := time.Now()
	result := &types.RunResult{
		RunID: uuid.New().String(),
	}

	for _, unit := range s.tests {
		name := unit.CanonicalName()

		var cfg conf.Value
		if unit.Meta.TakesConfig && provider != nil {
			value, err := provider.Get("modules." + name)
			if err != nil {
				s.log.Error("Check requires config but config could not be found, skipping", "check", name, "err", err)
				continue
			}
			cfg = value
		}

		payload := s.invoke(ctx, unit, cfg)
		if emptyPayload(payload) {
			continue
		}
		result.Records = append(result.Records, types.ResultRecord{
			Name:    name,
			Payload: payload,
		})
	}

	result.Duration = time.Since(start)
	return result
}

// emptyPayload reports whether a check produced no output. A nil interface,
// a typed nil, and a group with no sub-outcomes all count as no output.
func emptyPayload(payload interface{}) bool {
	if payload == nil {
		return true
	}
	if group, ok := payload.(types.GroupResult); ok {
		return len(group) == 0
	}
	switch v := reflect.ValueOf(payload); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// invoke runs a single check, containing any fault it raises. A faulting
// check produces no payload.
func (s *TestSet) invoke(ctx context.Context, unit types.TestUnit, cfg conf.Value) (payload interface{}) {
	name := unit.CanonicalName()
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Panic in check", "check", name, "panic", r, "stack", string(debug.Stack()))
			payload = nil
		}
	}()

	s.log.Debug("Running check", "check", name)
	result, err := unit.Fn(ctx, s.log, cfg)
	if err != nil {
		s.log.Error("Exception in check", "check", name, "err", err)
		return nil
	}
	return result
}
