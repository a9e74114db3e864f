// package discovery scans a directory for check source files and builds the
// ordered set of test units they define.
//
// The package uses the go/ast package to enumerate the top-level functions of
// each matching file; the callables themselves are resolved from the registry
// the owning check package registered into.
package discovery

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"

	"github.com/mcpeak/reconbf/registry"
	"github.com/mcpeak/reconbf/types"
)

const (
	// DefaultFilePattern selects which files in a check directory are scanned.
	DefaultFilePattern = "test*.go"
	// DefaultFuncPrefix selects which top-level functions become checks.
	// Helper functions without the prefix are intentionally excluded.
	DefaultFuncPrefix = "Test"
)

// SortPolicy indicates the way discovered checks are sorted.
type SortPolicy int

const (
	// SortModuleAlphabetic orders by module name first, then function name.
	// This is currently the only policy; others may be added.
	SortModuleAlphabetic SortPolicy = iota
)

// Config controls a discovery pass over a single flat directory.
type Config struct {
	Dir         string
	FilePattern string // defaults to DefaultFilePattern
	FuncPrefix  string // defaults to DefaultFuncPrefix
	Registry    *registry.Registry
	Log         log.Logger
}

// DiscoverChecks scans cfg.Dir for files matching the pattern and returns one
// TestUnit per registered function whose name carries the prefix, sorted
// module-alphabetically. It does not recurse into subdirectories.
//
// A file that cannot be parsed, a module without a registration, a function
// that cannot be resolved, and a duplicate canonical name are all fatal:
// discovery stops at the first one and returns the error.
func DiscoverChecks(cfg Config) ([]types.TestUnit, error) {
	if cfg.Registry == nil {
		return nil, errors.New("registry is required")
	}
	if cfg.FilePattern == "" {
		cfg.FilePattern = DefaultFilePattern
	}
	if cfg.FuncPrefix == "" {
		cfg.FuncPrefix = DefaultFuncPrefix
	}
	if cfg.Log == nil {
		cfg.Log = log.Root()
	}

	files, err := matchFiles(cfg.Dir, cfg.FilePattern)
	if err != nil {
		return nil, err
	}

	scope := filepath.Base(filepath.Clean(cfg.Dir))
	seen := make(map[string]struct{})
	var units []types.TestUnit

	fset := token.NewFileSet()
	for _, file := range files {
		moduleName := strings.TrimSuffix(file, filepath.Ext(file))
		cfg.Log.Debug("Importing checks from file", "module", scope+"."+moduleName)

		parsed, err := parser.ParseFile(fset, filepath.Join(cfg.Dir, file), nil, parser.SkipObjectResolution)
		if err != nil {
			cfg.Log.Error("Could not load check module", "module", scope+"."+moduleName, "err", err)
			return nil, &LoadError{Scope: scope, Module: moduleName, Err: err}
		}

		mod, ok := cfg.Registry.Module(scope, moduleName)
		if !ok {
			err := errors.Errorf("module %s.%s is not registered", scope, moduleName)
			cfg.Log.Error("Could not load check module", "module", scope+"."+moduleName, "err", err)
			return nil, &LoadError{Scope: scope, Module: moduleName, Err: err}
		}

		for _, fnName := range checkFuncNames(parsed, cfg.FuncPrefix) {
			check, ok := mod.Resolve(fnName)
			if !ok {
				// shouldn't happen when the module registers every check it defines
				cfg.Log.Error("Could not locate check function", "function", fnName, "module", scope+"."+moduleName)
				return nil, &MissingFunctionError{Scope: scope, Module: moduleName, Name: fnName}
			}

			unit := types.TestUnit{
				Name:   check.Name,
				Module: moduleName,
				Fn:     check.Fn,
				Meta:   check.Meta,
			}
			if _, exists := seen[unit.CanonicalName()]; exists {
				return nil, errors.Errorf("duplicate canonical name found: %s", unit.CanonicalName())
			}
			seen[unit.CanonicalName()] = struct{}{}
			units = append(units, unit)
		}
	}

	sortUnits(units, SortModuleAlphabetic)
	return units, nil
}

// matchFiles enumerates the directory entries matching the pattern, in
// lexical order. Subdirectories are skipped.
func matchFiles(dir, pattern string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read check directory %s", dir)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		matched, err := filepath.Match(pattern, entry.Name())
		if err != nil {
			return nil, errors.Wrapf(err, "invalid file pattern %q", pattern)
		}
		if matched {
			files = append(files, entry.Name())
		}
	}
	return files, nil
}

// checkFuncNames returns the names of top-level plain functions carrying the
// prefix. Methods and non-function declarations are excluded.
func checkFuncNames(file *ast.File, prefix string) []string {
	var names []string
	for _, decl := range file.Decls {
		funcDecl, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}
		if funcDecl.Recv != nil {
			continue
		}
		if strings.HasPrefix(funcDecl.Name.Name, prefix) {
			names = append(names, funcDecl.Name.Name)
		}
	}
	return names
}

func sortUnits(units []types.TestUnit, policy SortPolicy) {
	// other sort policies might be supported in the future...
	if policy == SortModuleAlphabetic {
		sort.SliceStable(units, func(i, j int) bool {
			return units[i].CanonicalName() < units[j].CanonicalName()
		})
	}
}
