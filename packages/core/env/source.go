package env

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/apirunner/apirunner/packages/builtin"
	"github.com/apirunner/apirunner/packages/core/errs"
	"github.com/apirunner/apirunner/packages/core/eval"
	"github.com/apirunner/apirunner/packages/core/loader"
)

// VarsFileName is the per-directory variable binding file consulted by
// DirSource.
const VarsFileName = "vars.yaml"

// DirSource resolves bindings by directory: starting from the directory
// of the file under evaluation and walking upward to the project root,
// variables come from the first vars.yaml defining the name and functions
// from the closest host-registered function table.
type DirSource struct {
	mu    sync.RWMutex
	root  string
	funcs map[string]map[string]builtin.Func
}

var _ eval.Source = (*DirSource)(nil)

// NewDirSource returns a source whose upward walk stops at root.
func NewDirSource(root string) *DirSource {
	return &DirSource{
		root:  filepath.Clean(root),
		funcs: make(map[string]map[string]builtin.Func),
	}
}

// RegisterFunctions binds a function table to dir. Files in dir and its
// subdirectories resolve these names after built-ins.
func (s *DirSource) RegisterFunctions(dir string, funcs map[string]builtin.Func) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dir = filepath.Clean(dir)
	table, ok := s.funcs[dir]
	if !ok {
		table = make(map[string]builtin.Func, len(funcs))
		s.funcs[dir] = table
	}
	for name, fn := range funcs {
		table[name] = fn
	}
}

func (s *DirSource) LookupVariable(contextPath, name string) (any, error) {
	for _, dir := range s.walkUp(contextPath) {
		path := filepath.Join(dir, VarsFileName)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		content, err := loader.LoadFile(path)
		if err != nil {
			return nil, err
		}
		vars, ok := content.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s is not a mapping", errs.ErrFileFormat, path)
		}
		if v, ok := vars[name]; ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", errs.ErrVariableNotFound, name)
}

func (s *DirSource) LookupFunction(contextPath, name string) (builtin.Func, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, dir := range s.walkUp(contextPath) {
		if fn, ok := s.funcs[dir][name]; ok {
			return fn, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", errs.ErrFunctionNotFound, name)
}

// walkUp lists the directories from contextPath's directory up to and
// including the source root. A context outside the root yields only its
// own directory.
func (s *DirSource) walkUp(contextPath string) []string {
	dir := filepath.Dir(filepath.Clean(contextPath))
	var dirs []string
	for {
		dirs = append(dirs, dir)
		if dir == s.root {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return dirs
}
