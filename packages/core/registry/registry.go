package registry

import (
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"sync"

	"github.com/apirunner/apirunner/packages/core/errs"
	"github.com/apirunner/apirunner/packages/core/loader"
	"github.com/apirunner/apirunner/packages/core/parser"
)

// APIDefinition is one reusable api call definition, keyed by the name of
// its def call signature. Immutable after load.
type APIDefinition struct {
	Meta    *parser.FunctionMeta
	Content map[string]any
}

// SuiteDefinition is one reusable, fully assembled test suite.
type SuiteDefinition struct {
	Meta      *parser.FunctionMeta
	Config    map[string]any
	Testcases []map[string]any
}

// Testset is one resolved testcase file: merged config plus the ordered,
// fully expanded test blocks.
type Testset struct {
	Config    map[string]any
	Testcases []map[string]any
}

// WarnFunc receives non-fatal load warnings.
type WarnFunc func(format string, args ...any)

// Registry holds the definition stores and the per-path testset cache.
type Registry struct {
	mu         sync.RWMutex
	root       string
	apiDir     string
	suiteDir   string
	apis       map[string]*APIDefinition
	suites     map[string]*SuiteDefinition
	suiteFiles map[string]string
	resolving  map[string]bool
	cache      map[string][]*Testset
	warn       WarnFunc
}

// New returns a registry rooted at root. Definitions default to
// root/tests/api and root/tests/suite.
func New(root string) *Registry {
	return &Registry{
		root:       root,
		apiDir:     filepath.Join(root, "tests", "api"),
		suiteDir:   filepath.Join(root, "tests", "suite"),
		apis:       make(map[string]*APIDefinition),
		suites:     make(map[string]*SuiteDefinition),
		suiteFiles: make(map[string]string),
		resolving:  make(map[string]bool),
		cache:      make(map[string][]*Testset),
		warn:       log.Printf,
	}
}

// SetAPIDir overrides the api definition root.
func (r *Registry) SetAPIDir(dir string) {
	r.apiDir = dir
}

// SetSuiteDir overrides the suite definition root.
func (r *Registry) SetSuiteDir(dir string) {
	r.suiteDir = dir
}

// SetWarnFunc routes load warnings somewhere other than the standard
// logger.
func (r *Registry) SetWarnFunc(fn WarnFunc) {
	r.warn = fn
}

// LoadDependencies loads every api definition, then every suite
// definition. Suites may reference apis and other suites; apis never
// reference suites. Any structural error aborts the whole load.
func (r *Registry) LoadDependencies() error {
	for _, file := range loader.ListFiles(r.apiDir, true) {
		if err := r.loadAPIFile(file); err != nil {
			return err
		}
	}

	for _, file := range loader.ListFiles(r.suiteDir, true) {
		if err := r.registerSuiteFile(file); err != nil {
			return err
		}
	}

	// assemble in name order so failures are deterministic
	r.mu.RLock()
	names := make([]string, 0, len(r.suiteFiles))
	for name := range r.suiteFiles {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)

	for _, name := range names {
		if _, err := r.assembleSuite(name); err != nil {
			return err
		}
	}
	return nil
}

// loadAPIFile loads one api definition file: an ordered list of
// single-key {"api": {...}} entries, each carrying a def call signature.
func (r *Registry) loadAPIFile(path string) error {
	content, err := loader.LoadFile(path)
	if err != nil {
		return err
	}
	if err := loader.ValidateAPIFile(content); err != nil {
		return fmt.Errorf("%w: %s", err, path)
	}

	for _, item := range content.([]any) {
		apiDict := item.(map[string]any)["api"].(map[string]any)
		def := apiDict["def"].(string)

		meta, err := parser.ParseFunction(def)
		if err != nil {
			return fmt.Errorf("invalid def in %s: %w", path, err)
		}

		body := make(map[string]any, len(apiDict)-1)
		for k, v := range apiDict {
			if k != "def" {
				body[k] = v
			}
		}

		r.mu.Lock()
		if _, dup := r.apis[meta.Name]; dup {
			r.warn("API definition duplicated: %s", meta.Name)
		}
		r.apis[meta.Name] = &APIDefinition{Meta: meta, Content: body}
		r.mu.Unlock()
	}
	return nil
}

// registerSuiteFile records a suite file under its config.def name
// without assembling it; assembly happens lazily so suites can reference
// each other regardless of file order.
func (r *Registry) registerSuiteFile(path string) error {
	content, err := loader.LoadFile(path)
	if err != nil {
		return err
	}
	if err := loader.ValidateTestFile(content); err != nil {
		return fmt.Errorf("%w: %s", err, path)
	}

	def := ""
	for _, item := range content.([]any) {
		for key, blockAny := range item.(map[string]any) {
			if key != "config" {
				continue
			}
			if d, ok := blockAny.(map[string]any)["def"].(string); ok {
				def = d
			}
		}
	}
	if def == "" {
		return fmt.Errorf("%w: def missed in suite file: %s", errs.ErrParams, path)
	}

	meta, err := parser.ParseFunction(def)
	if err != nil {
		return fmt.Errorf("invalid def in %s: %w", path, err)
	}

	r.mu.Lock()
	if _, dup := r.suiteFiles[meta.Name]; dup {
		r.warn("suite definition duplicated: %s", meta.Name)
	}
	r.suiteFiles[meta.Name] = path
	r.mu.Unlock()
	return nil
}

// assembleSuite assembles the registered suite file for name, resolving
// its references through this registry. An in-progress set turns
// suite-reference cycles into an immediate error instead of unbounded
// recursion.
func (r *Registry) assembleSuite(name string) (*SuiteDefinition, error) {
	r.mu.Lock()
	if s, ok := r.suites[name]; ok {
		r.mu.Unlock()
		return s, nil
	}
	path, registered := r.suiteFiles[name]
	if !registered {
		r.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", errs.ErrSuiteNotFound, name)
	}
	if r.resolving[name] {
		r.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", errs.ErrCyclicReference, name)
	}
	r.resolving[name] = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		delete(r.resolving, name)
		r.mu.Unlock()
	}()

	testset, err := r.LoadTestFile(path)
	if err != nil {
		return nil, err
	}

	def, _ := testset.Config["def"].(string)
	meta, err := parser.ParseFunction(def)
	if err != nil {
		return nil, fmt.Errorf("invalid def in %s: %w", path, err)
	}

	suite := &SuiteDefinition{
		Meta:      meta,
		Config:    testset.Config,
		Testcases: testset.Testcases,
	}

	r.mu.Lock()
	r.suites[meta.Name] = suite
	r.mu.Unlock()
	return suite, nil
}
