package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apirunner/apirunner/packages/core/errs"
	"github.com/apirunner/apirunner/packages/core/loader"
)

// LoadTestFile assembles one testcase or suite file into a Testset.
// Blocks apply in file order: config blocks merge into the testset
// config, api references resolve and take the block's own fields as
// overrides, suite references splice their already-resolved testcases,
// and plain test blocks append verbatim. Unknown block keys are skipped
// with a warning.
func (r *Registry) LoadTestFile(path string) (*Testset, error) {
	content, err := loader.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err := loader.ValidateTestFile(content); err != nil {
		return nil, fmt.Errorf("%w: %s", err, path)
	}

	testset := &Testset{
		Config: map[string]any{"path": path},
	}

	for _, item := range content.([]any) {
		// schema guarantees a single-key mapping with a mapping value
		for key, blockAny := range item.(map[string]any) {
			block := blockAny.(map[string]any)

			switch key {
			case "config":
				for k, v := range block {
					testset.Config[k] = v
				}

			case "test":
				if call, ok := block["api"].(string); ok {
					resolved, err := r.ResolveAPI(call)
					if err != nil {
						return nil, fmt.Errorf("%w (in %s)", err, path)
					}
					testset.Testcases = append(testset.Testcases, overrideBlock(resolved, block))
					continue
				}
				if call, ok := block["suite"].(string); ok {
					suite, err := r.ResolveSuite(call)
					if err != nil {
						return nil, fmt.Errorf("%w (in %s)", err, path)
					}
					testset.Testcases = append(testset.Testcases, suite.Testcases...)
					continue
				}
				testset.Testcases = append(testset.Testcases, block)

			default:
				r.warn("unexpected block key: %s. block key should only be 'config' or 'test'", key)
			}
		}
	}

	return testset, nil
}

// overrideBlock merges a resolved definition with the referencing test
// block; block fields win field-by-field.
func overrideBlock(def, block map[string]any) map[string]any {
	merged := make(map[string]any, len(def)+len(block))
	for k, v := range def {
		merged[k] = v
	}
	for k, v := range block {
		merged[k] = v
	}
	return merged
}

// LoadTestcases resolves path into testsets. Relative paths anchor at the
// registry root; directories recurse over candidate files. Results cache
// per absolute path, so repeated loads are idempotent and skip file IO.
// A file whose content is malformed contributes zero testsets instead of
// failing the batch; every other error propagates.
func (r *Registry) LoadTestcases(path string) ([]*Testset, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.root, path)
	}
	path = filepath.Clean(path)

	r.mu.RLock()
	cached, ok := r.cache[path]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrFileNotFound, path)
	}

	var testsets []*Testset
	if info.IsDir() {
		for _, file := range loader.ListFiles(path, true) {
			loaded, err := r.LoadTestcases(file)
			if err != nil {
				return nil, err
			}
			testsets = append(testsets, loaded...)
		}
	} else {
		testset, err := r.LoadTestFile(path)
		switch {
		case errors.Is(err, errs.ErrFileFormat):
			// a malformed file contributes nothing to the batch
		case err != nil:
			return nil, err
		case len(testset.Testcases) > 0:
			testsets = append(testsets, testset)
		}
	}

	r.mu.Lock()
	if existing, ok := r.cache[path]; ok {
		testsets = existing
	} else {
		r.cache[path] = testsets
	}
	r.mu.Unlock()
	return testsets, nil
}
