package cmd

import (
	"fmt"
	"os"

	"github.com/apirunner/apirunner/packages/core/config"
	"github.com/apirunner/apirunner/packages/core/env"
	"github.com/apirunner/apirunner/packages/core/eval"
	"github.com/apirunner/apirunner/packages/core/params"
	"github.com/apirunner/apirunner/packages/core/registry"
)

// project is the loaded state every command works from: the project
// root, its effective configuration, and a registry with all api and
// suite definitions loaded.
type project struct {
	root     string
	config   *config.Config
	registry *registry.Registry
}

// loadProject locates the project root (the working directory), applies
// the config file and the global flags, loads the .env file, and loads
// every definition the project declares.
func loadProject() (*project, error) {
	root, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(root, configFlag)
	if err != nil {
		return nil, fmt.Errorf("cannot load config: %w", err)
	}

	envFile := cfg.EnvFile
	if envFileFlag != "" {
		envFile = envFileFlag
	}
	if envFile != "" {
		if _, err := env.LoadAndExportDotEnv(config.ResolveDir(root, envFile)); err != nil {
			return nil, err
		}
	} else if _, err := env.LoadDefaultDotEnv(root); err != nil {
		return nil, err
	}

	r := registry.New(root)
	r.SetAPIDir(config.ResolveDir(root, cfg.APIDir))
	r.SetSuiteDir(config.ResolveDir(root, cfg.SuiteDir))
	r.SetWarnFunc(func(format string, args ...any) {
		fmt.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
	})

	if err := r.LoadDependencies(); err != nil {
		return nil, err
	}

	return &project{root: root, config: cfg, registry: r}, nil
}

// newEvaluator builds an evaluator for content originating from path,
// seeded with the project-wide variables, the prefixed system
// environment, and the per-directory binding source.
func (p *project) newEvaluator(path string) *eval.Evaluator {
	ev := eval.New(path)
	if p.config.EnvPrefix != "" {
		ev.SetVariables(env.LoadSystemEnv(p.config.EnvPrefix))
	}
	ev.SetVariables(p.config.Variables)
	ev.SetSource(env.NewDirSource(p.root))
	return ev
}

// expandParameters replaces a testset's parameters config, when present,
// with the concrete cartesian-product rows it describes.
func (p *project) expandParameters(ts *registry.Testset) error {
	raw, ok := ts.Config["parameters"].([]any)
	if !ok {
		return nil
	}

	axes := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		axis, ok := item.(map[string]any)
		if !ok {
			return fmt.Errorf("parameters must be a list of single-name axes (in %v)", ts.Config["path"])
		}
		axes = append(axes, axis)
	}

	path, _ := ts.Config["path"].(string)
	rows, err := params.Expand(axes, p.newEvaluator(path))
	if err != nil {
		return fmt.Errorf("%w (in %s)", err, path)
	}
	ts.Config["parameters"] = rows
	return nil
}
