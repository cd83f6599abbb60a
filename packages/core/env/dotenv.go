package env

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/apirunner/apirunner/packages/core/errs"
)

// LoadDotEnv parses a .env file and returns its key-value pairs without
// touching the process environment.
func LoadDotEnv(path string) (map[string]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: env file %s", errs.ErrFileNotFound, path)
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid env file %s: %v", errs.ErrFileFormat, path, err)
	}
	return vars, nil
}

// LoadAndExportDotEnv parses a .env file and exports its variables to the
// process environment, so ${env(NAME)} lookups and config files see them.
// Variables already present in the environment are left alone.
func LoadAndExportDotEnv(path string) (map[string]string, error) {
	vars, err := LoadDotEnv(path)
	if err != nil {
		return nil, err
	}
	for k, v := range vars {
		if os.Getenv(k) == "" {
			_ = os.Setenv(k, v)
		}
	}
	return vars, nil
}

// LoadDefaultDotEnv loads dir/.env when present. A missing default file
// is not an error.
func LoadDefaultDotEnv(dir string) (map[string]string, error) {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}
	return LoadAndExportDotEnv(path)
}

// LoadSystemEnv harvests process environment variables as bindings. With
// a prefix only matching names are kept, with the prefix stripped.
func LoadSystemEnv(prefix string) map[string]any {
	result := make(map[string]any)
	for _, e := range os.Environ() {
		for i := 0; i < len(e); i++ {
			if e[i] == '=' {
				key := e[:i]
				value := e[i+1:]
				if prefix == "" {
					result[key] = value
				} else if len(key) > len(prefix) && key[:len(prefix)] == prefix {
					result[key[len(prefix):]] = value
				}
				break
			}
		}
	}
	return result
}
