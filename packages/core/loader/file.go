package loader

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/apirunner/apirunner/packages/core/errs"
)

// LoadFile decodes path into a generic sequence or mapping. The decoder
// is chosen by extension; unknown extensions return an empty sequence and
// log a warning instead of failing.
func LoadFile(path string) (any, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w: %s", errs.ErrFileNotFound, path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return loadJSONFile(path)
	case ".yaml", ".yml":
		return loadYAMLFile(path)
	case ".csv":
		return loadCSVFile(path)
	default:
		log.Printf("unsupported file format: %s", path)
		return []any{}, nil
	}
}

func loadJSONFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrFileNotFound, path)
	}

	var content any
	if err := json.Unmarshal(data, &content); err != nil {
		return nil, fmt.Errorf("%w: invalid json in %s: %v", errs.ErrFileFormat, path, err)
	}
	if err := checkFormat(path, content); err != nil {
		return nil, err
	}
	return content, nil
}

func loadYAMLFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrFileNotFound, path)
	}

	var content any
	if err := yaml.Unmarshal(data, &content); err != nil {
		return nil, fmt.Errorf("%w: invalid yaml in %s: %v", errs.ErrFileFormat, path, err)
	}
	if err := checkFormat(path, content); err != nil {
		return nil, err
	}
	return content, nil
}

// loadCSVFile decodes a header-row csv into a row list, each row a
// mapping of column name to string value.
//
//	username,password        [{"username": "test1", "password": "111111"},
//	test1,111111          =>  {"username": "test2", "password": "222222"}]
//	test2,222222
func loadCSVFile(path string) (any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrFileNotFound, path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err == io.EOF {
		return []any{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: invalid csv in %s: %v", errs.ErrFileFormat, path, err)
	}

	var rows []any
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: invalid csv in %s: %v", errs.ErrFileFormat, path, err)
		}
		row := make(map[string]any, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// checkFormat rejects empty content and content that is neither a
// sequence nor a mapping.
func checkFormat(path string, content any) error {
	switch c := content.(type) {
	case nil:
		return fmt.Errorf("%w: file content is empty: %s", errs.ErrFileFormat, path)
	case []any:
		if len(c) == 0 {
			return fmt.Errorf("%w: file content is empty: %s", errs.ErrFileFormat, path)
		}
	case map[string]any:
		if len(c) == 0 {
			return fmt.Errorf("%w: file content is empty: %s", errs.ErrFileFormat, path)
		}
	default:
		return fmt.Errorf("%w: file content format invalid: %s", errs.ErrFileFormat, path)
	}
	return nil
}
