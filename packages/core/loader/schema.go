package loader

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/apirunner/apirunner/packages/core/errs"
)

// apiFileSchema constrains api definition files: an ordered list of
// single-key {"api": {...}} entries, each carrying a def call signature.
const apiFileSchema = `{
	"type": "array",
	"minItems": 1,
	"items": {
		"type": "object",
		"required": ["api"],
		"additionalProperties": false,
		"properties": {
			"api": {
				"type": "object",
				"required": ["def"],
				"properties": {
					"def": {"type": "string"}
				}
			}
		}
	}
}`

// testFileSchema constrains testcase/suite files to an ordered list of
// single-key mapping blocks. Key names are not restricted here: unknown
// block keys are a warning during assembly, not a format error.
const testFileSchema = `{
	"type": "array",
	"minItems": 1,
	"items": {
		"type": "object",
		"minProperties": 1,
		"maxProperties": 1,
		"additionalProperties": {"type": "object"}
	}
}`

var (
	apiSchema  = gojsonschema.NewStringLoader(apiFileSchema)
	testSchema = gojsonschema.NewStringLoader(testFileSchema)
)

// ValidateAPIFile checks decoded api file content against the api file
// schema.
func ValidateAPIFile(content any) error {
	return validate(apiSchema, content, "api")
}

// ValidateTestFile checks decoded testcase/suite file content against the
// testcase file schema.
func ValidateTestFile(content any) error {
	return validate(testSchema, content, "testcase")
}

func validate(schema gojsonschema.JSONLoader, content any, kind string) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewGoLoader(content))
	if err != nil {
		return fmt.Errorf("%w: %s format error: %v", errs.ErrFileFormat, kind, err)
	}
	if !result.Valid() {
		first := result.Errors()[0]
		return fmt.Errorf("%w: %s format error: %s", errs.ErrFileFormat, kind, first.String())
	}
	return nil
}
