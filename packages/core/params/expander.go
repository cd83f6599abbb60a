// Package params builds cartesian-product parameter sets from named axes.
//
// Each axis is a single-entry mapping of a composite name to its content:
//
//	- user_agent: ["iOS/10.1", "iOS/10.2"]
//	- username-password: "${parameterize(account.csv)}"
//
// Composite names join column names with '-'; axis content is either a
// literal row sequence or an expression evaluating to one.
package params

import (
	"fmt"
	"strings"

	"github.com/apirunner/apirunner/packages/core/errs"
	"github.com/apirunner/apirunner/packages/core/eval"
)

// Expand resolves every axis to its rows and combines them by cartesian
// product. Leftmost axis varies slowest; on key collision a later axis
// wins. Zero axes expand to nothing, a single axis passes through.
func Expand(axes []map[string]any, ev *eval.Evaluator) ([]map[string]any, error) {
	var axisRows [][]map[string]any

	for _, axis := range axes {
		if len(axis) != 1 {
			return nil, fmt.Errorf("%w: parameter axis must have exactly one name, got %d", errs.ErrParams, len(axis))
		}
		for compositeName, content := range axis {
			columns := strings.Split(compositeName, "-")
			rows, err := expandAxis(columns, content, ev)
			if err != nil {
				return nil, err
			}
			axisRows = append(axisRows, rows)
		}
	}

	return cartesianProduct(axisRows), nil
}

// expandAxis resolves one axis into its rows. Literal sequences zip
// element values against the split column names; anything else is
// evaluated and projected down to the declared columns.
func expandAxis(columns []string, content any, ev *eval.Evaluator) ([]map[string]any, error) {
	if seq, ok := content.([]any); ok {
		rows := make([]map[string]any, 0, len(seq))
		for _, item := range seq {
			values, ok := item.([]any)
			if !ok {
				// bare scalar becomes a single-column row
				values = []any{item}
			}
			row := make(map[string]any, len(columns))
			for i, col := range columns {
				if i < len(values) {
					row[col] = values[i]
				}
			}
			rows = append(rows, row)
		}
		return rows, nil
	}

	evaluated, err := ev.EvalContent(content)
	if err != nil {
		return nil, err
	}
	seq, ok := evaluated.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: parameters syntax error", errs.ErrParams)
	}

	rows := make([]map[string]any, 0, len(seq))
	for _, item := range seq {
		source, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: parameters syntax error", errs.ErrParams)
		}
		row := make(map[string]any, len(columns))
		for _, col := range columns {
			v, ok := source[col]
			if !ok {
				return nil, fmt.Errorf("%w: parameter %q missing from generated rows", errs.ErrParams, col)
			}
			row[col] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// cartesianProduct combines per-axis row lists in nested-loop order.
func cartesianProduct(axisRows [][]map[string]any) []map[string]any {
	if len(axisRows) == 0 {
		return nil
	}
	if len(axisRows) == 1 {
		return axisRows[0]
	}

	product := []map[string]any{{}}
	for _, rows := range axisRows {
		next := make([]map[string]any, 0, len(product)*len(rows))
		for _, base := range product {
			for _, row := range rows {
				combined := make(map[string]any, len(base)+len(row))
				for k, v := range base {
					combined[k] = v
				}
				for k, v := range row {
					combined[k] = v
				}
				next = append(next, combined)
			}
		}
		product = next
	}
	return product
}
