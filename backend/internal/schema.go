// Package internal holds helpers shared by the SQL backends.
package internal

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Column describes one column of a backend table.
type Column struct {
	DataType   string
	IsNullable bool
}

// CompareSchema checks the columns found in a table against the expected
// set. Extra columns are allowed. The error lists every missing or
// mismatched column in a stable order.
func CompareSchema(tableName string, expected, actual map[string]Column) error {
	var missingColumns []string
	var mismatchedColumns []string

	names := make([]string, 0, len(expected))
	for name := range expected {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, colName := range names {
		want := expected[colName]
		got, exists := actual[colName]
		if !exists {
			missingColumns = append(missingColumns, colName)
			continue
		}

		if got.DataType != want.DataType {
			mismatchedColumns = append(mismatchedColumns,
				fmt.Sprintf("%s: expected %s, got %s", colName, want.DataType, got.DataType))
		}

		if got.IsNullable != want.IsNullable {
			mismatchedColumns = append(mismatchedColumns,
				fmt.Sprintf("%s: expected nullable=%v, got nullable=%v", colName, want.IsNullable, got.IsNullable))
		}
	}

	if len(missingColumns) == 0 && len(mismatchedColumns) == 0 {
		return nil
	}

	var errMsg strings.Builder
	fmt.Fprintf(&errMsg, "table %s schema validation failed:\n", tableName)

	if len(missingColumns) > 0 {
		fmt.Fprintf(&errMsg, "  missing columns: %s\n", strings.Join(missingColumns, ", "))
	}

	if len(mismatchedColumns) > 0 {
		fmt.Fprintf(&errMsg, "  mismatched columns:\n")
		for _, msg := range mismatchedColumns {
			fmt.Fprintf(&errMsg, "    - %s\n", msg)
		}
	}

	return errors.New(errMsg.String())
}
