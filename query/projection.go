package query

import (
	"fmt"
	"sort"

	"github.com/vegasq/insight/dataset"
)

// ProjectRows extracts the plan columns from the selected rows of an
// ungrouped query, in dataset order.
func ProjectRows(ds *dataset.Dataset, selected *RowSet, plan *Plan) ([]map[string]interface{}, error) {
	indices := selected.Indices()
	projected := make([]map[string]interface{}, 0, len(indices))
	for _, i := range indices {
		out := make(map[string]interface{}, len(plan.Columns))
		for _, col := range plan.Columns {
			field, ok := plan.columns[col]
			if !ok {
				return nil, &InternalError{Msg: fmt.Sprintf("column %q was not resolved", col)}
			}
			v, ok := field.Value(ds.Rows[i])
			if !ok {
				return nil, &InternalError{Msg: fmt.Sprintf("row %d of %s has no field %s", i, ds.ID, field.Name)}
			}
			out[col] = v
		}
		projected = append(projected, out)
	}
	return projected, nil
}

// ProjectGroups keeps only the plan columns of collapsed group rows.
func ProjectGroups(rows []map[string]interface{}, columns []string) ([]map[string]interface{}, error) {
	projected := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		out := make(map[string]interface{}, len(columns))
		for _, col := range columns {
			v, ok := row[col]
			if !ok {
				return nil, &InternalError{Msg: fmt.Sprintf("column %q not found in group row", col)}
			}
			out[col] = v
		}
		projected = append(projected, out)
	}
	return projected, nil
}

// ApplyOrder sorts rows in place by the ordering keys. The first key that
// differs decides, and the direction applies to every key. The sort is
// stable, so fully tied rows keep their relative order.
func ApplyOrder(rows []map[string]interface{}, order *ordering) {
	if order == nil || len(rows) < 2 {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		for _, key := range order.keys {
			cmp := compareValues(rows[i][key], rows[j][key])
			if cmp == 0 {
				continue
			}
			if order.desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

// compareValues compares two values and returns:
// -1 if a < b
//
//	0 if a == b
//
// +1 if a > b
func compareValues(a, b interface{}) int {
	// Handle nil values
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}

	// Try numeric comparison
	aNum, aIsNum := toFloat64(a)
	bNum, bIsNum := toFloat64(b)
	if aIsNum && bIsNum {
		if aNum < bNum {
			return -1
		}
		if aNum > bNum {
			return 1
		}
		return 0
	}

	// Try string comparison
	aStr, aIsStr := toString(a)
	bStr, bIsStr := toString(b)
	if aIsStr && bIsStr {
		if aStr < bStr {
			return -1
		}
		if aStr > bStr {
			return 1
		}
		return 0
	}

	// Type mismatch or unsupported types - treat as equal
	return 0
}
