package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vegasq/insight/dataset"
)

// Group represents a group of rows for aggregation
type Group struct {
	Key    string                 // Hash key for the group
	Values map[string]interface{} // Values of the GROUP keys
	Rows   []dataset.Row          // All rows in the group
}

// ApplyGroupByAndAggregate partitions the selected rows by the GROUP keys of
// the plan and collapses each partition into one row holding the group
// values and the APPLY results. Rows come out in the order their group was
// first seen.
func ApplyGroupByAndAggregate(ds *dataset.Dataset, selected *RowSet, plan *Plan) ([]map[string]interface{}, error) {
	groups, err := groupRows(ds, selected, plan.Group)
	if err != nil {
		return nil, err
	}

	result := make([]map[string]interface{}, 0, len(groups))
	for _, group := range groups {
		aggregatedRow, err := computeAggregates(group, plan.Apply)
		if err != nil {
			return nil, err
		}
		result = append(result, aggregatedRow)
	}
	return result, nil
}

// groupRows performs hash-based grouping, keeping first-seen order.
func groupRows(ds *dataset.Dataset, selected *RowSet, keys []groupKey) ([]*Group, error) {
	groups := make(map[string]*Group)
	var ordered []*Group

	for _, i := range selected.Indices() {
		row := ds.Rows[i]
		key, groupValues, err := computeGroupKey(row, keys)
		if err != nil {
			return nil, err
		}

		if group, exists := groups[key]; exists {
			group.Rows = append(group.Rows, row)
			continue
		}
		group := &Group{Key: key, Values: groupValues, Rows: []dataset.Row{row}}
		groups[key] = group
		ordered = append(ordered, group)
	}
	return ordered, nil
}

// computeGroupKey computes a hash key for a group based on GROUP keys
func computeGroupKey(row dataset.Row, keys []groupKey) (string, map[string]interface{}, error) {
	var keyBuilder strings.Builder
	groupValues := make(map[string]interface{}, len(keys))

	for i, k := range keys {
		value, ok := k.field.Value(row)
		if !ok {
			return "", nil, &InternalError{Msg: fmt.Sprintf("GROUP key %q not found in row", k.key)}
		}

		if i > 0 {
			keyBuilder.WriteString("\x00||\x00") // Use unlikely separator to avoid collisions
		}
		keyBuilder.WriteString(k.key)
		keyBuilder.WriteString("\x00:\x00")
		keyBuilder.WriteString(groupKeyPart(value))
		groupValues[k.key] = value
	}

	return keyBuilder.String(), groupValues, nil
}

// groupKeyPart renders one group value for the partition key. Numbers that
// compare equal render the same, so 0 and -0 share a partition.
func groupKeyPart(value interface{}) string {
	if f, ok := value.(float64); ok {
		if f == 0 {
			f = 0
		}
		return "n:" + strconv.FormatFloat(f, 'g', -1, 64)
	}
	return fmt.Sprintf("%#v", value)
}

// computeAggregates computes the apply rules of a group in order. A rule may
// read an earlier apply key, which holds the same value on every row of the
// group.
func computeAggregates(group *Group, rules []aggregate) (map[string]interface{}, error) {
	result := make(map[string]interface{}, len(group.Values)+len(rules))
	for k, v := range group.Values {
		result[k] = v
	}

	for _, rule := range rules {
		values := make([]interface{}, len(group.Rows))
		for i, row := range group.Rows {
			if rule.prior {
				values[i] = result[rule.source]
				continue
			}
			v, ok := rule.field.Value(row)
			if !ok {
				return nil, &InternalError{Msg: fmt.Sprintf("%s: field %q not found in row", rule.token, rule.source)}
			}
			values[i] = v
		}

		value, err := evaluateAggregate(rule.token, values)
		if err != nil {
			return nil, &InternalError{Msg: fmt.Sprintf("apply %q: %v", rule.name, err)}
		}
		result[rule.name] = value
	}
	return result, nil
}

func evaluateAggregate(token TokenType, values []interface{}) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("%s over an empty group", token)
	}
	switch token {
	case TokenCount:
		return evaluateCount(values), nil
	case TokenSum:
		return evaluateSum(values)
	case TokenAvg:
		return evaluateAvg(values)
	case TokenMin:
		return evaluateExtreme(values, func(a, b float64) bool { return a < b })
	case TokenMax:
		return evaluateExtreme(values, func(a, b float64) bool { return a > b })
	default:
		return 0, fmt.Errorf("unsupported aggregate %s", token)
	}
}

// evaluateCount counts distinct values, not rows.
func evaluateCount(values []interface{}) float64 {
	distinct := make(map[interface{}]struct{}, len(values))
	for _, v := range values {
		distinct[v] = struct{}{}
	}
	return float64(len(distinct))
}

// evaluateSum sums exactly and rounds half away from zero to 2 places.
func evaluateSum(values []interface{}) (float64, error) {
	sum, err := decimalSum(values)
	if err != nil {
		return 0, fmt.Errorf("SUM: %w", err)
	}
	return sum.Round(2).InexactFloat64(), nil
}

// evaluateAvg averages exactly and rounds half away from zero to 2 places.
func evaluateAvg(values []interface{}) (float64, error) {
	sum, err := decimalSum(values)
	if err != nil {
		return 0, fmt.Errorf("AVG: %w", err)
	}
	avg := sum.Div(decimal.NewFromInt(int64(len(values))))
	return avg.Round(2).InexactFloat64(), nil
}

func decimalSum(values []interface{}) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, v := range values {
		num, ok := toFloat64(v)
		if !ok {
			return decimal.Zero, fmt.Errorf("cannot aggregate %T", v)
		}
		sum = sum.Add(decimal.NewFromFloat(num))
	}
	return sum, nil
}

// evaluateExtreme returns the value for which better holds against every
// other value.
func evaluateExtreme(values []interface{}, better func(a, b float64) bool) (float64, error) {
	var best float64
	for i, v := range values {
		num, ok := toFloat64(v)
		if !ok {
			return 0, fmt.Errorf("cannot aggregate %T", v)
		}
		if i == 0 || better(num, best) {
			best = num
		}
	}
	return best, nil
}
