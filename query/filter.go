package query

import (
	"fmt"
	"strings"

	"github.com/vegasq/insight/dataset"
)

// predicate is a validated filter node. selectRows returns the rows of ds it
// matches.
type predicate interface {
	selectRows(ds *dataset.Dataset) (*RowSet, error)
}

type andPredicate struct {
	children []predicate
}

type orPredicate struct {
	children []predicate
}

type notPredicate struct {
	child predicate
}

type comparePredicate struct {
	field dataset.Field
	op    TokenType
	value float64
}

type matchPredicate struct {
	field   dataset.Field
	matcher wildcard
}

// ApplyFilter returns the rows of ds selected by the plan filter. A plan
// without a filter selects every row.
func ApplyFilter(plan *Plan, ds *dataset.Dataset) (*RowSet, error) {
	if plan.Filter == nil {
		return fullRowSet(len(ds.Rows)), nil
	}
	return plan.Filter.selectRows(ds)
}

func (p *andPredicate) selectRows(ds *dataset.Dataset) (*RowSet, error) {
	var result *RowSet
	for _, child := range p.children {
		set, err := child.selectRows(ds)
		if err != nil {
			return nil, err
		}
		if result == nil {
			result = set
			continue
		}
		result.intersect(set)
	}
	if result == nil {
		return newRowSet(len(ds.Rows)), nil
	}
	return result, nil
}

func (p *orPredicate) selectRows(ds *dataset.Dataset) (*RowSet, error) {
	result := newRowSet(len(ds.Rows))
	for _, child := range p.children {
		set, err := child.selectRows(ds)
		if err != nil {
			return nil, err
		}
		result.union(set)
	}
	return result, nil
}

func (p *notPredicate) selectRows(ds *dataset.Dataset) (*RowSet, error) {
	set, err := p.child.selectRows(ds)
	if err != nil {
		return nil, err
	}
	set.complement()
	return set, nil
}

func (p *comparePredicate) selectRows(ds *dataset.Dataset) (*RowSet, error) {
	return scan(ds, p.field, func(v interface{}) (bool, error) {
		num, ok := toFloat64(v)
		if !ok {
			return false, fmt.Errorf("field %s holds %T, not a number", p.field.Name, v)
		}
		return compareNumbers(num, p.op, p.value), nil
	})
}

func (p *matchPredicate) selectRows(ds *dataset.Dataset) (*RowSet, error) {
	return scan(ds, p.field, func(v interface{}) (bool, error) {
		str, ok := toString(v)
		if !ok {
			return false, fmt.Errorf("field %s holds %T, not a string", p.field.Name, v)
		}
		return p.matcher.match(str), nil
	})
}

// scan tests the value of field in every row of ds. A row without the field
// is an internal error since validation resolved the field for this kind.
func scan(ds *dataset.Dataset, field dataset.Field, test func(interface{}) (bool, error)) (*RowSet, error) {
	set := newRowSet(len(ds.Rows))
	for i, row := range ds.Rows {
		v, ok := field.Value(row)
		if !ok {
			return nil, &InternalError{Msg: fmt.Sprintf("row %d of %s has no field %s", i, ds.ID, field.Name)}
		}
		matched, err := test(v)
		if err != nil {
			return nil, &InternalError{Msg: fmt.Sprintf("row %d of %s: %v", i, ds.ID, err)}
		}
		if matched {
			set.add(i)
		}
	}
	return set, nil
}

// wildcard matches text against an IS pattern.
type wildcard struct {
	literal string
	prefix  bool // pattern ended with '*'
	suffix  bool // pattern started with '*'
}

// compileWildcard accepts '*' only as the first and/or last character.
func compileWildcard(pattern string) (wildcard, error) {
	var w wildcard
	literal := pattern
	if strings.HasPrefix(literal, "*") {
		w.suffix = true
		literal = literal[1:]
	}
	if strings.HasSuffix(literal, "*") {
		w.prefix = true
		literal = literal[:len(literal)-1]
	}
	if strings.Contains(literal, "*") {
		return wildcard{}, invalid(ReasonWildcard, "%q has a '*' that is not the first or last character", pattern)
	}
	w.literal = literal
	return w, nil
}

func (w wildcard) match(s string) bool {
	switch {
	case w.prefix && w.suffix:
		return strings.Contains(s, w.literal)
	case w.prefix:
		return strings.HasPrefix(s, w.literal)
	case w.suffix:
		return strings.HasSuffix(s, w.literal)
	default:
		return s == w.literal
	}
}

// toFloat64 converts a value to float64 if possible
func toFloat64(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	default:
		return 0, false
	}
}

// toString converts a value to string if possible
func toString(v interface{}) (string, bool) {
	if str, ok := v.(string); ok {
		return str, true
	}
	return "", false
}

// compareNumbers compares two numbers
func compareNumbers(left float64, operator TokenType, right float64) bool {
	switch operator {
	case TokenEqual:
		return left == right
	case TokenLess:
		return left < right
	case TokenGreater:
		return left > right
	default:
		return false
	}
}
