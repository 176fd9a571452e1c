package query

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// Top-level and OPTIONS/TRANSFORMATIONS keys.
const (
	keyWhere           = "WHERE"
	keyOptions         = "OPTIONS"
	keyTransformations = "TRANSFORMATIONS"
	keyColumns         = "COLUMNS"
	keyOrder           = "ORDER"
	keyGroup           = "GROUP"
	keyApply           = "APPLY"
	keyDir             = "dir"
	keyKeys            = "keys"
)

// ParseJSON decodes and parses a JSON query.
func ParseJSON(data []byte) (*Query, error) {
	if err := checkQueryLength(data); err != nil {
		return nil, err
	}
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, malformed("", "invalid JSON: %v", err)
	}
	return Parse(raw)
}

// Parse resolves a decoded query object into a Query. It only checks the
// shape of the input; field names and value types are checked by Validate.
func Parse(raw interface{}) (*Query, error) {
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return nil, malformed("", "query must be an object, got %s", describe(raw))
	}
	if err := checkKeys("", obj, []string{keyWhere, keyOptions}, []string{keyTransformations}); err != nil {
		return nil, err
	}

	p := &parser{depth: newDepthCounter(MaxFilterDepth)}
	q := &Query{}

	where, err := p.parseWhere(obj[keyWhere])
	if err != nil {
		return nil, err
	}
	q.Where = where

	if q.Options, err = parseOptions(obj[keyOptions]); err != nil {
		return nil, err
	}

	if raw, ok := obj[keyTransformations]; ok {
		if q.Transformations, err = parseTransformations(raw); err != nil {
			return nil, err
		}
	}
	return q, nil
}

// parser carries per-call parsing state.
type parser struct {
	depth *depthCounter
}

func (p *parser) parseWhere(raw interface{}) (FilterNode, error) {
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return nil, malformed(keyWhere, "must be an object, got %s", describe(raw))
	}
	if len(obj) == 0 {
		return nil, nil
	}
	return p.parseFilter(keyWhere, obj)
}

// parseFilter parses a filter object holding exactly one operator key.
func (p *parser) parseFilter(path string, obj map[string]interface{}) (FilterNode, error) {
	if err := p.depth.enter(path); err != nil {
		return nil, err
	}
	defer p.depth.exit()

	if len(obj) != 1 {
		return nil, malformed(path, "filter must have exactly one key, got %d", len(obj))
	}
	var opName string
	var body interface{}
	for k, v := range obj {
		opName, body = k, v
	}
	op, ok := filterKeywords[opName]
	if !ok {
		return nil, malformed(path, "unknown filter operator %q", opName)
	}
	path = path + "." + opName

	switch op {
	case TokenAnd, TokenOr:
		return p.parseJunction(path, op, body)
	case TokenNot:
		return p.parseNot(path, body)
	case TokenGreater, TokenLess, TokenEqual:
		key, value, err := parseLeaf(path, body)
		if err != nil {
			return nil, err
		}
		return &ComparisonExpr{Op: op, Key: key, Value: value}, nil
	default:
		key, value, err := parseLeaf(path, body)
		if err != nil {
			return nil, err
		}
		return &MatchExpr{Key: key, Value: value}, nil
	}
}

// parseJunction parses the array body of AND/OR. An empty array parses; the
// validator rejects it.
func (p *parser) parseJunction(path string, op TokenType, body interface{}) (FilterNode, error) {
	items, ok := body.([]interface{})
	if !ok {
		return nil, malformed(path, "must be an array, got %s", describe(body))
	}
	expr := &LogicalExpr{Op: op, Children: make([]FilterNode, 0, len(items))}
	for i, item := range items {
		itemPath := fmt.Sprintf("%s[%d]", path, i)
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, malformed(itemPath, "must be an object, got %s", describe(item))
		}
		child, err := p.parseFilter(itemPath, obj)
		if err != nil {
			return nil, err
		}
		expr.Children = append(expr.Children, child)
	}
	return expr, nil
}

// parseNot parses the object body of NOT. Each key of the body becomes a
// child so the validator can report the arity instead of the parser.
func (p *parser) parseNot(path string, body interface{}) (FilterNode, error) {
	obj, ok := body.(map[string]interface{})
	if !ok {
		return nil, malformed(path, "must be an object, got %s", describe(body))
	}
	expr := &LogicalExpr{Op: TokenNot, Children: make([]FilterNode, 0, len(obj))}
	for _, k := range slices.Sorted(maps.Keys(obj)) {
		child, err := p.parseFilter(path, map[string]interface{}{k: obj[k]})
		if err != nil {
			return nil, err
		}
		expr.Children = append(expr.Children, child)
	}
	return expr, nil
}

// parseLeaf parses {key: value} where value is a scalar.
func parseLeaf(path string, body interface{}) (string, interface{}, error) {
	obj, ok := body.(map[string]interface{})
	if !ok {
		return "", nil, malformed(path, "must be an object, got %s", describe(body))
	}
	if len(obj) != 1 {
		return "", nil, malformed(path, "must have exactly one key, got %d", len(obj))
	}
	for key, value := range obj {
		switch value.(type) {
		case map[string]interface{}, []interface{}, nil:
			return "", nil, malformed(path+"."+key, "value must be a string or number, got %s", describe(value))
		}
		return key, value, nil
	}
	return "", nil, nil // unreachable
}

func parseOptions(raw interface{}) (Options, error) {
	var opts Options
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return opts, malformed(keyOptions, "must be an object, got %s", describe(raw))
	}
	if err := checkKeys(keyOptions, obj, []string{keyColumns}, []string{keyOrder}); err != nil {
		return opts, err
	}

	columns, err := parseStrings(keyOptions+"."+keyColumns, obj[keyColumns])
	if err != nil {
		return opts, err
	}
	opts.Columns = columns

	if raw, ok := obj[keyOrder]; ok {
		order, err := parseOrder(raw)
		if err != nil {
			return opts, err
		}
		opts.Order = order
	}
	return opts, nil
}

func parseOrder(raw interface{}) (*OrderSpec, error) {
	path := keyOptions + "." + keyOrder
	switch v := raw.(type) {
	case string:
		return &OrderSpec{Dir: DirUp, Keys: []string{v}}, nil
	case map[string]interface{}:
		if err := checkKeys(path, v, []string{keyDir, keyKeys}, nil); err != nil {
			return nil, err
		}
		dir, ok := v[keyDir].(string)
		if !ok {
			return nil, malformed(path+"."+keyDir, "must be a string, got %s", describe(v[keyDir]))
		}
		keys, err := parseStrings(path+"."+keyKeys, v[keyKeys])
		if err != nil {
			return nil, err
		}
		return &OrderSpec{Dir: dir, Keys: keys}, nil
	default:
		return nil, malformed(path, "must be a string or an object, got %s", describe(raw))
	}
}

func parseTransformations(raw interface{}) (*Transformations, error) {
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return nil, malformed(keyTransformations, "must be an object, got %s", describe(raw))
	}
	if err := checkKeys(keyTransformations, obj, []string{keyGroup, keyApply}, nil); err != nil {
		return nil, err
	}

	group, err := parseStrings(keyTransformations+"."+keyGroup, obj[keyGroup])
	if err != nil {
		return nil, err
	}

	path := keyTransformations + "." + keyApply
	items, ok := obj[keyApply].([]interface{})
	if !ok {
		return nil, malformed(path, "must be an array, got %s", describe(obj[keyApply]))
	}
	rules := make([]ApplyRule, 0, len(items))
	for i, item := range items {
		rule, err := parseApplyRule(fmt.Sprintf("%s[%d]", path, i), item)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return &Transformations{Group: group, Apply: rules}, nil
}

// parseApplyRule parses {applyKey: {TOKEN: key}}.
func parseApplyRule(path string, raw interface{}) (ApplyRule, error) {
	obj, ok := raw.(map[string]interface{})
	if !ok || len(obj) != 1 {
		return ApplyRule{}, malformed(path, "must be an object with exactly one apply key")
	}
	var rule ApplyRule
	for name, body := range obj {
		inner, ok := body.(map[string]interface{})
		if !ok || len(inner) != 1 {
			return ApplyRule{}, malformed(path+"."+name, "must be an object with exactly one token")
		}
		for token, target := range inner {
			key, ok := target.(string)
			if !ok {
				return ApplyRule{}, malformed(path+"."+name+"."+token, "must be a string, got %s", describe(target))
			}
			rule = ApplyRule{Name: name, Token: token, Key: key}
		}
	}
	return rule, nil
}

// parseStrings parses an array of strings. An empty array parses.
func parseStrings(path string, raw interface{}) ([]string, error) {
	items, ok := raw.([]interface{})
	if !ok {
		return nil, malformed(path, "must be an array, got %s", describe(raw))
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, malformed(fmt.Sprintf("%s[%d]", path, i), "must be a string, got %s", describe(item))
		}
		out = append(out, s)
	}
	return out, nil
}

// checkKeys reports missing required keys and keys that are neither
// required nor optional. Keys are checked in sorted order so the error is
// stable.
func checkKeys(path string, obj map[string]interface{}, required, optional []string) error {
	for _, k := range required {
		if _, ok := obj[k]; !ok {
			return malformed(path, "missing %s", k)
		}
	}
	for _, k := range slices.Sorted(maps.Keys(obj)) {
		if !slices.Contains(required, k) && !slices.Contains(optional, k) {
			return malformed(path, "unexpected key %q", k)
		}
	}
	return nil
}

// describe names the JSON type of a decoded value for error messages.
func describe(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]interface{}:
		return "object"
	case []interface{}:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	default:
		if _, ok := toFloat64(v); ok {
			return "number"
		}
		return fmt.Sprintf("%T", v)
	}
}
