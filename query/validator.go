package query

import (
	"strings"

	"github.com/vegasq/insight/dataset"
)

// Datasets looks up loaded datasets by id. *dataset.Snapshot implements it.
type Datasets interface {
	Dataset(id string) (*dataset.Dataset, bool)
}

// Plan is a validated query with every key resolved against one dataset.
type Plan struct {
	Dataset *dataset.Dataset
	Filter  predicate // nil selects every row
	Columns []string
	Order   *ordering // nil keeps the evaluation order

	Grouped bool
	Group   []groupKey
	Apply   []aggregate
	// columns maps each output column of an ungrouped query to its field.
	columns map[string]dataset.Field
}

type ordering struct {
	keys []string
	desc bool
}

type groupKey struct {
	key   string
	field dataset.Field
}

// aggregate is a validated APPLY rule. It reads either a dataset field or
// an earlier apply key.
type aggregate struct {
	name   string
	token  TokenType
	source string
	field  dataset.Field
	prior  bool
}

// validation is the per-call state threaded through the walk: the dataset
// bound by the first qualified key and the apply keys declared so far.
type validation struct {
	datasets Datasets
	bound    *dataset.Dataset
	apply    map[string]bool
}

// Validate checks q against the loaded datasets and resolves it into a
// Plan. It returns the first problem found.
func Validate(q *Query, datasets Datasets) (*Plan, error) {
	v := &validation{datasets: datasets, apply: make(map[string]bool)}
	plan := &Plan{}

	if q.Where != nil {
		filter, err := v.filter(q.Where)
		if err != nil {
			return nil, err
		}
		plan.Filter = filter
	}

	if q.Transformations != nil {
		if err := v.transformations(q.Transformations, plan); err != nil {
			return nil, err
		}
	}

	valid, err := v.columns(q.Options.Columns, plan)
	if err != nil {
		return nil, err
	}

	if q.Options.Order != nil {
		order, err := validateOrder(q.Options.Order, valid)
		if err != nil {
			return nil, err
		}
		plan.Order = order
	}

	if v.bound == nil {
		return nil, invalid(ReasonNoDatasetReferenced, "query does not reference a dataset")
	}
	plan.Dataset = v.bound
	return plan, nil
}

// splitKey splits a qualified key "datasetId_field".
func splitKey(key string) (string, string, bool) {
	if strings.Count(key, "_") != 1 {
		return "", "", false
	}
	id, field, _ := strings.Cut(key, "_")
	if id == "" || field == "" {
		return "", "", false
	}
	return id, field, true
}

// resolve binds the dataset on first use and looks up the field of key.
func (v *validation) resolve(key string) (dataset.Field, error) {
	id, name, ok := splitKey(key)
	if !ok {
		return dataset.Field{}, invalid(ReasonInvalidKey, "%q is not of the form datasetId_field", key)
	}
	if v.bound == nil {
		ds, ok := v.datasets.Dataset(id)
		if !ok {
			return dataset.Field{}, &UnknownDatasetError{ID: id}
		}
		v.bound = ds
	} else if id != v.bound.ID {
		return dataset.Field{}, invalid(ReasonCrossDataset, "%q references dataset %q, query is on %q", key, id, v.bound.ID)
	}
	field, ok := dataset.LookupField(v.bound.Kind, name)
	if !ok {
		return dataset.Field{}, invalid(ReasonFieldNotFound, "%s has no field %q", v.bound.Kind, name)
	}
	return field, nil
}

func (v *validation) filter(node FilterNode) (predicate, error) {
	switch n := node.(type) {
	case *LogicalExpr:
		return v.logical(n)
	case *ComparisonExpr:
		field, err := v.resolve(n.Key)
		if err != nil {
			return nil, err
		}
		if field.Type != dataset.Numeric {
			return nil, invalid(ReasonTypeMismatch, "%s needs a numeric field, %q is a %s", n.Op, n.Key, field.Type)
		}
		value, ok := toFloat64(n.Value)
		if !ok {
			return nil, invalid(ReasonTypeMismatch, "%s needs a number, got %s", n.Op, describe(n.Value))
		}
		return &comparePredicate{field: field, op: n.Op, value: value}, nil
	case *MatchExpr:
		field, err := v.resolve(n.Key)
		if err != nil {
			return nil, err
		}
		if field.Type != dataset.Text {
			return nil, invalid(ReasonTypeMismatch, "IS needs a string field, %q is a %s", n.Key, field.Type)
		}
		pattern, ok := n.Value.(string)
		if !ok {
			return nil, invalid(ReasonTypeMismatch, "IS needs a string, got %s", describe(n.Value))
		}
		m, err := compileWildcard(pattern)
		if err != nil {
			return nil, err
		}
		return &matchPredicate{field: field, matcher: m}, nil
	default:
		return nil, &InternalError{Msg: "unknown filter node"}
	}
}

func (v *validation) logical(n *LogicalExpr) (predicate, error) {
	if n.Op == TokenNot {
		if len(n.Children) != 1 {
			return nil, invalid(ReasonNotArity, "NOT needs exactly one filter, got %d", len(n.Children))
		}
		child, err := v.filter(n.Children[0])
		if err != nil {
			return nil, err
		}
		return &notPredicate{child: child}, nil
	}

	if len(n.Children) == 0 {
		return nil, invalid(ReasonEmptyFilterBranch, "%s needs at least one filter", n.Op)
	}
	children := make([]predicate, 0, len(n.Children))
	for _, c := range n.Children {
		child, err := v.filter(c)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	if n.Op == TokenAnd {
		return &andPredicate{children: children}, nil
	}
	return &orPredicate{children: children}, nil
}

func (v *validation) transformations(t *Transformations, plan *Plan) error {
	plan.Grouped = true

	if len(t.Group) == 0 {
		return invalid(ReasonEmptyGroup, "GROUP needs at least one key")
	}
	seen := make(map[string]bool, len(t.Group))
	for _, key := range t.Group {
		field, err := v.resolve(key)
		if err != nil {
			return err
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		plan.Group = append(plan.Group, groupKey{key: key, field: field})
	}

	for _, rule := range t.Apply {
		agg, err := v.applyRule(rule)
		if err != nil {
			return err
		}
		v.apply[rule.Name] = true
		plan.Apply = append(plan.Apply, agg)
	}
	return nil
}

func (v *validation) applyRule(rule ApplyRule) (aggregate, error) {
	if rule.Name == "" || strings.Contains(rule.Name, "_") {
		return aggregate{}, invalid(ReasonInvalidApplyKey, "apply key %q must be non-empty and contain no underscore", rule.Name)
	}
	if v.apply[rule.Name] {
		return aggregate{}, invalid(ReasonDuplicateApplyKey, "apply key %q is declared twice", rule.Name)
	}
	token, ok := applyTokens[rule.Token]
	if !ok {
		return aggregate{}, invalid(ReasonInvalidApplyToken, "unknown apply token %q", rule.Token)
	}

	agg := aggregate{name: rule.Name, token: token, source: rule.Key}
	if v.apply[rule.Key] {
		agg.prior = true
		return agg, nil
	}
	if !strings.Contains(rule.Key, "_") {
		return aggregate{}, invalid(ReasonFieldNotFound, "%s target %q is neither a field nor an earlier apply key", token, rule.Key)
	}
	field, err := v.resolve(rule.Key)
	if err != nil {
		return aggregate{}, err
	}
	if token != TokenCount && field.Type != dataset.Numeric {
		return aggregate{}, invalid(ReasonTypeMismatch, "%s needs a numeric field, %q is a %s", token, rule.Key, field.Type)
	}
	agg.field = field
	return agg, nil
}

// columns validates COLUMNS and returns the set of valid column names that
// ORDER is checked against.
func (v *validation) columns(columns []string, plan *Plan) (map[string]bool, error) {
	if len(columns) == 0 {
		return nil, invalid(ReasonEmptyColumns, "COLUMNS needs at least one key")
	}

	grouped := make(map[string]bool, len(plan.Group))
	for _, g := range plan.Group {
		grouped[g.key] = true
	}

	valid := make(map[string]bool, len(columns))
	plan.columns = make(map[string]dataset.Field, len(columns))
	for _, col := range columns {
		if valid[col] {
			return nil, invalid(ReasonDuplicateColumn, "column %q is listed twice", col)
		}

		switch {
		case plan.Grouped && v.apply[col]:
		case !strings.Contains(col, "_"):
			if plan.Grouped {
				return nil, invalid(ReasonColumnsNotGrouped, "column %q is not a GROUP key or an apply key", col)
			}
			return nil, invalid(ReasonInvalidKey, "%q is not of the form datasetId_field", col)
		default:
			field, err := v.resolve(col)
			if err != nil {
				return nil, err
			}
			if plan.Grouped && !grouped[col] {
				return nil, invalid(ReasonColumnsNotGrouped, "column %q is not a GROUP key or an apply key", col)
			}
			plan.columns[col] = field
		}
		valid[col] = true
	}
	plan.Columns = columns
	return valid, nil
}

func validateOrder(order *OrderSpec, valid map[string]bool) (*ordering, error) {
	var desc bool
	switch order.Dir {
	case DirUp:
	case DirDown:
		desc = true
	default:
		return nil, invalid(ReasonInvalidDirection, "dir must be %s or %s, got %q", DirUp, DirDown, order.Dir)
	}
	if len(order.Keys) == 0 {
		return nil, invalid(ReasonEmptyOrder, "ORDER needs at least one key")
	}
	for _, key := range order.Keys {
		if !valid[key] {
			return nil, invalid(ReasonOrderNotInColumns, "ORDER key %q is not in COLUMNS", key)
		}
	}
	return &ordering{keys: order.Keys, desc: desc}, nil
}
