package query

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vegasq/insight/dataset"
)

// Catalog provides the datasets a query runs against. *dataset.Registry
// implements it.
type Catalog interface {
	Snapshot() *dataset.Snapshot
}

// Result holds the rows of an evaluated query. Every row has exactly the
// keys in Columns.
type Result struct {
	ID      string                   `json:"-"`
	Columns []string                 `json:"-"`
	Rows    []map[string]interface{} `json:"result"`
}

// Engine evaluates queries against the datasets of a Catalog. It holds no
// per-query state and is safe for concurrent use.
type Engine struct {
	catalog Catalog
	limit   int
	logger  *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithResultLimit sets the maximum number of result rows. Non-positive
// values keep the default.
func WithResultLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.limit = n
		}
	}
}

// WithLogger sets the logger queries are reported to.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an engine over catalog.
func NewEngine(catalog Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog: catalog,
		limit:   DefaultResultLimit,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ResultLimit returns the maximum number of result rows.
func (e *Engine) ResultLimit() int {
	return e.limit
}

// PerformQueryJSON evaluates a JSON encoded query.
func (e *Engine) PerformQueryJSON(data []byte) (*Result, error) {
	id := uuid.NewString()
	q, err := ParseJSON(data)
	if err != nil {
		e.logFailure(id, err)
		return nil, err
	}
	return e.perform(id, q)
}

// PerformQuery evaluates a decoded query object, as produced by
// encoding/json into an interface{}.
func (e *Engine) PerformQuery(raw interface{}) (*Result, error) {
	id := uuid.NewString()
	q, err := Parse(raw)
	if err != nil {
		e.logFailure(id, err)
		return nil, err
	}
	return e.perform(id, q)
}

func (e *Engine) perform(id string, q *Query) (*Result, error) {
	start := time.Now()

	// One snapshot for the whole evaluation.
	plan, err := Validate(q, e.catalog.Snapshot())
	if err != nil {
		e.logFailure(id, err)
		return nil, err
	}

	result, matched, err := Execute(plan, e.limit)
	if err != nil {
		e.logFailure(id, err)
		return nil, err
	}
	result.ID = id

	e.logger.Debug("query evaluated",
		"query_id", id,
		"dataset", plan.Dataset.ID,
		"grouped", plan.Grouped,
		"matched", matched,
		"rows", len(result.Rows),
		"elapsed", time.Since(start),
	)
	return result, nil
}

func (e *Engine) logFailure(id string, err error) {
	if errors.Is(err, ErrInternal) {
		e.logger.Error("query failed", "query_id", id, "error", err)
		return
	}
	e.logger.Debug("query rejected", "query_id", id, "error", err)
}

// Execute evaluates a validated plan. It fails with a ResultTooLargeError
// when the result would hold more than limit rows; a result is never
// truncated. The second return value is the number of rows the filter
// matched.
func Execute(plan *Plan, limit int) (*Result, int, error) {
	ds := plan.Dataset
	selected, err := ApplyFilter(plan, ds)
	if err != nil {
		return nil, 0, err
	}
	matched := selected.Len()

	var rows []map[string]interface{}
	if plan.Grouped {
		groups, err := ApplyGroupByAndAggregate(ds, selected, plan)
		if err != nil {
			return nil, matched, err
		}
		if limit > 0 && len(groups) > limit {
			return nil, matched, &ResultTooLargeError{Rows: len(groups), Limit: limit}
		}
		if rows, err = ProjectGroups(groups, plan.Columns); err != nil {
			return nil, matched, err
		}
	} else {
		if limit > 0 && matched > limit {
			return nil, matched, &ResultTooLargeError{Rows: matched, Limit: limit}
		}
		if rows, err = ProjectRows(ds, selected, plan); err != nil {
			return nil, matched, err
		}
	}

	ApplyOrder(rows, plan.Order)
	return &Result{Columns: plan.Columns, Rows: rows}, matched, nil
}
