// Package query provides parsing, validation and evaluation of JSON queries
// over in-memory datasets.
//
// A query selects rows of one dataset with a WHERE filter, optionally groups
// them and computes aggregates, then projects and sorts the requested
// columns:
//
//	{
//	  "WHERE": {"AND": [{"GT": {"courses_avg": 90}}, {"IS": {"courses_dept": "cp*"}}]},
//	  "OPTIONS": {"COLUMNS": ["courses_dept", "courses_avg"], "ORDER": "courses_avg"}
//	}
//
// Keys are qualified as datasetId_field and every key of a query must name
// the same dataset. Supported filters:
//   - AND, OR with a non-empty array of filters
//   - NOT with exactly one filter
//   - GT, LT, EQ on numeric fields
//   - IS on text fields, with '*' allowed as the first and/or last character
//
// # Basic Usage
//
// Evaluate a query against the datasets of a registry:
//
//	reg := dataset.NewRegistry()
//	if _, err := reg.Add("courses", dataset.KindSections, rows); err != nil {
//	    log.Fatal(err)
//	}
//
//	engine := query.NewEngine(reg)
//	result, err := engine.PerformQueryJSON(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Grouping and Aggregation
//
// TRANSFORMATIONS collapses the matched rows to one row per GROUP value
// tuple. Each APPLY rule adds a named aggregate (MAX, MIN, AVG, SUM, COUNT):
//
//	"TRANSFORMATIONS": {
//	    "GROUP": ["courses_dept"],
//	    "APPLY": [{"overall": {"AVG": "courses_avg"}}]
//	}
//
// AVG and SUM are computed with decimal arithmetic and rounded to two places.
// COUNT counts distinct values.
//
// # Errors
//
// Failures are typed: *MalformedQueryError, *ValidationError,
// *UnknownDatasetError, *ResultTooLargeError and *InternalError. Each wraps a
// sentinel (ErrMalformedQuery, ErrInvalidQuery, ErrUnknownDataset,
// ErrResultTooLarge, ErrInternal) for use with errors.Is.
//
// # Staged Evaluation
//
// The stages can be used on their own:
//
//	q, err := query.ParseJSON(data)
//	plan, err := query.Validate(q, reg.Snapshot())
//	result, matched, err := query.Execute(plan, query.DefaultResultLimit)
package query
