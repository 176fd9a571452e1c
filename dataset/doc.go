// Package dataset holds the in-memory datasets a query runs against.
//
// A dataset is an immutable, ordered collection of rows of one kind. Two
// kinds exist: course sections and building rooms. Each kind has a fixed
// field table that names every queryable field, tags it numeric or textual
// and knows how to read it from a row.
//
// # Schema
//
// Looking up a field once and reading it from many rows:
//
//	field, ok := dataset.LookupField(dataset.KindSections, "avg")
//	if !ok {
//	    log.Fatal("no such field")
//	}
//	for _, row := range ds.Rows {
//	    v, _ := field.Value(row)
//	    fmt.Println(v)
//	}
//
// # Registry
//
// The Registry owns all loaded datasets. Writers (Add, Remove, Reload) are
// serialised and publish a new immutable Snapshot; readers take a Snapshot
// and use it for the whole of one query without locking:
//
//	reg := dataset.NewRegistry(dataset.WithStore(dataset.NewStore("./data")))
//	if err := reg.Load(); err != nil {
//	    log.Fatal(err)
//	}
//	snap := reg.Snapshot()
//	ds, ok := snap.Dataset("sections")
//
// # Persistence
//
// Datasets are stored one parquet file per dataset, named
// "<id>.<kind>.parquet", using github.com/segmentio/parquet-go. Parquet
// files produced elsewhere can be imported after their schema has been
// checked against the field table of the target kind.
package dataset
