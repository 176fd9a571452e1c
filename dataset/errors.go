package dataset

import "errors"

var (
	// ErrInvalidID is returned for an empty, blank or underscore-containing dataset id.
	ErrInvalidID = errors.New("invalid dataset id")

	// ErrDatasetExists is returned when adding an id that is already loaded.
	ErrDatasetExists = errors.New("dataset already exists")

	// ErrDatasetNotFound is returned when removing or reading an id that is not loaded.
	ErrDatasetNotFound = errors.New("dataset not found")

	// ErrEmptyDataset is returned when a dataset would contain no rows.
	ErrEmptyDataset = errors.New("dataset has no rows")

	// ErrUnknownKind is returned for a kind other than sections or rooms.
	ErrUnknownKind = errors.New("unknown dataset kind")

	// ErrIncompatibleFile is returned when a parquet file does not match the field table of a kind.
	ErrIncompatibleFile = errors.New("incompatible parquet file")
)
