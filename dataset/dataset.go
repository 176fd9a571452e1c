package dataset

import (
	"fmt"
	"strings"
)

// Dataset is an immutable collection of rows of a single kind. Callers must
// not modify Rows once the dataset has been handed to a Registry.
type Dataset struct {
	ID   string
	Kind Kind
	Rows []Row
}

// Info summarises a loaded dataset.
type Info struct {
	ID      string `json:"id"`
	Kind    Kind   `json:"kind"`
	NumRows int    `json:"numRows"`
}

// Info returns the summary of d.
func (d *Dataset) Info() Info {
	return Info{ID: d.ID, Kind: d.Kind, NumRows: len(d.Rows)}
}

// ValidateID checks that id can name a dataset. The underscore separates the
// dataset id from the field name in query keys, so it may not appear in ids.
func ValidateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id must not be blank", ErrInvalidID)
	}
	if strings.Contains(id, "_") {
		return fmt.Errorf("%w: %q contains an underscore", ErrInvalidID, id)
	}
	return nil
}

// New builds a dataset after checking the id and that every row is of kind.
// The rows slice is copied.
func New(id string, kind Kind, rows []Row) (*Dataset, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDataset, id)
	}
	owned := make([]Row, len(rows))
	for i, row := range rows {
		if row == nil || row.Kind() != kind {
			return nil, fmt.Errorf("dataset %s: row %d is not a %s row", id, i, kind)
		}
		owned[i] = row
	}
	return &Dataset{ID: id, Kind: kind, Rows: owned}, nil
}
