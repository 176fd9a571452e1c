package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DecodeJSONRows decodes a JSON array of row objects of kind. Object keys are
// the field names of the kind; unknown keys are ignored and missing ones are
// left at their zero value.
func DecodeJSONRows(kind Kind, r io.Reader) ([]Row, error) {
	switch kind {
	case KindSections:
		return decodeJSON[Section](r)
	case KindRooms:
		return decodeJSON[Room](r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

func decodeJSON[T any, P interface {
	*T
	Row
}](r io.Reader) ([]Row, error) {
	var values []T
	if err := json.NewDecoder(r).Decode(&values); err != nil {
		return nil, fmt.Errorf("failed to decode rows: %w", err)
	}
	if len(values) == 0 {
		return nil, ErrEmptyDataset
	}
	return toRows[T, P](values), nil
}

// ReadRowsFile reads rows of kind from a .parquet file or a JSON file holding
// an array of row objects, chosen by extension.
func ReadRowsFile(kind Kind, path string) ([]Row, error) {
	if strings.EqualFold(filepath.Ext(path), fileExt) {
		return ReadParquetRows(kind, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return DecodeJSONRows(kind, f)
}
