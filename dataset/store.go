package dataset

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/segmentio/parquet-go"
)

const fileExt = ".parquet"

// maxFiles bounds how many dataset files a store directory may hold.
const maxFiles = 1000

// Store keeps one parquet file per dataset in a directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir. The directory is created on the
// first Save.
func NewStore(dir string) *Store {
	return &Store{dir: filepath.Clean(dir)}
}

// Dir returns the directory the store writes to.
func (s *Store) Dir() string {
	return s.dir
}

// fileName returns the file name for a dataset. Ids may hold characters that
// are not safe in paths, so they are escaped.
func fileName(id string, kind Kind) string {
	return url.PathEscape(id) + "." + string(kind) + fileExt
}

// parseFileName is the inverse of fileName.
func parseFileName(name string) (string, Kind, bool) {
	base, ok := strings.CutSuffix(name, fileExt)
	if !ok {
		return "", "", false
	}
	dot := strings.LastIndex(base, ".")
	if dot <= 0 {
		return "", "", false
	}
	kind, err := ParseKind(base[dot+1:])
	if err != nil {
		return "", "", false
	}
	id, err := url.PathUnescape(base[:dot])
	if err != nil {
		return "", "", false
	}
	return id, kind, true
}

// Save writes ds to disk. The file is written under a temporary name and
// renamed into place so a crash never leaves a truncated dataset behind.
func (s *Store) Save(ds *Dataset) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+fileName(ds.ID, ds.Kind)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := writeRows(tmp, ds.Kind, ds.Rows); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write dataset %s: %w", ds.ID, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	return os.Rename(tmpName, filepath.Join(s.dir, fileName(ds.ID, ds.Kind)))
}

// Delete removes the file of a dataset. A missing file is not an error.
func (s *Store) Delete(id string, kind Kind) error {
	err := os.Remove(filepath.Join(s.dir, fileName(id, kind)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// LoadAll reads every dataset file in the directory. A missing directory
// yields no datasets. Unreadable or misnamed files are logged and skipped so
// one bad file does not keep the others from loading.
func (s *Store) LoadAll(logger *slog.Logger) ([]*Dataset, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*"+fileExt))
	if err != nil {
		return nil, fmt.Errorf("invalid data directory: %w", err)
	}
	if len(matches) > maxFiles {
		return nil, fmt.Errorf("data directory holds too many files (%d), maximum is %d", len(matches), maxFiles)
	}

	var datasets []*Dataset
	for _, path := range matches {
		id, kind, ok := parseFileName(filepath.Base(path))
		if !ok {
			logger.Warn("skipping file with unexpected name", "file", path)
			continue
		}
		rows, err := ReadParquetRows(kind, path)
		if err != nil {
			logger.Warn("skipping unreadable dataset file", "file", path, "error", err)
			continue
		}
		ds, err := New(id, kind, rows)
		if err != nil {
			logger.Warn("skipping invalid dataset file", "file", path, "error", err)
			continue
		}
		datasets = append(datasets, ds)
	}
	return datasets, nil
}

// ReadParquetRows reads all rows of a parquet file as rows of kind. The file
// schema is checked against the field table first.
func ReadParquetRows(kind Kind, path string) ([]Row, error) {
	infos, err := ExtractSchemaInfo(path)
	if err != nil {
		return nil, err
	}
	if err := CheckCompatible(kind, infos); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	switch kind {
	case KindSections:
		sections, err := readAll[Section](file)
		if err != nil {
			return nil, err
		}
		return toRows(sections), nil
	case KindRooms:
		rooms, err := readAll[Room](file)
		if err != nil {
			return nil, err
		}
		return toRows(rooms), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// readAll reads every row of a parquet file into memory.
func readAll[T any](file *os.File) ([]T, error) {
	reader := parquet.NewGenericReader[T](file)
	defer func() { _ = reader.Close() }()

	rows := make([]T, reader.NumRows())
	n := 0
	for n < len(rows) {
		read, err := reader.Read(rows[n:])
		n += read
		if err != nil {
			// Use errors.Is for proper EOF detection
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		if read == 0 {
			break
		}
	}
	return rows[:n], nil
}

// toRows converts values to Row pointers into the same backing array.
func toRows[T any, P interface {
	*T
	Row
}](values []T) []Row {
	rows := make([]Row, len(values))
	for i := range values {
		rows[i] = P(&values[i])
	}
	return rows
}

func writeRows(w io.Writer, kind Kind, rows []Row) error {
	switch kind {
	case KindSections:
		return writeAll(w, fromRows[Section](rows))
	case KindRooms:
		return writeAll(w, fromRows[Room](rows))
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// fromRows copies rows of concrete type *T into a value slice. Rows of any
// other type are skipped; New guarantees they do not occur.
func fromRows[T any, P interface {
	*T
	Row
}](rows []Row) []T {
	values := make([]T, 0, len(rows))
	for _, row := range rows {
		if v, ok := row.(P); ok {
			values = append(values, *v)
		}
	}
	return values
}

func writeAll[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return err
	}
	return writer.Close()
}
