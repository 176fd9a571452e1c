package dataset

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/segmentio/parquet-go"
)

func sampleSections() []Row {
	return []Row{
		&Section{UUID: "1", ID: "310", Title: "softeng", Instructor: "holmes", Dept: "cpsc", Year: 2015, Avg: 78.5, Pass: 120, Fail: 3, Audit: 0},
		&Section{UUID: "2", ID: "110", Title: "intro", Instructor: "wolfman", Dept: "cpsc", Year: 2016, Avg: 72.25, Pass: 300, Fail: 20, Audit: 1},
	}
}

func sampleRooms() []Row {
	return []Row{
		&Room{Fullname: "Hugh Dempster Pavilion", Shortname: "DMP", Number: "110", Name: "DMP_110", Address: "6245 Agronomy Road V6T 1Z4", Type: "Tiered Large Group", Furniture: "Classroom-Fixed Tablets", Href: "http://example.test/DMP-110", Lat: 49.26125, Lon: -123.24807, Seats: 120},
	}
}

// writeParquetFile writes rows of any struct type to a parquet file in a
// temporary directory and returns its path.
func writeParquetFile[T any](t *testing.T, name string, rows []T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	defer func() { _ = f.Close() }()

	writer := parquet.NewGenericWriter[T](f)
	if _, err := writer.Write(rows); err != nil {
		t.Fatalf("failed to write test data: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}
	return path
}

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
