package query

import (
	"errors"
	"testing"

	"github.com/vegasq/insight/dataset"
)

// testSections returns a small sections dataset. Order matters: several
// tests rely on dataset order for unsorted output.
func testSections() []dataset.Row {
	return []dataset.Row{
		&dataset.Section{UUID: "1", ID: "310", Title: "softeng", Instructor: "holmes, reid", Dept: "cpsc", Year: 2015, Avg: 78.5, Pass: 120, Fail: 3, Audit: 0},
		&dataset.Section{UUID: "2", ID: "110", Title: "intro", Instructor: "wolfman, steve", Dept: "cpsc", Year: 2016, Avg: 72.25, Pass: 300, Fail: 20, Audit: 1},
		&dataset.Section{UUID: "3", ID: "100", Title: "calculus", Instructor: "smith, ann", Dept: "math", Year: 2015, Avg: 65, Pass: 200, Fail: 30, Audit: 0},
		&dataset.Section{UUID: "4", ID: "200", Title: "linalg", Instructor: "smith, ann", Dept: "math", Year: 2016, Avg: 70, Pass: 80, Fail: 5, Audit: 2},
		&dataset.Section{UUID: "5", ID: "310", Title: "softeng", Instructor: "holmes, reid", Dept: "cpsc", Year: 2016, Avg: 80, Pass: 110, Fail: 2, Audit: 0},
		&dataset.Section{UUID: "6", ID: "112", Title: "cells", Instructor: "jones, kim", Dept: "biol", Year: 2015, Avg: 90, Pass: 60, Fail: 0, Audit: 0},
		&dataset.Section{UUID: "7", ID: "320", Title: "algorithms", Instructor: "", Dept: "cpsc", Year: 1900, Avg: 90, Pass: 400, Fail: 12, Audit: 0},
		&dataset.Section{UUID: "8", ID: "100", Title: "writing", Instructor: "", Dept: "engl", Year: 2015, Avg: 85, Pass: 90, Fail: 1, Audit: 0},
	}
}

func testRooms() []dataset.Row {
	return []dataset.Row{
		&dataset.Room{Fullname: "Hugh Dempster Pavilion", Shortname: "DMP", Number: "110", Name: "DMP_110", Type: "Tiered Large Group", Furniture: "Classroom-Fixed Tablets", Lat: 49.26125, Lon: -123.24807, Seats: 120},
		&dataset.Room{Fullname: "Hugh Dempster Pavilion", Shortname: "DMP", Number: "201", Name: "DMP_201", Type: "Small Group", Furniture: "Classroom-Movable Tables & Chairs", Lat: 49.26125, Lon: -123.24807, Seats: 40},
		&dataset.Room{Fullname: "Angus", Shortname: "ANGU", Number: "098", Name: "ANGU_098", Type: "Tiered Large Group", Furniture: "Classroom-Fixed Tables/Fixed Chairs", Lat: 49.26486, Lon: -123.25364, Seats: 260},
	}
}

// testRegistry loads "courses" and "campus", plus "archive" as a second
// sections dataset for cross-dataset checks.
func testRegistry(t *testing.T) *dataset.Registry {
	t.Helper()
	reg := dataset.NewRegistry()
	for _, d := range []struct {
		id   string
		kind dataset.Kind
		rows []dataset.Row
	}{
		{"courses", dataset.KindSections, testSections()},
		{"campus", dataset.KindRooms, testRooms()},
		{"archive", dataset.KindSections, testSections()[:2]},
	} {
		if _, err := reg.Add(d.id, d.kind, d.rows); err != nil {
			t.Fatalf("failed to add %s: %v", d.id, err)
		}
	}
	return reg
}

func mustParse(t *testing.T, src string) *Query {
	t.Helper()
	q, err := ParseJSON([]byte(src))
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}
	return q
}

func mustPlan(t *testing.T, reg *dataset.Registry, src string) *Plan {
	t.Helper()
	plan, err := Validate(mustParse(t, src), reg.Snapshot())
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	return plan
}

// uuids returns the courses_uuid column of rows.
func uuids(rows []map[string]interface{}) []string {
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i], _ = row["courses_uuid"].(string)
	}
	return out
}

func reasonOf(err error) Reason {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Reason
	}
	return ""
}
