package testutil

import (
	"testing"

	"github.com/vegasq/insight/dataset"
)

// SampleSections returns four course sections in two departments.
func SampleSections() []dataset.Row {
	return []dataset.Row{
		&dataset.Section{UUID: "1", ID: "310", Title: "softw eng", Instructor: "smith", Dept: "cpsc", Year: 2015, Avg: 78.5, Pass: 90, Fail: 4, Audit: 1},
		&dataset.Section{UUID: "2", ID: "310", Title: "softw eng", Instructor: "jones", Dept: "cpsc", Year: 2016, Avg: 82.25, Pass: 85, Fail: 2, Audit: 0},
		&dataset.Section{UUID: "3", ID: "110", Title: "comp prog", Instructor: "lee", Dept: "cpsc", Year: 2016, Avg: 71, Pass: 200, Fail: 30, Audit: 2},
		&dataset.Section{UUID: "4", ID: "100", Title: "calculus", Instructor: "kim", Dept: "math", Year: 2015, Avg: 68.4, Pass: 150, Fail: 25, Audit: 0},
	}
}

// SampleRooms returns two rooms of one building.
func SampleRooms() []dataset.Row {
	return []dataset.Row{
		&dataset.Room{Fullname: "Hugh Dempster Pavilion", Shortname: "DMP", Number: "110", Name: "DMP_110", Address: "6245 Agronomy Road V6T 1Z4", Type: "Tiered Large Group", Furniture: "Classroom-Fixed Tablets", Lat: 49.26125, Lon: -123.24807, Seats: 120},
		&dataset.Room{Fullname: "Hugh Dempster Pavilion", Shortname: "DMP", Number: "201", Name: "DMP_201", Address: "6245 Agronomy Road V6T 1Z4", Type: "Small Group", Furniture: "Classroom-Movable Tables & Chairs", Lat: 49.26125, Lon: -123.24807, Seats: 40},
	}
}

// NewRegistry returns a registry holding "courses" (SampleSections) and
// "campus" (SampleRooms).
func NewRegistry(t testing.TB, opts ...dataset.Option) *dataset.Registry {
	t.Helper()
	reg := dataset.NewRegistry(opts...)
	if _, err := reg.Add("courses", dataset.KindSections, SampleSections()); err != nil {
		t.Fatalf("failed to add courses: %v", err)
	}
	if _, err := reg.Add("campus", dataset.KindRooms, SampleRooms()); err != nil {
		t.Fatalf("failed to add campus: %v", err)
	}
	return reg
}
