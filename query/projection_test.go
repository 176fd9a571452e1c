package query

import (
	"reflect"
	"testing"
)

func TestApplyOrder(t *testing.T) {
	rows := func() []map[string]interface{} {
		return []map[string]interface{}{
			{"k": 2.0, "x": "b"},
			{"k": 1.0, "x": "a"},
			{"k": 1.0, "x": "c"},
		}
	}

	tests := []struct {
		name  string
		order *ordering
		want  []string
	}{
		{"no order keeps input", nil, []string{"b", "a", "c"}},
		{"up is stable", &ordering{keys: []string{"k"}}, []string{"a", "c", "b"}},
		{"down is stable", &ordering{keys: []string{"k"}, desc: true}, []string{"b", "a", "c"}},
		{"second key breaks ties", &ordering{keys: []string{"k", "x"}, desc: true}, []string{"b", "c", "a"}},
		{"text key", &ordering{keys: []string{"x"}}, []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rows()
			ApplyOrder(got, tt.order)
			xs := make([]string, len(got))
			for i, row := range got {
				xs[i] = row["x"].(string)
			}
			if !reflect.DeepEqual(xs, tt.want) {
				t.Errorf("order = %v, want %v", xs, tt.want)
			}
		})
	}
}

func TestCompareValues(t *testing.T) {
	tests := []struct {
		name string
		a, b interface{}
		want int
	}{
		{"numbers less", 1.0, 2.0, -1},
		{"numbers equal", 2.0, 2.0, 0},
		{"numbers greater", 3.0, 2.0, 1},
		{"mixed numeric types", 2, 2.0, 0},
		{"strings", "apple", "banana", -1},
		{"uppercase sorts first", "Zed", "apple", -1},
		{"nil first", nil, "a", -1},
		{"mismatch treated equal", "a", 1.0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := compareValues(tt.a, tt.b); got != tt.want {
				t.Errorf("compareValues(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestProjectRows(t *testing.T) {
	reg := testRegistry(t)
	plan := mustPlan(t, reg, `{"WHERE": {"IS": {"courses_dept": "math"}}, "OPTIONS": {"COLUMNS": ["courses_title", "courses_avg"]}}`)
	selected, err := ApplyFilter(plan, plan.Dataset)
	if err != nil {
		t.Fatalf("ApplyFilter() error = %v", err)
	}

	rows, err := ProjectRows(plan.Dataset, selected, plan)
	if err != nil {
		t.Fatalf("ProjectRows() error = %v", err)
	}
	want := []map[string]interface{}{
		{"courses_title": "calculus", "courses_avg": 65.0},
		{"courses_title": "linalg", "courses_avg": 70.0},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("ProjectRows() = %v, want %v", rows, want)
	}
}

func TestProjectGroups(t *testing.T) {
	groups := []map[string]interface{}{
		{"courses_dept": "cpsc", "courses_year": 2015.0, "n": 2.0},
	}
	rows, err := ProjectGroups(groups, []string{"n", "courses_dept"})
	if err != nil {
		t.Fatalf("ProjectGroups() error = %v", err)
	}
	if want := []map[string]interface{}{{"n": 2.0, "courses_dept": "cpsc"}}; !reflect.DeepEqual(rows, want) {
		t.Errorf("ProjectGroups() = %v, want %v", rows, want)
	}

	if _, err := ProjectGroups(groups, []string{"missing"}); err == nil {
		t.Errorf("ProjectGroups() with an unknown column should fail")
	}
}
