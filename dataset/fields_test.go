package dataset

import "testing"

func TestLookupField(t *testing.T) {
	tests := []struct {
		name     string
		kind     Kind
		field    string
		wantOK   bool
		wantType FieldType
	}{
		{name: "sections numeric", kind: KindSections, field: "avg", wantOK: true, wantType: Numeric},
		{name: "sections text", kind: KindSections, field: "dept", wantOK: true, wantType: Text},
		{name: "rooms numeric", kind: KindRooms, field: "seats", wantOK: true, wantType: Numeric},
		{name: "rooms text", kind: KindRooms, field: "furniture", wantOK: true, wantType: Text},
		{name: "rooms field on sections", kind: KindSections, field: "seats", wantOK: false},
		{name: "case sensitive", kind: KindSections, field: "AVG", wantOK: false},
		{name: "unknown kind", kind: Kind("books"), field: "avg", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := LookupField(tt.kind, tt.field)
			if ok != tt.wantOK {
				t.Fatalf("LookupField(%s, %s) ok = %v, want %v", tt.kind, tt.field, ok, tt.wantOK)
			}
			if ok && f.Type != tt.wantType {
				t.Errorf("type = %v, want %v", f.Type, tt.wantType)
			}
		})
	}
}

func TestFieldValue(t *testing.T) {
	section := &Section{Dept: "cpsc", Avg: 88.5}
	room := &Room{Shortname: "DMP", Seats: 120}

	avg, _ := LookupField(KindSections, "avg")
	if v, ok := avg.Value(section); !ok || v != 88.5 {
		t.Errorf("avg.Value(section) = %v, %v; want 88.5, true", v, ok)
	}
	if _, ok := avg.Value(room); ok {
		t.Errorf("avg.Value(room) should report false")
	}

	short, _ := LookupField(KindRooms, "shortname")
	if v, ok := short.Value(room); !ok || v != "DMP" {
		t.Errorf("shortname.Value(room) = %v, %v; want DMP, true", v, ok)
	}

	var zero Field
	if _, ok := zero.Value(section); ok {
		t.Errorf("zero Field should not read values")
	}
}

func TestSchemaIsACopy(t *testing.T) {
	fields := Schema(KindSections)
	if len(fields) != 10 {
		t.Fatalf("sections schema has %d fields, want 10", len(fields))
	}
	fields[0].Name = "mutated"
	if Schema(KindSections)[0].Name != "uuid" {
		t.Errorf("Schema returned shared storage")
	}
	if len(Schema(KindRooms)) != 11 {
		t.Errorf("rooms schema should have 11 fields")
	}
	if Schema(Kind("books")) != nil {
		t.Errorf("unknown kind should have nil schema")
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{in: "sections", want: KindSections},
		{in: " Rooms ", want: KindRooms},
		{in: "books", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
