package dataset

import (
	"errors"
	"testing"
)

func TestExtractSchemaInfo(t *testing.T) {
	path := writeParquetFile(t, "sections.parquet", []Section{{UUID: "1", Avg: 50}})

	infos, err := ExtractSchemaInfo(path)
	if err != nil {
		t.Fatalf("ExtractSchemaInfo() error = %v", err)
	}

	byName := make(map[string]SchemaInfo, len(infos))
	for _, info := range infos {
		byName[info.Name] = info
	}
	tests := []struct {
		column       string
		physicalType string
		userType     string
	}{
		{column: "uuid", physicalType: "BYTE_ARRAY", userType: "string"},
		{column: "dept", physicalType: "BYTE_ARRAY", userType: "string"},
		{column: "avg", physicalType: "DOUBLE", userType: "number"},
		{column: "year", physicalType: "DOUBLE", userType: "number"},
	}
	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			info, ok := byName[tt.column]
			if !ok {
				t.Fatalf("column %q not found in %v", tt.column, infos)
			}
			if info.PhysicalType != tt.physicalType {
				t.Errorf("PhysicalType = %s, want %s", info.PhysicalType, tt.physicalType)
			}
			if info.Type != tt.userType {
				t.Errorf("Type = %s, want %s", info.Type, tt.userType)
			}
			if info.Repeated {
				t.Errorf("column %q reported as repeated", tt.column)
			}
		})
	}

	if err := CheckCompatible(KindSections, infos); err != nil {
		t.Errorf("CheckCompatible(sections) error = %v", err)
	}
	if err := CheckCompatible(KindRooms, infos); !errors.Is(err, ErrIncompatibleFile) {
		t.Errorf("CheckCompatible(rooms) error = %v, want ErrIncompatibleFile", err)
	}
}

func TestCheckCompatible(t *testing.T) {
	valid := func() []SchemaInfo {
		var infos []SchemaInfo
		for _, f := range Schema(KindRooms) {
			pt := "DOUBLE"
			if f.Type == Text {
				pt = "BYTE_ARRAY"
			}
			infos = append(infos, SchemaInfo{Name: f.Name, PhysicalType: pt})
		}
		return infos
	}

	tests := []struct {
		name    string
		mutate  func([]SchemaInfo) []SchemaInfo
		kind    Kind
		wantErr error
	}{
		{name: "exact", mutate: func(s []SchemaInfo) []SchemaInfo { return s }, kind: KindRooms},
		{
			name:   "extra column",
			mutate: func(s []SchemaInfo) []SchemaInfo { return append(s, SchemaInfo{Name: "extra", PhysicalType: "INT64"}) },
			kind:   KindRooms,
		},
		{
			name:    "missing column",
			mutate:  func(s []SchemaInfo) []SchemaInfo { return s[1:] },
			kind:    KindRooms,
			wantErr: ErrIncompatibleFile,
		},
		{
			name: "wrong type",
			mutate: func(s []SchemaInfo) []SchemaInfo {
				for i := range s {
					if s[i].Name == "seats" {
						s[i].PhysicalType = "INT64"
					}
				}
				return s
			},
			kind:    KindRooms,
			wantErr: ErrIncompatibleFile,
		},
		{
			name: "repeated",
			mutate: func(s []SchemaInfo) []SchemaInfo {
				s[0].Repeated = true
				return s
			},
			kind:    KindRooms,
			wantErr: ErrIncompatibleFile,
		},
		{
			name:    "unknown kind",
			mutate:  func(s []SchemaInfo) []SchemaInfo { return s },
			kind:    Kind("books"),
			wantErr: ErrUnknownKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckCompatible(tt.kind, tt.mutate(valid()))
			if tt.wantErr == nil && err != nil {
				t.Errorf("CheckCompatible() error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("CheckCompatible() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
