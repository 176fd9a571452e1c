package dataset

import (
	"fmt"
	"os"

	"github.com/segmentio/parquet-go"
)

// SchemaInfo represents metadata about a single column in a Parquet file.
type SchemaInfo struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	PhysicalType string `json:"physical_type"`
	LogicalType  string `json:"logical_type"`
	Required     bool   `json:"required"`
	Optional     bool   `json:"optional"`
	Repeated     bool   `json:"repeated"`
}

// ExtractSchemaInfo extracts schema information from a Parquet file.
//
// For nested types, field names use dot notation (e.g., "address.street").
func ExtractSchemaInfo(path string) ([]SchemaInfo, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pqFile, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	var schemaInfos []SchemaInfo
	for _, field := range pqFile.Schema().Fields() {
		schemaInfos = append(schemaInfos, extractFieldInfo(field, "", false)...)
	}
	return schemaInfos, nil
}

// CheckCompatible reports whether a file with the given columns can be read
// as rows of kind: every field of the kind must be present as a flat,
// non-repeated column, numeric fields as DOUBLE and textual ones as
// BYTE_ARRAY. Extra columns are ignored.
func CheckCompatible(kind Kind, infos []SchemaInfo) error {
	fields := Schema(kind)
	if fields == nil {
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	columns := make(map[string]SchemaInfo, len(infos))
	for _, info := range infos {
		columns[info.Name] = info
	}
	for _, f := range fields {
		col, ok := columns[f.Name]
		if !ok {
			return fmt.Errorf("%w: missing %s column %q", ErrIncompatibleFile, kind, f.Name)
		}
		if col.Repeated {
			return fmt.Errorf("%w: column %q is repeated", ErrIncompatibleFile, f.Name)
		}
		want := "DOUBLE"
		if f.Type == Text {
			want = "BYTE_ARRAY"
		}
		if col.PhysicalType != want {
			return fmt.Errorf("%w: column %q is %s, want %s", ErrIncompatibleFile, f.Name, col.PhysicalType, want)
		}
	}
	return nil
}

// extractFieldInfo recursively extracts schema information from a field,
// tracking whether any parent field is repeated. The prefix builds
// dot-notation names for nested fields.
func extractFieldInfo(field parquet.Field, prefix string, parentRepeated bool) []SchemaInfo {
	fieldName := field.Name()
	if prefix != "" {
		fieldName = prefix + "." + fieldName
	}
	isRepeated := parentRepeated || field.Repeated()

	// Groups only contribute their leaves
	if children := field.Fields(); len(children) > 0 {
		var infos []SchemaInfo
		for _, child := range children {
			infos = append(infos, extractFieldInfo(child, fieldName, isRepeated)...)
		}
		return infos
	}

	return []SchemaInfo{{
		Name:         fieldName,
		Type:         getUserFriendlyType(field),
		PhysicalType: getPhysicalType(field),
		LogicalType:  getLogicalType(field),
		Required:     field.Required(),
		Optional:     field.Optional(),
		Repeated:     isRepeated,
	}}
}

var physicalTypes = map[parquet.Kind]string{
	parquet.Boolean:           "BOOLEAN",
	parquet.Int32:             "INT32",
	parquet.Int64:             "INT64",
	parquet.Int96:             "INT96",
	parquet.Float:             "FLOAT",
	parquet.Double:            "DOUBLE",
	parquet.ByteArray:         "BYTE_ARRAY",
	parquet.FixedLenByteArray: "FIXED_LEN_BYTE_ARRAY",
}

// getPhysicalType returns the physical type name of a Parquet field.
func getPhysicalType(field parquet.Field) string {
	if field.Type() == nil {
		return "GROUP"
	}
	if name, ok := physicalTypes[field.Type().Kind()]; ok {
		return name
	}
	return "UNKNOWN"
}

// getLogicalType returns the logical type name of a Parquet field.
func getLogicalType(field parquet.Field) string {
	if field.Type() == nil {
		return ""
	}
	logicalType := field.Type().LogicalType()
	if logicalType == nil {
		return ""
	}
	return logicalType.String()
}

// getUserFriendlyType maps a column to the query type it would be read as.
func getUserFriendlyType(field parquet.Field) string {
	switch getPhysicalType(field) {
	case "DOUBLE", "FLOAT", "INT32", "INT64":
		return Numeric.String()
	case "BYTE_ARRAY", "FIXED_LEN_BYTE_ARRAY":
		return Text.String()
	default:
		return getPhysicalType(field)
	}
}
