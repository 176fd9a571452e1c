package dataset

import "slices"

// FieldType tags a field as numeric or textual.
type FieldType int

const (
	Numeric FieldType = iota
	Text
)

func (t FieldType) String() string {
	switch t {
	case Numeric:
		return "number"
	case Text:
		return "string"
	default:
		return "unknown"
	}
}

// Field describes one queryable field of a dataset kind.
//
// Value returns float64 for numeric fields and string for textual ones. It
// reports false when the row is not of the kind the field belongs to.
type Field struct {
	Name string
	Type FieldType
	get  func(Row) (any, bool)
}

// Value reads the field from row.
func (f Field) Value(row Row) (any, bool) {
	if f.get == nil || row == nil {
		return nil, false
	}
	return f.get(row)
}

func textField[T Row](name string, get func(T) string) Field {
	return Field{Name: name, Type: Text, get: func(r Row) (any, bool) {
		v, ok := r.(T)
		if !ok {
			return nil, false
		}
		return get(v), true
	}}
}

func numericField[T Row](name string, get func(T) float64) Field {
	return Field{Name: name, Type: Numeric, get: func(r Row) (any, bool) {
		v, ok := r.(T)
		if !ok {
			return nil, false
		}
		return get(v), true
	}}
}

var schemas = map[Kind][]Field{
	KindSections: {
		textField("uuid", func(s *Section) string { return s.UUID }),
		textField("id", func(s *Section) string { return s.ID }),
		textField("title", func(s *Section) string { return s.Title }),
		textField("instructor", func(s *Section) string { return s.Instructor }),
		textField("dept", func(s *Section) string { return s.Dept }),
		numericField("year", func(s *Section) float64 { return s.Year }),
		numericField("avg", func(s *Section) float64 { return s.Avg }),
		numericField("pass", func(s *Section) float64 { return s.Pass }),
		numericField("fail", func(s *Section) float64 { return s.Fail }),
		numericField("audit", func(s *Section) float64 { return s.Audit }),
	},
	KindRooms: {
		textField("fullname", func(r *Room) string { return r.Fullname }),
		textField("shortname", func(r *Room) string { return r.Shortname }),
		textField("number", func(r *Room) string { return r.Number }),
		textField("name", func(r *Room) string { return r.Name }),
		textField("address", func(r *Room) string { return r.Address }),
		textField("type", func(r *Room) string { return r.Type }),
		textField("furniture", func(r *Room) string { return r.Furniture }),
		textField("href", func(r *Room) string { return r.Href }),
		numericField("lat", func(r *Room) float64 { return r.Lat }),
		numericField("lon", func(r *Room) float64 { return r.Lon }),
		numericField("seats", func(r *Room) float64 { return r.Seats }),
	},
}

var fieldIndex = func() map[Kind]map[string]Field {
	idx := make(map[Kind]map[string]Field, len(schemas))
	for kind, fields := range schemas {
		byName := make(map[string]Field, len(fields))
		for _, f := range fields {
			byName[f.Name] = f
		}
		idx[kind] = byName
	}
	return idx
}()

// Schema returns the field table of kind in declaration order, or nil for an
// unknown kind.
func Schema(kind Kind) []Field {
	return slices.Clone(schemas[kind])
}

// LookupField finds a field of kind by name. Names are case-sensitive.
func LookupField(kind Kind, name string) (Field, bool) {
	f, ok := fieldIndex[kind][name]
	return f, ok
}
