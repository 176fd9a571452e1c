package dataset

// Row is one record of a dataset. The concrete type is *Section or *Room;
// fields are read through the field table of the row's kind rather than by
// name lookups on the row itself.
type Row interface {
	Kind() Kind
}

// Section is one offering of a university course.
type Section struct {
	UUID       string  `parquet:"uuid" json:"uuid"`
	ID         string  `parquet:"id" json:"id"`
	Title      string  `parquet:"title" json:"title"`
	Instructor string  `parquet:"instructor" json:"instructor"`
	Dept       string  `parquet:"dept" json:"dept"`
	Year       float64 `parquet:"year" json:"year"`
	Avg        float64 `parquet:"avg" json:"avg"`
	Pass       float64 `parquet:"pass" json:"pass"`
	Fail       float64 `parquet:"fail" json:"fail"`
	Audit      float64 `parquet:"audit" json:"audit"`
}

// Kind implements Row.
func (*Section) Kind() Kind { return KindSections }

// Room is one bookable room of a campus building.
type Room struct {
	Fullname  string  `parquet:"fullname" json:"fullname"`
	Shortname string  `parquet:"shortname" json:"shortname"`
	Number    string  `parquet:"number" json:"number"`
	Name      string  `parquet:"name" json:"name"`
	Address   string  `parquet:"address" json:"address"`
	Type      string  `parquet:"type" json:"type"`
	Furniture string  `parquet:"furniture" json:"furniture"`
	Href      string  `parquet:"href" json:"href"`
	Lat       float64 `parquet:"lat" json:"lat"`
	Lon       float64 `parquet:"lon" json:"lon"`
	Seats     float64 `parquet:"seats" json:"seats"`
}

// Kind implements Row.
func (*Room) Kind() Kind { return KindRooms }
