package main

import (
	"log"
	"os"

	"github.com/segmentio/parquet-go"

	"github.com/vegasq/insight/dataset"
)

func writeFile[T any](name string, rows []T) {
	file, err := os.Create(name)
	if err != nil {
		log.Fatal(err)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(rows); err != nil {
		log.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		log.Fatal(err)
	}
	log.Printf("Generated %s with %d rows", name, len(rows))
}

func main() {
	sections := []dataset.Section{
		{UUID: "1", ID: "310", Title: "softw eng", Instructor: "smith", Dept: "cpsc", Year: 2015, Avg: 78.5, Pass: 90, Fail: 4, Audit: 1},
		{UUID: "2", ID: "310", Title: "softw eng", Instructor: "jones", Dept: "cpsc", Year: 2016, Avg: 82.25, Pass: 85, Fail: 2, Audit: 0},
		{UUID: "3", ID: "110", Title: "comp prog", Instructor: "lee", Dept: "cpsc", Year: 2016, Avg: 71, Pass: 200, Fail: 30, Audit: 2},
		{UUID: "4", ID: "100", Title: "calculus", Instructor: "kim", Dept: "math", Year: 2015, Avg: 68.4, Pass: 150, Fail: 25, Audit: 0},
		{UUID: "5", ID: "200", Title: "linear alg", Instructor: "kim", Dept: "math", Year: 1900, Avg: 74.1, Pass: 310, Fail: 12, Audit: 3},
		{UUID: "6", ID: "121", Title: "bio lab", Instructor: "", Dept: "biol", Year: 2014, Avg: 88.9, Pass: 40, Fail: 0, Audit: 0},
	}

	rooms := []dataset.Room{
		{Fullname: "Hugh Dempster Pavilion", Shortname: "DMP", Number: "110", Name: "DMP_110", Address: "6245 Agronomy Road V6T 1Z4", Type: "Tiered Large Group", Furniture: "Classroom-Fixed Tablets", Href: "http://students.ubc.ca/campus/discover/buildings-and-classrooms/room/DMP-110", Lat: 49.26125, Lon: -123.24807, Seats: 120},
		{Fullname: "Hugh Dempster Pavilion", Shortname: "DMP", Number: "201", Name: "DMP_201", Address: "6245 Agronomy Road V6T 1Z4", Type: "Small Group", Furniture: "Classroom-Movable Tables & Chairs", Href: "http://students.ubc.ca/campus/discover/buildings-and-classrooms/room/DMP-201", Lat: 49.26125, Lon: -123.24807, Seats: 40},
		{Fullname: "Walter C. Koerner Library", Shortname: "IBLC", Number: "182", Name: "IBLC_182", Address: "1961 East Mall V6T 1Z1", Type: "Case Style", Furniture: "Classroom-Fixed Tables/Moveable Chairs", Href: "http://students.ubc.ca/campus/discover/buildings-and-classrooms/room/IBLC-182", Lat: 49.26766, Lon: -123.2521, Seats: 150},
	}

	writeFile("sections.parquet", sections)
	writeFile("rooms.parquet", rooms)
}
