// Package output provides formatters for query results.
//
// This package defines the Formatter interface and provides implementations
// for JSON Lines, CSV and text tables. All formatters work with rows
// represented as []map[string]interface{} plus the column order to write.
//
// # Supported Formats
//
//   - JSON Lines: One JSON object per line (suitable for streaming)
//   - CSV: Comma-separated values with header row
//   - Table: Aligned text table for terminals
//
// # Basic Usage
//
// Pick a formatter by name and write a result:
//
//	formatter, err := output.New("csv", os.Stdout)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := formatter.Format(result.Columns, result.Rows); err != nil {
//	    log.Fatal(err)
//	}
//
// # Writing to Different Destinations
//
// Change output destination dynamically:
//
//	formatter := output.NewJSONFormatter(os.Stdout)
//
//	file, err := os.Create("output.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer file.Close()
//
//	formatter.SetOutput(file)
//	if err := formatter.Format(columns, rows); err != nil {
//	    log.Fatal(err)
//	}
//
// # Column Order
//
// Keys are written in the order of the columns argument. When it is empty,
// the sorted union of the keys of all rows is used instead.
//
// # Type Handling
//
//   - Strings, numbers and booleans are output directly
//   - Null/nil values are written as null (JSON) or empty cells
//   - CSV cells starting with a formula character are prefixed with a quote
package output
