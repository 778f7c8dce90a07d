package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// Formats accepted by Write
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// JSON writes data as indented JSON to w
func JSON(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// JSONCompact writes data as single-line JSON to w
func JSONCompact(w io.Writer, data interface{}) error {
	return json.NewEncoder(w).Encode(data)
}

// Write renders data in the given format
func Write(w io.Writer, format string, term *Terminal, data interface{}) error {
	switch format {
	case FormatJSON:
		return JSON(w, data)
	case FormatTable, "":
		return Table(w, term, data)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

// ValidFormat reports whether format is accepted by Write
func ValidFormat(format string) bool {
	return format == FormatJSON || format == FormatTable || format == ""
}
