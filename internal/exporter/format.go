package exporter

import (
	"fmt"
	"math"
	"strconv"

	"github.com/go-gota/gota/series"
)

// formatFloat formats a float64 for CSV output using the shortest string
// that parses back to the same value, so 13.4 stays 13.4 and 7 stays 7
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return fmt.Sprintf("%d", i)
}

// formatBool formats a boolean value for CSV output
func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// formatValue renders one data frame element as a CSV cell. Missing values
// become empty cells regardless of column type.
func formatValue(e series.Element, t series.Type) string {
	if e.IsNA() {
		return ""
	}
	if t == series.Float {
		f := e.Float()
		if math.IsNaN(f) {
			return ""
		}
		return formatFloat(f)
	}
	return e.String()
}
