package exporter

import (
	"strconv"
)

// formatFloat writes the shortest representation that round-trips.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// formatCell renders a view cell; nil (unknown) becomes an empty field.
func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return formatFloat(x)
	case int64:
		return formatInt(x)
	case int:
		return strconv.Itoa(x)
	default:
		return ""
	}
}

func formatRow(cells []any) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = formatCell(c)
	}
	return out
}
