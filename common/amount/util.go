package amount

import "strings"

// formatFractional left pads the fractional digits to the full width and
// drops the trailing zeros for display.
func formatFractional(str string) string {
	padded := strings.Repeat("0", FractionalCount-len(str)) + str
	return strings.TrimRight(padded, "0")
}

// padFractional right pads the fractional digits to the full width so the
// string parses as the raw fractional integer.
func padFractional(str string) string {
	padded := str + strings.Repeat("0", FractionalCount-len(str))
	if trimmed := strings.TrimLeft(padded, "0"); len(trimmed) > 0 {
		return trimmed
	}
	return "0"
}
