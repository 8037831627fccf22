// Package csvtext reads and writes the loose comma separated text served by
// published spreadsheet exports.
//
// Decoding is deliberately lenient: quotes only toggle whether a comma splits
// a field, doubled quotes are not unescaped, and malformed input never fails.
package csvtext

import "strings"

// Decode splits text into rows on '\n' and each row into trimmed fields on ','
// outside double quotes. Quote characters are dropped from the output.
// Empty input yields a single row holding one empty field; callers drop rows
// whose first field is empty.
func Decode(text string) [][]string {
	lines := strings.Split(text, "\n")
	rows := make([][]string, 0, len(lines))

	for _, line := range lines {
		rows = append(rows, decodeLine(line))
	}

	return rows
}

func decodeLine(line string) []string {
	var (
		values   []string
		current  strings.Builder
		inQuotes bool
	)

	// Both delimiters are ASCII, so bytes are copied through unchanged,
	// invalid UTF-8 included.
	for i := 0; i < len(line); i++ {
		switch b := line[i]; {
		case b == '"':
			inQuotes = !inQuotes
		case b == ',' && !inQuotes:
			values = append(values, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(b)
		}
	}

	return append(values, strings.TrimSpace(current.String()))
}

// Encode renders a header and rows as CSV text joined by '\n' with no
// trailing newline. Values holding a comma or a quote are wrapped in quotes
// with inner quotes doubled.
func Encode(header []string, rows [][]string) string {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, strings.Join(header, ","))

	for _, row := range rows {
		cells := make([]string, len(row))
		for i, value := range row {
			cells[i] = Quote(value)
		}
		lines = append(lines, strings.Join(cells, ","))
	}

	return strings.Join(lines, "\n")
}

// Quote escapes a single value for Encode.
func Quote(value string) string {
	if !strings.ContainsAny(value, `,"`) {
		return value
	}
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}
