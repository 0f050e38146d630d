package feed

import "strings"

// ParseCSV converts raw delimited text into a field matrix. It is deliberately
// tolerant: spreadsheet exports in the wild carry BOMs, CRLF line endings,
// quoted fields with embedded separators and newlines, and rows shorter than
// the header. Nothing here returns an error; malformed quoting is recovered
// best-effort with a greedy quote toggle, and an unbalanced quote at EOF is
// treated as implicitly closed.
func ParseCSV(text string) [][]string {
	text = strings.TrimPrefix(text, "\uFEFF")

	var (
		rows  [][]string
		row   []string
		field strings.Builder
	)
	inQuotes := false

	endField := func() {
		row = append(row, field.String())
		field.Reset()
	}
	endRow := func() {
		endField()
		rows = append(rows, row)
		row = nil
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(text) && text[i+1] == '"' {
				// Doubled quote inside a quoted field is one literal quote.
				field.WriteByte('"')
				i++
				continue
			}
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			endField()
		case (c == '\n' || c == '\r') && !inQuotes:
			if c == '\r' && i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			endRow()
		default:
			field.WriteByte(c)
		}
	}
	if field.Len() > 0 || len(row) > 0 {
		endRow()
	}

	return normalizeMatrix(rows)
}

// normalizeMatrix drops fully-empty trailing rows and right-pads short rows to
// the header width so downstream code can index by header position safely.
func normalizeMatrix(rows [][]string) [][]string {
	for len(rows) > 0 && emptyRow(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	if len(rows) == 0 {
		return rows
	}

	width := len(rows[0])
	for i, row := range rows {
		for len(row) < width {
			row = append(row, "")
		}
		rows[i] = row
	}
	return rows
}

func emptyRow(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
