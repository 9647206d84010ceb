package zoning

// Dedupe removes rows that share a key with an earlier row, preserving the
// relative order of first occurrences. It never fails; rows with empty or
// missing fields simply participate in the key as empty strings.
func Dedupe(rows []RawRow) []RawRow {
	seen := make(map[RowKey]struct{}, len(rows))
	unique := make([]RawRow, 0, len(rows))

	for _, row := range rows {
		key := row.Key()
		if _, ok := seen[key]; ok {
			continue
		}

		seen[key] = struct{}{}
		unique = append(unique, row)
	}

	return unique
}
