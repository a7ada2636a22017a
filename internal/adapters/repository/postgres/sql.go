package postgres

import (
	"strconv"
	"strings"
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	stringTooLongCode       = "22001"
)

// valuesPlaceholders は複数行 INSERT 用の "($1, $2), ($3, $4)" 形式のプレースホルダを生成します。
func valuesPlaceholders(rows, cols int) string {
	var b strings.Builder
	n := 1
	for r := 0; r < rows; r++ {
		if r > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for c := 0; c < cols; c++ {
			if c > 0 {
				b.WriteString(", ")
			}
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			n++
		}
		b.WriteByte(')')
	}
	return b.String()
}

func nullableString(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}
