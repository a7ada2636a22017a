package employee

import "strings"

// SortOrder は並び順です。
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder は大文字小文字を区別せずに asc/desc を解釈します。空文字は asc とみなします。
func ParseSortOrder(raw string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(SortAsc):
		return SortAsc, nil
	case string(SortDesc):
		return SortDesc, nil
	default:
		return "", ErrInvalidSortOrder
	}
}

// SQL は ORDER BY 句で使用するキーワードを返します。
func (o SortOrder) SQL() string {
	if o == SortDesc {
		return "DESC"
	}
	return "ASC"
}
