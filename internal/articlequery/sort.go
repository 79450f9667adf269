package articlequery

import (
	"strings"

	"github.com/helixir/newsboard-service/internal/domain"
)

// Defaults applied when the caller omits sort_by or order.
const (
	DefaultSort  = domain.SortByCreatedAt
	DefaultOrder = domain.SortDesc
)

var sortWhitelist = func() map[string]domain.SortColumn {
	m := make(map[string]domain.SortColumn, len(domain.SortColumns))
	for _, c := range domain.SortColumns {
		m[string(c)] = c
	}
	return m
}()

// ParseSort resolves sort_by. Matching is exact.
func ParseSort(raw string) (domain.SortColumn, error) {
	if raw == "" {
		return DefaultSort, nil
	}
	col, ok := sortWhitelist[raw]
	if !ok {
		return "", domain.NewQueryParamError(domain.ParamSort, raw)
	}
	return col, nil
}

// ParseOrder resolves order. Matching is case-insensitive.
func ParseOrder(raw string) (domain.SortOrder, error) {
	if raw == "" {
		return DefaultOrder, nil
	}
	switch domain.SortOrder(strings.ToLower(raw)) {
	case domain.SortAsc:
		return domain.SortAsc, nil
	case domain.SortDesc:
		return domain.SortDesc, nil
	default:
		return "", domain.NewQueryParamError(domain.ParamOrder, raw)
	}
}
