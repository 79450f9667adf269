package articlequery

import (
	"strconv"

	"github.com/helixir/newsboard-service/internal/domain"
)

const (
	// DefaultLimit is the page size when limit is omitted.
	DefaultLimit = 10
	// DefaultPage is the page number when p is omitted.
	DefaultPage = 1
	// UnboundedLimit is the literal limit value that disables pagination.
	UnboundedLimit = "null"
)

// Window is a validated pagination request.
type Window struct {
	Limit int
	Page  int
	// Unbounded disables windowing; Limit and Page are ignored.
	Unbounded bool
}

// Offset is the index of the first row in the window.
func (w Window) Offset() int {
	return (w.Page - 1) * w.Limit
}

// Page is one window of an ordered result plus the size of the whole result.
type Page[T any] struct {
	Items      []T
	TotalCount int
}

// ParseWindow validates the limit and p query values. The literal "null" is
// the only value that disables pagination; p is not inspected in that case.
func ParseWindow(limitRaw, pageRaw string) (Window, error) {
	if limitRaw == UnboundedLimit {
		return Window{Unbounded: true}, nil
	}

	limit, err := parsePositive(limitRaw, DefaultLimit)
	if err != nil {
		return Window{}, domain.NewQueryParamError(domain.ParamLimit, limitRaw)
	}

	page, err := parsePositive(pageRaw, DefaultPage)
	if err != nil {
		return Window{}, domain.NewQueryParamError(domain.ParamPage, pageRaw)
	}

	return Window{Limit: limit, Page: page}, nil
}

func parsePositive(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, strconv.ErrRange
	}
	return n, nil
}

// Paginate slices rows according to w. An empty input always yields an empty
// page; otherwise a window starting past the last row is an invalid page.
func Paginate[T any](rows []T, w Window) (Page[T], error) {
	total := len(rows)
	if total == 0 {
		return Page[T]{Items: []T{}, TotalCount: 0}, nil
	}
	if w.Unbounded {
		return Page[T]{Items: rows, TotalCount: total}, nil
	}

	// Compared by division so huge limit or p values cannot overflow.
	if w.Page-1 > (total-1)/w.Limit {
		return Page[T]{}, domain.NewQueryParamError(domain.ParamPage, strconv.Itoa(w.Page))
	}
	start := w.Offset()
	end := total
	if w.Limit < total-start {
		end = start + w.Limit
	}

	return Page[T]{Items: rows[start:end], TotalCount: total}, nil
}
