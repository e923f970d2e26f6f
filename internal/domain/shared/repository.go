package shared

import "context"

// Filter represents limit/offset query options shared by list operations
type Filter struct {
	Limit    int
	Offset   int
	OrderBy  string
	OrderDir string
	Filters  map[string]interface{}
}

// DefaultFilter returns a filter with default values
func DefaultFilter() Filter {
	return Filter{
		Limit:    50,
		Offset:   0,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}
}

// Paginated represents a limit/offset paginated result
type Paginated[T any] struct {
	Data    []T   `json:"data"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"hasMore"`
}

// NewPaginated creates a new paginated result
func NewPaginated[T any](data []T, total int64, limit, offset int) Paginated[T] {
	return Paginated[T]{
		Data:    data,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+len(data)) < total,
	}
}

// TransactionScope runs a unit of work atomically. Implementations hand the
// callback a repository set bound to the same transaction.
type TransactionScope[T any] interface {
	Execute(ctx context.Context, fn func(ctx context.Context, repos T) error) error
}
