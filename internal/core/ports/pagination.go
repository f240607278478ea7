package ports

import "strings"

const (
	DefaultPageLimit = 10
	DefaultPage      = 1
)

// PageOptions carries the query options accepted by every paginated listing.
// SortBy is a comma-separated list of "field:direction" pairs (direction
// "asc" or "desc", "asc" when omitted) applied in listed order.
type PageOptions struct {
	SortBy string
	Limit  int
	Page   int
}

// Normalize returns the effective limit and page, substituting defaults for
// absent or non-positive values.
func (o PageOptions) Normalize() (limit, page int) {
	limit = o.Limit
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	page = o.Page
	if page <= 0 {
		page = DefaultPage
	}
	return limit, page
}

// Skip returns the number of documents to skip for the normalized page.
func (o PageOptions) Skip() int {
	limit, page := o.Normalize()
	return (page - 1) * limit
}

// SortKey is a single parsed sort criterion.
type SortKey struct {
	Field string
	Desc  bool
}

// ParseSortBy parses a "field:direction,field2:direction" expression into
// ordered sort keys. Empty segments and blank fields are dropped; any
// direction other than "desc" sorts ascending.
func ParseSortBy(sortBy string) []SortKey {
	if strings.TrimSpace(sortBy) == "" {
		return nil
	}

	parts := strings.Split(sortBy, ",")
	keys := make([]SortKey, 0, len(parts))
	for _, part := range parts {
		field, dir, _ := strings.Cut(strings.TrimSpace(part), ":")
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		keys = append(keys, SortKey{
			Field: field,
			Desc:  strings.EqualFold(strings.TrimSpace(dir), "desc"),
		})
	}
	return keys
}

// TotalPages returns ceil(total/limit) for a normalized limit.
func TotalPages(total int64, limit int) int {
	if total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// Page is the normalized result envelope returned by paginated queries.
type Page[T any] struct {
	Results      []T   `json:"results"`
	Page         int   `json:"page"`
	Limit        int   `json:"limit"`
	TotalPages   int   `json:"totalPages"`
	TotalResults int64 `json:"totalResults"`
}

// NewPage assembles the envelope for one page of results. results must
// already be the slice for the requested page (at most limit entries).
func NewPage[T any](results []T, total int64, opts PageOptions) *Page[T] {
	limit, page := opts.Normalize()
	if results == nil {
		results = []T{}
	}
	return &Page[T]{
		Results:      results,
		Page:         page,
		Limit:        limit,
		TotalPages:   TotalPages(total, limit),
		TotalResults: total,
	}
}
