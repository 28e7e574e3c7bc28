package pagination

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 24
	// MaxLimit caps how many rows any listing query can request.
	MaxLimit = 100
)

// Params holds offset pagination inputs from controllers or services.
type Params struct {
	Page  int
	Limit int
}

// Page describes one page of results alongside listing totals.
type Page struct {
	Page      int   `json:"page"`
	Limit     int   `json:"limit"`
	Total     int64 `json:"total"`
	PageCount int   `json:"page_count"`
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// NormalizePage clamps the page number to 1 or greater.
func NormalizePage(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}

// Normalize returns the params with both fields clamped.
func Normalize(params Params) Params {
	return Params{
		Page:  NormalizePage(params.Page),
		Limit: NormalizeLimit(params.Limit),
	}
}

// Offset converts the normalized params into a row offset.
func (p Params) Offset() int {
	normalized := Normalize(p)
	return (normalized.Page - 1) * normalized.Limit
}

// NewPage computes listing metadata for the given total row count.
func NewPage(params Params, total int64) Page {
	normalized := Normalize(params)
	pageCount := int((total + int64(normalized.Limit) - 1) / int64(normalized.Limit))
	if pageCount < 1 {
		pageCount = 1
	}
	return Page{
		Page:      normalized.Page,
		Limit:     normalized.Limit,
		Total:     total,
		PageCount: pageCount,
	}
}
