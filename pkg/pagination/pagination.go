package pagination

import (
	"net/http"
	"strconv"
)

const (
	defaultLimit = 25
	maxLimit     = 100
)

// Page holds normalized limit and offset values parsed from a request.
type Page struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// FromRequest reads limit and offset query parameters, clamping them to
// sane bounds.
func FromRequest(r *http.Request) Page {
	page := Page{Limit: defaultLimit}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page.Limit = parsed
		}
	}
	if page.Limit > maxLimit {
		page.Limit = maxLimit
	}

	if raw := r.URL.Query().Get("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page.Offset = parsed
		}
	}

	return page
}

// Meta describes a paginated listing in responses.
type Meta struct {
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
	Total  int64 `json:"total"`
}

func NewMeta(page Page, total int64) Meta {
	return Meta{Limit: page.Limit, Offset: page.Offset, Total: total}
}
