package common

import (
	"net/http"
	"strconv"
)

const maxPerPage = 100

// Pagination holds pagination metadata for list responses.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalItems int `json:"total_items"`
}

// ParsePagination extracts page and per-page parameters from query values.
// Per-page is capped so a single request cannot drag an unbounded result set.
func ParsePagination(r *http.Request, defaultPerPage int) (page, perPage int) {
	page = 1
	perPage = defaultPerPage
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		perPage = l
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return
}

// LimitOffset converts one-based page numbers into the LIMIT/OFFSET pair
// the generated queries take.
func LimitOffset(page, perPage int) (limit, offset int32) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}
	return int32(perPage), int32((page - 1) * perPage)
}

// AtoiDefault parses an integer query value, falling back when absent or
// malformed.
func AtoiDefault(value string, def int) int {
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}
