// Package catalog holds the filtering and presentation logic shared by the
// public library and the admin console: the FilterRequest value object with
// its URL query codec, the pending/committed filter state transitions, and
// the mapper that turns stored rows into display records.
package catalog

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"
)

const PageSize = 12

type SortOrder string

const (
	SortRecent SortOrder = "recent"
	SortOldest SortOrder = "oldest"
)

const maxSearchLen = 120

// FilterRequest is the canonical, serializable description of one catalog
// query. It is ephemeral: built from a URL, handed to the query builder,
// never persisted.
type FilterRequest struct {
	Search     string    `json:"q,omitempty"`
	Categories []string  `json:"categories,omitempty"`
	Tags       []string  `json:"tags,omitempty"`
	Statuses   []string  `json:"statuses,omitempty"`
	Sort       SortOrder `json:"sort"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
}

// SanitizeSearch strips characters that break the substring pattern and
// caps the term. Values are parameterized separately by the store; this is
// not a security boundary.
func SanitizeSearch(s string) string {
	if utf8.RuneCountInString(s) > maxSearchLen {
		runes := []rune(s)
		s = string(runes[:maxSearchLen])
	}
	s = strings.Map(func(r rune) rune {
		switch r {
		case '"', '\'', '%', ';':
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// sanitizeFacet keeps slug-safe characters only and drops duplicates,
// preserving order.
func sanitizeFacet(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(strings.Map(func(r rune) rune {
			if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_' {
				return r
			}
			return -1
		}, v))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func ensureSingle(values []string) []string {
	if len(values) > 1 {
		return values[:1]
	}
	return values
}

// ParseQuery resolves a raw query string into a FilterRequest using the
// shared key conventions: repeated keys are set membership, a missing key
// means no restriction, page defaults to 1 and sort to recent.
func ParseQuery(q url.Values) FilterRequest {
	req := FilterRequest{
		Search:     SanitizeSearch(q.Get("q")),
		Categories: sanitizeFacet(q["category"]),
		Tags:       sanitizeFacet(q["tag"]),
		Statuses:   sanitizeFacet(q["status"]),
		Sort:       SortRecent,
		Page:       1,
		PageSize:   PageSize,
	}
	if q.Get("sort") == string(SortOldest) {
		req.Sort = SortOldest
	}
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		req.Page = p
	}
	return req
}

// ParseLibraryQuery is ParseQuery with the public-library restrictions
// applied: at most one category, status pinned to nothing (the caller fixes
// published), any status parameter ignored.
func ParseLibraryQuery(q url.Values) FilterRequest {
	req := ParseQuery(q)
	req.Categories = ensureSingle(req.Categories)
	req.Statuses = nil
	return req
}

// Values serializes the request back to its canonical query string form.
// Defaults are omitted so equal filters always produce equal URLs.
func (f FilterRequest) Values() url.Values {
	v := url.Values{}
	if f.Search != "" {
		v.Set("q", f.Search)
	}
	for _, c := range f.Categories {
		v.Add("category", c)
	}
	for _, t := range f.Tags {
		v.Add("tag", t)
	}
	for _, s := range f.Statuses {
		v.Add("status", s)
	}
	if f.Sort == SortOldest {
		v.Set("sort", string(f.Sort))
	}
	if f.Page > 1 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	return v
}

// Offset is the window start for the current page.
func (f FilterRequest) Offset() int {
	size := f.PageSize
	if size <= 0 {
		size = PageSize
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * size
}

// TotalPages reports the page count for a result set, never below 1.
func TotalPages(totalCount, pageSize int) int {
	if pageSize <= 0 {
		pageSize = PageSize
	}
	if totalCount < 0 {
		totalCount = 0
	}
	pages := int(math.Ceil(float64(totalCount) / float64(pageSize)))
	if pages < 1 {
		pages = 1
	}
	return pages
}

// ClampPage forces page into [1, TotalPages]. Out-of-range pages are a
// silent correction, never an error.
func ClampPage(page, totalCount, pageSize int) int {
	if page < 1 {
		return 1
	}
	if max := TotalPages(totalCount, pageSize); page > max {
		return max
	}
	return page
}
