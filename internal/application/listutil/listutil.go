package listutil

import (
	"net/url"
	"strings"
)

// SortParams carries sorting parameters parsed from a request.
type SortParams struct {
	Sort string // column name; empty means default order
	Dir  string // "asc" or "desc"
}

// ListParams combines the table view parameters for the preview page.
type ListParams struct {
	SortParams
	Search string // case-insensitive substring match on name or student id
}

// MaxSearchLength bounds the search box input.
const MaxSearchLength = 50

// ParseSortParams extracts sort and dir from URL query values.
// PRE: none
// POST: returns SortParams; Dir is always "asc" or "desc"; Sort is empty or in allowedColumns
func ParseSortParams(q url.Values, allowedColumns []string) SortParams {
	sort := q.Get("sort")
	dir := q.Get("dir")

	if !isAllowedColumn(sort, allowedColumns) {
		sort = ""
	}
	if dir != "asc" && dir != "desc" {
		dir = "asc"
	}
	return SortParams{Sort: sort, Dir: dir}
}

// ParseSearch extracts the trimmed free-text query.
// POST: result has at most MaxSearchLength runes
func ParseSearch(q url.Values) string {
	s := strings.TrimSpace(q.Get("q"))
	if r := []rune(s); len(r) > MaxSearchLength {
		s = string(r[:MaxSearchLength])
	}
	return s
}

// ParseListParams parses all list parameters from URL query values.
func ParseListParams(q url.Values, allowedSortCols []string) ListParams {
	return ListParams{
		SortParams: ParseSortParams(q, allowedSortCols),
		Search:     ParseSearch(q),
	}
}

// NextDir returns the direction a column header link should request.
// Clicking the active column flips it; any other column starts ascending.
func (s SortParams) NextDir(col string) string {
	if s.Sort == col && s.Dir == "asc" {
		return "desc"
	}
	return "asc"
}

// Indicator returns the arrow shown next to col's header, or "".
func (s SortParams) Indicator(col string) string {
	if s.Sort != col {
		return ""
	}
	if s.Dir == "desc" {
		return "▼"
	}
	return "▲"
}

// Matches reports whether any of fields contains search, ignoring case.
// An empty search matches everything.
func Matches(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func isAllowedColumn(col string, allowed []string) bool {
	for _, a := range allowed {
		if col == a {
			return true
		}
	}
	return false
}
