package dto

import (
	"net/http"
	"parking/shared/constant"
	"slices"
	"strconv"
	"strings"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

type QueryParams struct {
	Page    int    `json:"page"     validate:"omitempty,min=1"`
	Limit   int    `json:"limit"    validate:"omitempty,min=1,max=100"`
	SortBy  string `json:"sort_by"  validate:"omitempty"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=ASC DESC"`
}

// FromRequest reads page, limit and sort parameters from the query string.
// With withDefaults set, missing page and limit fall back to the package defaults.
// Limit is always capped at constant.MaxValueLimit.
func (q *QueryParams) FromRequest(r *http.Request, withDefaults bool) {
	values := r.URL.Query()

	q.Page = positiveInt(values.Get(constant.RequestParamPage), q.Page)
	q.Limit = min(positiveInt(values.Get(constant.RequestParamLimit), q.Limit), constant.MaxValueLimit)

	if sortBy := strings.TrimSpace(values.Get(constant.RequestParamSortBy)); sortBy != "" {
		q.SortBy = sortBy
	}

	if sortDir := strings.ToUpper(values.Get(constant.RequestParamSortDir)); sortDir == SortDirAsc || sortDir == SortDirDesc {
		q.SortDir = sortDir
	}

	if !withDefaults {
		return
	}

	if q.Page == 0 {
		q.Page = constant.DefaultValuePage
	}

	if q.Limit == 0 {
		q.Limit = constant.DefaultValueLimit
	}
}

// Sanitize restricts SortBy to the allowed columns and qualifies it with table.
// Anything else falls back to fallback, so request input never reaches ORDER BY verbatim.
func (q *QueryParams) Sanitize(table, fallback string, allowed ...string) {
	if !slices.Contains(allowed, q.SortBy) {
		q.SortBy = fallback
		q.SortDir = SortDirDesc
	}

	if q.SortDir == "" {
		q.SortDir = SortDirAsc
	}

	if table != "" && !strings.Contains(q.SortBy, ".") {
		q.SortBy = table + "." + q.SortBy
	}
}

func positiveInt(raw string, current int) int {
	if raw == "" {
		return current
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return current
	}

	return n
}
