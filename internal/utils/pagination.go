package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-board/internal/constants"
)

// PaginationParams selects one page of a list query. Page starts at 1.
type PaginationParams struct {
	Page  int
	Limit int
}

// Offset is the number of rows before the page.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ParsePagination reads ?page= and ?limit=. Missing or malformed values give
// the first page of DefaultPageSize rows; a limit above MaxPageSize is capped.
func ParsePagination(c *gin.Context) PaginationParams {
	params := PaginationParams{Page: 1, Limit: constants.DefaultPageSize}

	if page, err := strconv.Atoi(c.Query("page")); err == nil && page >= 1 {
		params.Page = page
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit >= constants.MinPageSize {
		params.Limit = min(limit, constants.MaxPageSize)
	}
	return params
}
