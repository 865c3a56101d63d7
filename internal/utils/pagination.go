package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/storyreel/storyreel-api/internal/constants"
)

// PaginationParams is a validated page window shared by the revision,
// video, and audit-log listings.
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// PaginationResponse is the pagination block attached to listing responses.
type PaginationResponse struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// GetPaginationParams reads page and limit from the query string and
// clamps them to sane bounds. Malformed or out-of-range values fall back
// to the defaults rather than erroring; a bad page number is not worth a
// 400 on a listing.
func GetPaginationParams(c *gin.Context) PaginationParams {
	page := intQuery(c, "page", 1)
	if page < 1 {
		page = 1
	}

	limit := intQuery(c, "limit", constants.DefaultPageSize)
	if limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

func intQuery(c *gin.Context, key string, fallback int) int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return fallback
	}
	return value
}
