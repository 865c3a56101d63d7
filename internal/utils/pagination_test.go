package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/storyreel/storyreel-api/internal/constants"
	"github.com/stretchr/testify/require"
)

func paginationFor(t *testing.T, query string) PaginationParams {
	t.Helper()
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return GetPaginationParams(c)
}

func TestGetPaginationParams(t *testing.T) {
	defaults := paginationFor(t, "")
	require.Equal(t, 1, defaults.Page)
	require.Equal(t, constants.DefaultPageSize, defaults.Limit)
	require.Zero(t, defaults.Offset)

	window := paginationFor(t, "page=3&limit=25")
	require.Equal(t, 3, window.Page)
	require.Equal(t, 25, window.Limit)
	require.Equal(t, 50, window.Offset)

	// Out-of-range and malformed values fall back instead of erroring.
	clamped := paginationFor(t, "page=-2&limit=9999")
	require.Equal(t, 1, clamped.Page)
	require.Equal(t, constants.DefaultPageSize, clamped.Limit)

	garbage := paginationFor(t, "page=abc&limit=xyz")
	require.Equal(t, 1, garbage.Page)
	require.Equal(t, constants.DefaultPageSize, garbage.Limit)
}
