package utils

import (
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateInviteCode_Format(t *testing.T) {
	code, err := GenerateInviteCode()
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9A-F]{4}-[0-9A-F]{4}-[0-9A-F]{4}$`), code)
	assert.Equal(t, code, NormalizeInviteCode("  "+code+"\n"))
}

func TestNormalizeInviteCode(t *testing.T) {
	assert.Equal(t, "3F9A-0C1D-77BE", NormalizeInviteCode(" 3f9a-0c1d-77be "))
}

func TestGenerateToken_HashMatches(t *testing.T) {
	token, hash, err := GenerateToken()
	require.NoError(t, err)

	assert.Len(t, hash, 64)
	assert.Equal(t, HashToken(token), hash)

	other, _, err := GenerateToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestParsePagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		query  string
		page   int
		limit  int
		offset int
	}{
		{"", 1, 20, 0},
		{"?page=3&limit=10", 3, 10, 20},
		{"?page=0&limit=0", 1, 20, 0},
		{"?page=2&limit=500", 2, 100, 100},
		{"?page=abc&limit=-4", 1, 20, 0},
	}

	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/projects"+tc.query, nil)

		params := ParsePagination(c)
		assert.Equal(t, tc.page, params.Page, tc.query)
		assert.Equal(t, tc.limit, params.Limit, tc.query)
		assert.Equal(t, tc.offset, params.Offset(), tc.query)
	}
}
