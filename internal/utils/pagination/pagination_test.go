package pagination

import (
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, query string) Pagination {
	t.Helper()
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(ParseFromRequest(c))
	})
	resp, err := app.Test(httptest.NewRequest("GET", "/"+query, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var p Pagination
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
	return p
}

func TestParseFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		page   int
		limit  int
		offset int
	}{
		{"defaults", "", 1, DefaultLimit, 0},
		{"explicit", "?page=3&limit=10", 3, 10, 20},
		{"garbage", "?page=x&limit=-4", 1, DefaultLimit, 0},
		{"limit capped", "?limit=5000", 1, MaxLimit, 0},
		{"page capped", "?page=" + strconv.Itoa(MaxPage+1) + "&limit=100", MaxPage, MaxLimit, (MaxPage - 1) * MaxLimit},
		{"page near int max", "?page=9223372036854775807&limit=100", MaxPage, MaxLimit, (MaxPage - 1) * MaxLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parse(t, tt.query)
			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, tt.limit, p.Limit)
			assert.Equal(t, tt.offset, p.Offset)
			assert.GreaterOrEqual(t, p.Offset, 0)
		})
	}
}

func TestResponseTotalPages(t *testing.T) {
	meta := Response(Pagination{Page: 1, Limit: 20, Total: 41}, nil)["meta"].(fiber.Map)
	assert.Equal(t, int64(3), meta["total_pages"])
}
