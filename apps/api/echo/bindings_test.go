package echoapi_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	. "github.com/trezcool/fomu/apps/api/echo"
	"github.com/trezcool/fomu/core"
)

func TestOrdering_Bind(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []core.DBOrdering
	}{
		{name: "no query", query: ""},
		{name: "empty ordering", query: "?ordering="},
		{name: "lone dash", query: "?ordering=-"},
		{name: "only commas", query: "?ordering=,,%20,"},
		{
			name:  "mixed",
			query: "?ordering=-,title,,%20-%20created_at%20",
			want:  []core.DBOrdering{{Field: "title", Ascending: true}, {Field: "created_at"}},
		},
		{
			name:  "repeated param",
			query: "?ordering=purpose&ordering=-updated_at",
			want:  []core.DBOrdering{{Field: "purpose", Ascending: true}, {Field: "updated_at"}},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/forms"+tc.query, nil)
			ctx := echo.New().NewContext(req, httptest.NewRecorder())

			var ord Ordering
			ord.Bind(ctx)
			assert.Equal(t, tc.want, ord.Orderings)
		})
	}
}
