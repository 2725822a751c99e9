package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/fomu/core"
)

const orderingParam = "ordering"

// Ordering binds `?ordering=title,-created_at` (repeatable) into DB orderings.
type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	for _, val := range ctx.QueryParams()[orderingParam] {
		for _, field := range strings.Split(val, ",") {
			field = strings.TrimSpace(field)
			descending := strings.HasPrefix(field, "-")
			field = strings.TrimSpace(strings.TrimPrefix(field, "-"))
			if field == "" {
				continue
			}
			ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
		}
	}
}
