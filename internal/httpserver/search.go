package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/divaskloset/storefront/internal/logging"
	"github.com/divaskloset/storefront/internal/service/search"
)

type SearchHTTP struct {
	Svc *search.Service
}

func (h *SearchHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product_search")

	params := search.Params{
		Query:    c.QueryParam("q"),
		Category: c.QueryParam("category"),
		MinPrice: parseFloatDefault(c.QueryParam("minPrice"), 0),
		MaxPrice: parseFloatDefault(c.QueryParam("maxPrice"), 0),
		SortBy:   c.QueryParam("sortBy"),
		Page:     parseIntDefault(c.QueryParam("page"), 1),
		Limit:    parseIntDefault(c.QueryParam("limit"), 0),
	}

	res, err := h.Svc.Search(ctx, params)
	if err != nil {
		l.Warn("search_failed", "query", params.Query, "error", err)
		return serveError(c, err, http.StatusBadRequest, "search")
	}
	return c.JSON(http.StatusOK, res)
}
