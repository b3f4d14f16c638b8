package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/divaskloset/storefront/internal/catalog"
	"github.com/divaskloset/storefront/internal/logging"
	"github.com/divaskloset/storefront/internal/service/product"
	"github.com/divaskloset/storefront/internal/util"
)

type ProductHTTP struct {
	Svc *product.Service
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func parseFloatDefault(s string, def float64) float64 {
	if s == "" {
		return def
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	return def
}

func (h *ProductHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()

	limit := parseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)
	offset := parseIntDefault(c.QueryParam("offset"), 0)
	if limit <= 0 || limit > util.MaxPageSize {
		limit = util.DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	total, items, err := h.Svc.List(ctx, c.QueryParam("category"), c.QueryParam("sort"), offset, limit)
	if err != nil {
		return serveError(c, err, http.StatusNotFound, "list_products")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": items,
		"pagination": echo.Map{
			"limit":      limit,
			"offset":     offset,
			"total":      total,
			"totalPages": util.TotalPages(total, limit),
			"hasMore":    int64(offset+limit) < total,
		},
	})
}

func (h *ProductHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()

	prod, err := h.Svc.Get(ctx, c.Param("id"))
	if err != nil {
		return serveError(c, err, http.StatusNotFound, "get_product")
	}
	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHTTP) Categories(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"data": catalog.All()})
}

func (h *ProductHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product_create")

	var req product.CreateRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_product_error", "status", 400, "error", err)
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	prod, err := h.Svc.Create(ctx, req)
	if err != nil {
		l.Warn("create_product_failed", "error", err)
		return serveError(c, err, http.StatusNotFound, "create_product")
	}
	return c.JSON(http.StatusCreated, prod)
}

func (h *ProductHTTP) Patch(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product_patch")

	var req product.PatchRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("patch_product_error", "status", 400, "error", err)
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	prod, err := h.Svc.Patch(ctx, c.Param("id"), req)
	if err != nil {
		l.Warn("patch_product_failed", "error", err)
		return serveError(c, err, http.StatusNotFound, "patch_product")
	}
	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.Svc.Delete(ctx, c.Param("id")); err != nil {
		return serveError(c, err, http.StatusNotFound, "delete_product")
	}
	return c.NoContent(http.StatusNoContent)
}
