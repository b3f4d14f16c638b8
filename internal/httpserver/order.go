package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/divaskloset/storefront/internal/logging"
	"github.com/divaskloset/storefront/internal/service/order"
	"github.com/divaskloset/storefront/internal/util"
)

type OrderHTTP struct {
	Svc *order.Service
}

func (h *OrderHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order_create")

	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}

	var req order.CreateRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_error", "status", 400, "error", err)
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	o, err := h.Svc.Create(ctx, userID, req)
	if err != nil {
		l.Warn("create_order_failed", "error", err)
		return serveError(c, err, http.StatusNotFound, "create_order")
	}
	return c.JSON(http.StatusCreated, o)
}

func (h *OrderHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, orders, err := h.Svc.List(ctx, c.QueryParam("status"), offset, limit)
	if err != nil {
		return serveError(c, err, http.StatusNotFound, "list_orders")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": orders,
		"pagination": echo.Map{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": util.TotalPages(total, limit),
			"hasMore":    int64(offset+limit) < total,
		},
	})
}

func (h *OrderHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()

	o, err := h.Svc.Get(ctx, c.Param("id"))
	if err != nil {
		return serveError(c, err, http.StatusNotFound, "get_order")
	}
	return c.JSON(http.StatusOK, o)
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order_update_status")

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("update_order_error", "status", 400, "error", err)
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	o, err := h.Svc.UpdateStatus(ctx, c.Param("id"), req.Status)
	if err != nil {
		l.Warn("update_order_failed", "error", err)
		return serveError(c, err, http.StatusNotFound, "update_order")
	}
	return c.JSON(http.StatusOK, o)
}

func (h *OrderHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.Svc.Delete(ctx, c.Param("id")); err != nil {
		return serveError(c, err, http.StatusNotFound, "delete_order")
	}
	return c.NoContent(http.StatusNoContent)
}
