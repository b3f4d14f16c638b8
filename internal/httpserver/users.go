package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/divaskloset/storefront/internal/logging"
	"github.com/divaskloset/storefront/internal/repo"
	"github.com/divaskloset/storefront/internal/util"
)

// UserHTTP is the admin panel's user management surface. It is plain CRUD,
// so it sits straight on the repository.
type UserHTTP struct {
	Repo *repo.GormRepo
}

func (h *UserHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, users, err := h.Repo.ListUsers(ctx, offset, limit)
	if err != nil {
		return serveError(c, err, http.StatusNotFound, "list_users")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": users,
		"pagination": echo.Map{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": util.TotalPages(total, limit),
			"hasMore":    int64(offset+limit) < total,
		},
	})
}

func (h *UserHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := h.Repo.GetUserByID(ctx, c.Param("id"))
	if err != nil {
		return serveError(c, err, http.StatusNotFound, "get_user")
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) Patch(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_patch")

	var req struct {
		FirstName *string `json:"firstName"`
		LastName  *string `json:"lastName"`
		Role      *string `json:"role"`
		Verified  *bool   `json:"verified"`
		Password  *string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("patch_user_error", "status", 400, "error", err)
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	user, err := h.Repo.GetUserByID(ctx, c.Param("id"))
	if err != nil {
		return serveError(c, err, http.StatusNotFound, "patch_user")
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Role != nil {
		if *req.Role != "user" && *req.Role != "admin" {
			return fail(c, http.StatusBadRequest, "role must be user or admin")
		}
		user.Role = *req.Role
	}
	if req.Verified != nil {
		user.Verified = *req.Verified
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return serveError(c, err, http.StatusNotFound, "patch_user")
		}
		s := string(hash)
		user.PasswordHash = &s
	}

	if err := h.Repo.SaveUser(ctx, user); err != nil {
		return serveError(c, err, http.StatusNotFound, "patch_user")
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.Repo.DeleteUser(ctx, c.Param("id")); err != nil {
		return serveError(c, err, http.StatusNotFound, "delete_user")
	}
	return c.NoContent(http.StatusNoContent)
}
