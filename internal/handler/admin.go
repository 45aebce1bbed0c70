package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/MollahHamza/TRASHCANPRO/internal/logger"
	"github.com/MollahHamza/TRASHCANPRO/internal/model"
	"github.com/MollahHamza/TRASHCANPRO/internal/store"
)

// AdminHandler serves account management for admins.
type AdminHandler struct {
	Users *store.CredentialStore
}

type provisionReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// ListUsers returns every account without password digests.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users := h.Users.Users()
	out := make([]userPart, 0, len(users))
	for _, u := range users {
		role := u.Role
		if role == "" {
			role = model.RoleStandard
		}
		out = append(out, userPart{Username: u.Username, Role: role, Points: u.Points})
	}
	return c.JSON(http.StatusOK, out)
}

// CreateUser provisions an account.  Role defaults to standard.
func (h *AdminHandler) CreateUser(c echo.Context) error {
	var req provisionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password required"})
	}
	if req.Role == "" {
		req.Role = model.RoleStandard
	}

	err := h.Users.Provision(c.Request().Context(), req.Username, req.Password, req.Role)
	switch {
	case errors.Is(err, store.ErrUserExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "user already exists"})
	case errors.Is(err, store.ErrInvalidUsername), errors.Is(err, store.ErrInvalidRole):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case err != nil:
		logger.Errorf("provision %q: %v", req.Username, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	logger.Infof("admin: provisioned %s (%s)", req.Username, req.Role)
	return c.JSON(http.StatusCreated, userPart{Username: req.Username, Role: req.Role})
}

// Logs returns recent in-memory log entries, newest first.
// ?count= (default 100) and ?level= (default info) narrow the result.
func (h *AdminHandler) Logs(c echo.Context) error {
	count, err := strconv.Atoi(c.QueryParam("count"))
	if err != nil || count <= 0 {
		count = 100
	}
	return c.JSON(http.StatusOK, logger.GetLogs(count, c.QueryParam("level")))
}
