package handler

import (
	"context"  // provides context with cancellation for storage calls
	"net/http" // HTTP status codes and primitives
	"strings"  // string manipulation utilities
	"time"     // timeouts for storage calls

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/MollahHamza/TRASHCANPRO/internal/config"     // app configuration
	"github.com/MollahHamza/TRASHCANPRO/internal/logger"     // leveled logging
	"github.com/MollahHamza/TRASHCANPRO/internal/middleware" // session lookup
	"github.com/MollahHamza/TRASHCANPRO/internal/model"      // session type
	"github.com/MollahHamza/TRASHCANPRO/internal/repository" // refresh token storage
	"github.com/MollahHamza/TRASHCANPRO/internal/store"      // credential store
	"github.com/MollahHamza/TRASHCANPRO/internal/utils"      // token issuing and hashing
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Users    *store.CredentialStore
	Sessions repository.SessionRepository
}

func NewAuthHandler(cfg config.Config, u *store.CredentialStore, s repository.SessionRepository) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Sessions: s}
}

// ----- DTOs -----

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Points   int    `json:"points"`
}
type authResp struct {
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

// issue creates an access/refresh pair for s and stores the refresh hash.
func (h *AuthHandler) issue(ctx context.Context, s model.Session) (authResp, error) {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, s, h.Cfg.AccessTTLMin)
	if err != nil {
		return authResp{}, err
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return authResp{}, err
	}
	if err := h.Sessions.StoreRefresh(ctx, utils.HashRefreshRaw(refresh.Raw), s, refresh.Exp); err != nil {
		return authResp{}, err
	}
	return authResp{
		User:    userPart{Username: s.Username, Role: s.Role, Points: h.Users.PointsOf(s.Username)},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
	}, nil
}

// Login: verify and return a new pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	sess, ok := h.Users.Verify(req.Username, req.Password)
	if !ok {
		logger.Infof("auth: failed login for %q from %s", req.Username, c.RealIP())
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	resp, err := h.issue(ctx, sess)
	if err != nil {
		logger.Errorf("auth: issue tokens for %s: %v", sess.Username, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	logger.Infof("auth: %s logged in", sess.Username)
	return c.JSON(http.StatusOK, resp)
}

// Refresh: validate by hash, revoke old, issue new.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sess, err := h.Sessions.ValidateRefresh(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	_ = h.Sessions.RevokeByHash(ctx, hash)

	resp, err := h.issue(ctx, sess)
	if err != nil {
		logger.Errorf("auth: rotate tokens for %s: %v", sess.Username, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	return c.JSON(http.StatusOK, resp)
}

// Logout ends sessions.  A valid bearer token without a body ends every
// session of the caller; a refresh_token in the body revokes just that one.
func (h *AuthHandler) Logout(c echo.Context) error {
	var (
		sess      model.Session
		hasBearer bool
	)
	// Parsed here so the endpoint also works without JWTAuth in front.
	if raw, ok := strings.CutPrefix(c.Request().Header.Get("Authorization"), "Bearer "); ok {
		if s, err := utils.ParseAccessToken(h.Cfg.JWTSecret, raw); err == nil {
			sess, hasBearer = s, true
		}
	}

	var req refreshReq
	_ = c.Bind(&req)
	refreshToken := strings.TrimSpace(req.RefreshToken)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if hasBearer && refreshToken == "" {
		if err := h.EndSession(ctx, sess); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
		}
		return c.NoContent(http.StatusNoContent)
	}
	if refreshToken != "" {
		hash := utils.HashRefreshRaw(refreshToken)
		if _, err := h.Sessions.ValidateRefresh(ctx, hash); err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
		}
		if err := h.Sessions.RevokeByHash(ctx, hash); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
		}
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "provide Authorization header or refresh_token"})
}

// EndSession revokes every refresh token held for s.Username.  Access
// tokens already issued stay valid until they expire.
func (h *AuthHandler) EndSession(ctx context.Context, s model.Session) error {
	if err := h.Sessions.RevokeAllForUser(ctx, s.Username); err != nil {
		logger.Errorf("auth: end session of %s: %v", s.Username, err)
		return err
	}
	logger.Infof("auth: %s logged out", s.Username)
	return nil
}

// Me returns the caller's session and current balance.
func (h *AuthHandler) Me(c echo.Context) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, userPart{
		Username: sess.Username,
		Role:     sess.Role,
		Points:   h.Users.PointsOf(sess.Username),
	})
}
