package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/MollahHamza/TRASHCANPRO/internal/logger"
	"github.com/MollahHamza/TRASHCANPRO/internal/middleware"
	"github.com/MollahHamza/TRASHCANPRO/internal/rewards"
	"github.com/MollahHamza/TRASHCANPRO/internal/store"
)

// RewardsHandler serves the reward catalog and community challenges.
type RewardsHandler struct {
	Users *store.CredentialStore
}

type redeemReq struct {
	Reward string `json:"reward"`
}

type joinReq struct {
	Challenge string `json:"challenge"`
}

// List returns the catalog and the caller's balance.
func (h *RewardsHandler) List(c echo.Context) error {
	points := 0
	if sess, ok := middleware.SessionFrom(c); ok {
		points = h.Users.PointsOf(sess.Username)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"points":  points,
		"rewards": rewards.Catalog(),
	})
}

// Redeem spends points on a catalog item.
func (h *RewardsHandler) Redeem(c echo.Context) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req redeemReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Reward) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reward required"})
	}

	r, err := rewards.Redeem(c.Request().Context(), h.Users, sess.Username, strings.TrimSpace(req.Reward))
	switch {
	case errors.Is(err, rewards.ErrUnknownReward):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown reward"})
	case errors.Is(err, rewards.ErrInsufficientPoints):
		return c.JSON(http.StatusConflict, echo.Map{"error": "Not enough points!"})
	case err != nil:
		logger.Errorf("redeem %q for %s: %v", req.Reward, sess.Username, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "redeem failed"})
	}
	logger.Infof("%s redeemed %s for %d points", sess.Username, r.Name, r.Cost)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Successfully redeemed " + r.Name + "!",
		"reward":  r,
		"points":  h.Users.PointsOf(sess.Username),
	})
}

// Challenges lists the open challenges.
func (h *RewardsHandler) Challenges(c echo.Context) error {
	return c.JSON(http.StatusOK, rewards.Challenges())
}

// Join signs the caller up for a challenge.
func (h *RewardsHandler) Join(c echo.Context) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req joinReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Challenge) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "challenge required"})
	}
	ch, err := rewards.Join(strings.TrimSpace(req.Challenge))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown challenge"})
	}
	logger.Infof("%s joined challenge %s", sess.Username, ch.Name)
	return c.JSON(http.StatusOK, echo.Map{
		"message":   "Joined " + ch.Name + "!",
		"challenge": ch,
	})
}
