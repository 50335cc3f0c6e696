package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storedesk/storesapi/internal/apperror"
	"github.com/storedesk/storesapi/internal/blocklist"
	"github.com/storedesk/storesapi/internal/events"
	"github.com/storedesk/storesapi/internal/hash"
	"github.com/storedesk/storesapi/internal/logging"
	"github.com/storedesk/storesapi/internal/middleware"
	"github.com/storedesk/storesapi/internal/models"
	"github.com/storedesk/storesapi/internal/repo"
	"github.com/storedesk/storesapi/internal/tokens"
)

type AuthHandler struct {
	Repo      *repo.GormRepo
	Issuer    *tokens.Issuer
	Blocklist *blocklist.Blocklist
	Producer  *events.Producer
}

type credentialsRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=8"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return apperror.New(http.StatusBadRequest, "Bad Request", "invalid body", nil)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register failed", "reason", "cannot hash password", "error", err)
		return apperror.Internal("Could not create user", nil)
	}

	user := models.User{Username: req.Username, PasswordHash: pwHash}
	if err := h.Repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			l.Warn("register failed", "status", 422, "reason", "username taken")
			return apperror.Validation("username already in use", map[string]any{"username": req.Username})
		}
		l.Error("register failed", "error", err)
		return apperror.Internal("Could not create user", err)
	}

	publish(c, h.Producer, events.TopicUserEvents, fmt.Sprint(user.ID), map[string]any{
		"type":     "user_registered",
		"user_id":  user.ID,
		"username": user.Username,
	})

	l.Info("user registered", "user_id", user.ID)
	return c.JSON(http.StatusCreated, userResponse{ID: user.ID, Username: user.Username})
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return apperror.New(http.StatusBadRequest, "Bad Request", "invalid body", nil)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.Repo.UserByName(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("login failed", "status", 403, "reason", "unknown user")
			return apperror.Forbidden("Invalid username/password combination")
		}
		return apperror.Internal("Could not log in", err)
	}

	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		l.Warn("login failed", "status", 403, "reason", "wrong password", "user_id", user.ID)
		return apperror.Forbidden("Invalid username/password combination")
	}

	accessToken, err := h.Issuer.IssueAccess(user.ID, true)
	if err != nil {
		return apperror.Internal("Could not create token", err)
	}
	refreshToken, err := h.Issuer.IssueRefresh(user.ID)
	if err != nil {
		return apperror.Internal("Could not create token", err)
	}

	publish(c, h.Producer, events.TopicUserEvents, fmt.Sprint(user.ID), map[string]any{
		"type":     "user_logged_in",
		"user_id":  user.ID,
		"username": user.Username,
	})

	l.Info("login successful", "user_id", user.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

// LogOut revokes the presented access token's jti. The token stays
// structurally valid but every later use is rejected as revoked.
func (h *AuthHandler) LogOut(c echo.Context) error {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		return apperror.Unauthorized("Request does not contain access token")
	}

	h.Blocklist.Revoke(claims.ID)

	logging.FromContext(c.Request().Context()).Info("logged out", "jti", claims.ID)
	return c.NoContent(http.StatusNoContent)
}

// Refresh mints a non-fresh access token and consumes the refresh token:
// its jti is revoked right after the new access token is minted, so every
// refresh token works exactly once.
func (h *AuthHandler) Refresh(c echo.Context) error {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		return apperror.Unauthorized("Request does not contain access token")
	}

	userID, err := claims.UserID()
	if err != nil {
		return apperror.Unauthorized("Signature verification failed")
	}

	accessToken, err := h.Issuer.IssueAccess(userID, false)
	if err != nil {
		return apperror.Internal("Could not create token", err)
	}

	h.Blocklist.Revoke(claims.ID)

	return c.JSON(http.StatusOK, echo.Map{"access_token": accessToken})
}

func (h *AuthHandler) GetUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	user, err := h.Repo.UserByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperror.NotFound("User not found")
		}
		return apperror.Internal("Could not fetch user", err)
	}

	return c.JSON(http.StatusOK, userResponse{ID: user.ID, Username: user.Username})
}

// DeleteUser requires a fresh token. Deleting an account other than the
// caller's own additionally requires the admin claim.
func (h *AuthHandler) DeleteUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	claims := middleware.ClaimsFrom(c)
	callerID, err := claims.UserID()
	if err != nil {
		return apperror.Unauthorized("Signature verification failed")
	}
	if callerID != id && !claims.IsAdmin {
		return apperror.Forbidden("Admin privilege required")
	}

	if err := h.Repo.DeleteUser(c.Request().Context(), id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperror.NotFound("User not found")
		}
		return apperror.Internal("Could not delete user", err)
	}

	logging.FromContext(c.Request().Context()).Info("user deleted", "user_id", id, "caller_id", callerID)
	return c.NoContent(http.StatusNoContent)
}
