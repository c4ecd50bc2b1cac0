package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/employee-task-tracker/internal/config"
	"github.com/iliyamo/employee-task-tracker/internal/logging"
	"github.com/iliyamo/employee-task-tracker/internal/metrics"
	"github.com/iliyamo/employee-task-tracker/internal/model"
	"github.com/iliyamo/employee-task-tracker/internal/repository"
	"github.com/iliyamo/employee-task-tracker/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t}
}

// ----- DTOs -----

type registerReq struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
	Role                 string `json:"role"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userSummary is the roster row: id, name, email, role and created_at only,
// the columns the original endpoint selects.
type userSummary struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// issueToken stores a new personal access token for the user and returns the
// composite bearer string.
func (h *AuthHandler) issueToken(ctx context.Context, userID uint64) (string, error) {
	secret, hash, err := utils.NewAPITokenSecret()
	if err != nil {
		return "", err
	}
	id, err := h.Tokens.Store(ctx, userID, "auth-token", hash)
	if err != nil {
		return "", err
	}
	return utils.ComposeAPIToken(id, secret), nil
}

// Register handles POST /api/register: create the user and return it with a
// fresh token. Validation mirrors the original rules, including the
// password confirmation check; the admin role cannot be self-assigned.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid request body."})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	errs := fieldErrors{}
	if errs.checkRequired("name", req.Name) {
		errs.checkMax("name", req.Name, 255)
	}
	if errs.checkRequired("email", req.Email) {
		errs.checkMax("email", req.Email, 255)
		if !validEmail(req.Email) {
			errs.add("email", msgEmailInvalid)
		}
	}
	if errs.checkRequired("password", req.Password) {
		if len(req.Password) < 8 {
			errs.add("password", msgMinChars("password", 8))
		}
		if req.Password != req.PasswordConfirmation {
			errs.add("password", msgPwConfirm)
		}
	}
	if errs.checkRequired("role", req.Role) {
		if req.Role != model.RoleManager && req.Role != model.RoleEmployee {
			errs.add("role", msgSelectedInvalid("role"))
		}
	}
	if errs.any() {
		return validationFailed(c, errs)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.Users.Create(ctx, req.Name, req.Email, req.Password, req.Role, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			errs.add("email", msgEmailTaken)
			return validationFailed(c, errs)
		}
		logging.Logger.WithError(err).Error("register: create user failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "Registration failed. Please try again.",
		})
	}

	token, err := h.issueToken(ctx, user.ID)
	if err != nil {
		logging.Logger.WithError(err).Error("register: issue token failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "Registration failed. Please try again.",
		})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "User registered successfully.",
		"user":    user,
		"token":   token,
	})
}

// Login handles POST /api/login: verify credentials and return the user with
// a new token. Credential failures are deliberately indistinguishable.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid request body."})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	errs := fieldErrors{}
	if errs.checkRequired("email", req.Email) && !validEmail(req.Email) {
		errs.add("email", msgEmailInvalid)
	}
	errs.checkRequired("password", req.Password)
	if errs.any() {
		return validationFailed(c, errs)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.AuthFailures.WithLabelValues("bad_credentials").Inc()
			return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "Invalid credentials."})
		}
		logging.Logger.WithError(err).Error("login: query failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "Login failed. Please try again.",
		})
	}
	if !utils.VerifyPassword(user.PasswordHash, req.Password) {
		metrics.AuthFailures.WithLabelValues("bad_credentials").Inc()
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "Invalid credentials."})
	}

	token, err := h.issueToken(ctx, user.ID)
	if err != nil {
		logging.Logger.WithError(err).Error("login: issue token failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "Login failed. Please try again.",
		})
	}

	logging.Logger.WithField("user_id", user.ID).Info("user logged in")
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Login successful.",
		"user":    user,
		"token":   token,
	})
}

// Logout handles POST /api/logout: delete every token the user owns so all
// sessions across devices are revoked at once.
func (h *AuthHandler) Logout(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "No authenticated user found."})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tokens.DeleteAllForUser(ctx, user.ID); err != nil {
		logging.Logger.WithError(err).Error("logout failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "Logout failed. Please try again.",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Logout successful."})
}

// Me handles GET /api/user: return the authenticated identity.
func (h *AuthHandler) Me(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "No authenticated user found."})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": user})
}

// Users handles GET /api/users: the full team roster ordered by name.
func (h *AuthHandler) ListUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.ListAll(ctx)
	if err != nil {
		logging.Logger.WithError(err).Error("list users failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false, "message": "Failed to get users.",
		})
	}

	out := make([]userSummary, 0, len(users))
	for _, u := range users {
		out = append(out, userSummary{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": out})
}
