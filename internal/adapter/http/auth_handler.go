package http

import (
	"net/http"
	"time"

	appmw "smart-loan-recovery/internal/adapter/middleware"
	useruc "smart-loan-recovery/internal/usecase/user"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	users    *useruc.Usecase
	sessions *appmw.SessionStore
	ttl      time.Duration
}

func NewAuthHandler(users *useruc.Usecase, sessions *appmw.SessionStore, ttl time.Duration) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions, ttl: ttl}
}

type loginReq struct {
	Name string `json:"name" validate:"required"`
}

// Login resolves the user by name (names are not unique; first
// registration wins) and issues a session cookie.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	usr, err := h.users.FindByName(c.Request().Context(), req.Name)
	if err != nil {
		return c.JSON(errStatus(err), ErrorResponse{Error: err.Error()})
	}

	token, err := h.sessions.Create(c.Request().Context(), usr.UserID)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "session store unavailable"})
	}
	c.SetCookie(appmw.NewCookie(token, h.ttl))

	return c.JSON(http.StatusOK, map[string]any{
		"message": "login successful",
		"user_id": usr.UserID,
		"role":    usr.Role,
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	if ck, err := c.Cookie(appmw.SessionCookie); err == nil && ck.Value != "" {
		_ = h.sessions.Destroy(c.Request().Context(), ck.Value)
	}
	c.SetCookie(appmw.NewCookie("", 0))
	return c.JSON(http.StatusOK, map[string]string{"message": "logout successful"})
}

// Me runs behind the session middleware; the user id is already in the
// context.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, _ := c.Get(appmw.CtxUserID).(string)
	dto, err := h.users.Get(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(errStatus(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, dto)
}
