package account

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/register", h.Register)
	api.POST("/login", h.Login)
	api.POST("/logout", h.Logout)
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	_, err := h.svc.Register(c.Request().Context(), req.Username, req.Email, req.Password)
	switch {
	case errors.Is(err, ErrEmailExists):
		return c.JSON(http.StatusConflict, map[string]string{"error": "Email already exists"})
	case errors.Is(err, ErrMissingFields):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing username, email or password"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Registration failed"})
	}
	return c.JSON(http.StatusCreated, map[string]string{"message": "User registered successfully"})
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user, err := h.svc.Login(c.Request().Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrMissingFields):
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid email or password"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Login failed"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"user":    user,
	})
}

// Logout is a no-op acknowledgment: there is no server-side session state
// to clear.
func (h *Handler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "Logout successful"})
}
