package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/streck/storefront-api/internal/api/metrics"
	"github.com/streck/storefront-api/internal/core/domain"
	"github.com/streck/storefront-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login authenticates the admin and returns a signed token.
//
// @Summary      Admin login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		// %v keeps echo's 400 out of the chain; an unreadable body is a 500.
		return fmt.Errorf("decode login payload: %v", err)
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginOutcome(err)).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues(string(domain.LoginIssued)).Inc()
	return c.JSON(http.StatusOK, loginResponse{
		Success: true,
		Token:   res.Token,
		User:    res.Identity,
		Message: "Login successful",
	})
}

// Session reports the admin identity carried by the bearer token.
//
// @Summary      Current admin session
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  errorResponse
// @Router       /admin/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	assertion, err := h.authService.Session(c.Request().Context(), bearerToken(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, sessionResponse{
		Authenticated: true,
		User:          sessionUser{Email: assertion.Email, Role: assertion.Role},
		IssuedAt:      assertion.IssuedAt,
		ExpiresAt:     assertion.ExpiresAt,
	})
}

func loginOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return string(domain.LoginRejected)
	case errors.Is(err, domain.ErrInvalidCredentials):
		return string(domain.LoginDenied)
	default:
		return "error"
	}
}
