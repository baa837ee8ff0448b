package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/streck/storefront-api/internal/api/metrics"
	"github.com/streck/storefront-api/internal/core/domain"
	"github.com/streck/storefront-api/internal/pkg/config"
)

// TokenDecoder verifies a signed admin token.
type TokenDecoder interface {
	Decode(token string) (domain.Assertion, error)
}

// GateConfig selects which requests the gate inspects and what it does
// with them.
type GateConfig struct {
	Prefix  string
	Mode    string
	Decoder TokenDecoder
}

// Gate is the edge filter for protected path prefixes. In passthrough mode
// every request reaches the handler unmodified. In enforce mode requests
// under Prefix need a valid admin bearer token; the decoded email and role
// are injected into the context.
func Gate(cfg GateConfig) echo.MiddlewareFunc {
	prefix := strings.TrimSuffix(cfg.Prefix, "/")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if cfg.Mode != config.GateModeEnforce {
			return next
		}
		protected := RBAC(domain.RoleAdmin)(next)

		return func(c echo.Context) error {
			if !matchesPrefix(c.Request().URL.Path, prefix) {
				return next(c)
			}

			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				metrics.GateRejectionsTotal.Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.GateRejectionsTotal.Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			assertion, err := cfg.Decoder.Decode(strings.TrimSpace(parts[1]))
			if err != nil {
				metrics.GateRejectionsTotal.Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set("email", assertion.Email)
			c.Set("role", assertion.Role)

			return protected(c)
		}
	}
}

// matchesPrefix reports whether path is prefix itself or lies beneath it.
// "/admin" matches "/admin" and "/admin/x" but not "/administrator".
func matchesPrefix(path, prefix string) bool {
	if prefix == "" {
		return true
	}
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}
