package handlers

import (
	"github.com/anonto42/nano-blog/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// getClaimsFromContext returns the verified JWT claims for the request, or
// nil when the caller is anonymous.
func getClaimsFromContext(c echo.Context) *models.JwtCustomClaims {
	claims, _ := c.Get("user").(*models.JwtCustomClaims)
	return claims
}

// getUserIDFromContext returns the authenticated caller's user ID, or 0 when
// the caller is anonymous.
func getUserIDFromContext(c echo.Context) uint {
	if claims := getClaimsFromContext(c); claims != nil {
		return claims.UserID
	}
	return 0
}
