package middleware

// identity.go provides the user identifier used in rate-limit keys. Guests
// share one "guest" identity; authenticated calls are keyed per account so a
// single adopter hammering the like endpoints cannot exhaust the guest
// bucket for everyone behind the same IP.

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// userID renders the authenticated account id from context as a string, or
// "guest" when the request carries no valid token. JWTAuth stores the raw
// "sub" claim, which arrives as a float64 from JSON claims.
func userID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case nil:
		return "guest"
	case float64:
		return fmt.Sprintf("%.0f", v)
	case string:
		if v != "" {
			return v
		}
	default:
		return fmt.Sprint(v)
	}
	return "guest"
}
