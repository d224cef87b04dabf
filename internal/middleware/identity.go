package middleware

// identity.go holds helpers shared by the middleware in this package for
// naming the caller in Redis keys. JWTAuth stores the raw "sub" claim in
// context, which the JWT library decodes as float64 for numeric IDs.

import (
    "strconv"

    "github.com/labstack/echo/v4"
)

// currentUserID renders the authenticated user's ID for use in cache and
// rate-limit keys. Unauthenticated callers are bucketed as "anon".
func currentUserID(c echo.Context) string {
    switch v := c.Get("user_id").(type) {
    case string:
        if v != "" {
            return v
        }
    case float64:
        return strconv.FormatUint(uint64(v), 10)
    case uint64:
        return strconv.FormatUint(v, 10)
    }
    return "anon"
}
