package handler

import (
    "errors"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/property-reservation/internal/booking"
)

// getUserID extracts the user_id from echo.Context and converts it to
// uint64.  The JWT middleware stores the claim as whatever type the
// token decoder produced, so several representations are accepted.
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// parseID parses a positive numeric identifier from a path or query
// value.  Zero and malformed values are both rejected.
func parseID(s string) (uint64, bool) {
    n, err := strconv.ParseUint(s, 10, 64)
    if err != nil || n == 0 {
        return 0, false
    }
    return n, true
}

// parseDateRange parses the start/end query parameters into a
// normalized half-open interval.  All three errors the caller cares
// about (missing, unparsable, inverted/empty) surface as a single
// message suitable for a 400 response.
func parseDateRange(startStr, endStr string) (booking.Interval, string) {
    if startStr == "" || endStr == "" {
        return booking.Interval{}, "start_date and end_date are required"
    }
    from, err := booking.ParseDate(startStr)
    if err != nil {
        return booking.Interval{}, "invalid start_date: expected YYYY-MM-DD"
    }
    to, err := booking.ParseDate(endStr)
    if err != nil {
        return booking.Interval{}, "invalid end_date: expected YYYY-MM-DD"
    }
    iv := booking.Interval{From: from, To: to}
    if !iv.Valid() {
        return booking.Interval{}, "start_date must be before end_date"
    }
    return iv, ""
}
