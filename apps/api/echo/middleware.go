package echoapi

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/apper-canvas/learnhubdigital/core"
)

const (
	userIDHeader = "X-User-Id"
	userIDKey    = "user_id"
)

// userMiddleware identifies the learner by the X-User-Id header.
// Anonymous callers get a fresh id, sent back in the response header for their next requests.
func userMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			userID := core.CleanString(ctx.Request().Header.Get(userIDHeader))
			if userID == "" {
				userID = uuid.NewString()
			}
			if len(userID) > 64 {
				return core.NewValidationError(nil, core.FieldError{Field: userIDHeader, Error: "user id is too long"})
			}
			ctx.Set(userIDKey, userID)
			ctx.Response().Header().Set(userIDHeader, userID)
			return next(ctx)
		}
	}
}

func contextUserID(ctx echo.Context) string {
	if userID, ok := ctx.Get(userIDKey).(string); ok {
		return userID
	}
	return ""
}
