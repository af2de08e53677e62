package middleware

import (
	"context"

	"devdrawer/internal/models"
	"devdrawer/internal/utils"
	"github.com/gin-gonic/gin"
)

const userKey = "user"

// SessionResolver maps a session cookie value to its user, or nil.
type SessionResolver interface {
	CurrentUser(ctx context.Context, token string) *models.User
}

func RequireSession(cookieName string, sessions SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			abortUnauthenticated(c)
			return
		}

		user := sessions.CurrentUser(c.Request.Context(), token)
		if user == nil {
			abortUnauthenticated(c)
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by RequireSession.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

func abortUnauthenticated(c *gin.Context) {
	utils.RespondError(c, utils.UnauthorizedError("Not authenticated."))
	c.Abort()
}
