package middleware

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"gambling-ledger/internal/util"

	"github.com/gin-gonic/gin"
)

// CookieName is the cookie the login handler sets and this middleware reads.
const CookieName = "gl_token"

// ContextUserKey is where the authenticated user code lands in the gin context.
const ContextUserKey = "userCode"

// AuthMiddleware validates the JWT and puts the user code into the context.
// The code must still be on the configured allow-list, since issued tokens
// outlive config changes.
func AuthMiddleware(jwtSecret string, validCodes []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		// 1) Header: Authorization: Bearer xxx
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = parts[1]
			}
		}

		// 2) query parameter ?token=xxx (downloads cannot set headers)
		if tokenStr == "" {
			tokenStr = c.Query("token")
		}

		// 3) cookie set at login
		if tokenStr == "" {
			if cookie, err := c.Cookie(CookieName); err == nil {
				tokenStr = cookie
			}
		}

		if tokenStr == "" {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
			c.Abort()
			return
		}

		claims, err := util.ParseToken(jwtSecret, tokenStr)
		if err != nil || claims.ExpiresAt == nil || claims.ExpiresAt.Before(time.Now()) {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "session expired, please log in again")
			c.Abort()
			return
		}

		if !slices.Contains(validCodes, claims.UserCode) {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "unknown user code")
			c.Abort()
			return
		}

		c.Set(ContextUserKey, claims.UserCode)
		c.Next()
	}
}
