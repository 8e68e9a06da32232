package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRole gates a route group to the given roles. Must run after
// ResolveAccount and AuthRequired.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool)
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		account := CurrentAccount(c)
		if account == nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		if !allowed[account.Role] {
			if isAjax(c) {
				c.AbortWithStatus(http.StatusForbidden)
			} else {
				c.Redirect(http.StatusTemporaryRedirect, c.GetString("base_path"))
				c.Abort()
			}
			return
		}
		c.Next()
	}
}
