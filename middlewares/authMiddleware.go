package middlewares

import (
	"net/http"
	"strings"

	"bitbucket.org/montealto-academy/academy_backend/utils"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the bearer token when present and stores the
// claims in the request context. Routes that require a signed-in admin add
// RequireAuth on top.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.Request.Header.Get("Authorization")

		if auth == "" {
			c.Next()
			return
		}

		bearer := "Bearer "
		if !strings.HasPrefix(auth, bearer) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		auth = auth[len(bearer):]

		validate, err := utils.JwtValidate(auth)
		if err != nil || !validate.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		claims, _ := validate.Claims.(*utils.JwtCustomClaim)

		ctx := utils.SetUserIdInContext(c.Request.Context(), claims.ID)
		ctx = utils.SetUserNameInContext(ctx, claims.Name)
		ctx = utils.SetIsAdminInContext(ctx, claims.IsAdmin)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := utils.GetUserIdFromContext(c.Request.Context()); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}
