package middleware

import "github.com/gin-gonic/gin"

// NoStore disables intermediary and client caching. Applied to every route
// whose response carries identity or credentials.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
