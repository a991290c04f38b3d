package middleware

import (
	"github.com/gin-gonic/gin"
)

// NoStore marks responses as private to the requesting session so that
// browsers and proxies never serve one user's page to another.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
