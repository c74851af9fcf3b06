package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/chidubem/paylinq/internal/notifier"
)

func NotifierMiddleware(n *notifier.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("notifier", n)
		c.Next()
	}
}

func GetNotifier(c *gin.Context) *notifier.Notifier {
	n, exists := c.Get("notifier")
	if !exists {
		return nil
	}
	return n.(*notifier.Notifier)
}
