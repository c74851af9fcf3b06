package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/chidubem/paylinq/internal/rates"
)

func RatesMiddleware(ratesClient *rates.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("rates_client", ratesClient)
		c.Next()
	}
}

func GetRatesClient(c *gin.Context) *rates.Client {
	client, exists := c.Get("rates_client")
	if !exists {
		return nil
	}
	return client.(*rates.Client)
}
