package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/chidubem/paylinq/config"
)

func AppConfigMiddleware(cfg *config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("app_base_url", cfg.BaseURL)
		c.Set("upload_dir", cfg.UploadDir)
		c.Next()
	}
}
