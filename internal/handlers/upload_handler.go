package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterUploadRoutes registers the image upload route.
func RegisterUploadRoutes(r *gin.Engine, cfg HandlerConfig) {
	r.POST("/api/upload", cfg.private(), func(c *gin.Context) {
		fh, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "No file uploaded"})
			return
		}
		f, err := fh.Open()
		if err != nil {
			respondError(c, err)
			return
		}
		defer f.Close()

		url, err := cfg.Files.Upload(c.Request.Context(), "uploads", fh.Filename, fh.Header.Get("Content-Type"), f)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"imageUrl": url})
	})
}
