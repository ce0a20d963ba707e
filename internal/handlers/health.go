package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"golos/internal/version"
)

// Health はサービスの稼働確認
// GET /health
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "video-transcription-agent",
		"version": version.Version,
	})
}
