package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"golos/internal/platform"
)

// PlatformHandler は対応プラットフォーム関連のハンドラー
type PlatformHandler struct {
	validator *platform.Validator
}

// NewPlatformHandler は新しいPlatformHandlerを作成
func NewPlatformHandler(validator *platform.Validator) *PlatformHandler {
	return &PlatformHandler{validator: validator}
}

// List は対応プラットフォームの一覧を返す
// GET /api/v1/platforms
func (h *PlatformHandler) List(c echo.Context) error {
	platforms := make([]map[string]string, 0, 4)
	for _, p := range platform.Supported() {
		platforms = append(platforms, map[string]string{"name": string(p)})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"platforms": platforms,
	})
}

// Validate はURLを検証して検出結果を返す
// GET /api/v1/platforms/validate?url=...
func (h *PlatformHandler) Validate(c echo.Context) error {
	url := c.QueryParam("url")
	if url == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "url is required"})
	}
	return c.JSON(http.StatusOK, h.validator.Classify(url))
}
