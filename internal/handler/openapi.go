package handler

import (
	"fmt"
	"net/http"
	"os"

	"github.com/deppfellow/monitoria-backend/internal/server"
	"github.com/labstack/echo/v4"
)

// OpenAPIUIPath is the docs page served at GET /docs. It loads
// static/openapi.json, the monitoria API description.
const OpenAPIUIPath = "static/openapi.html"

// OpenAPIHandler serves the interactive API documentation.
type OpenAPIHandler struct {
	Handler
	uiPath string
}

func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
		uiPath:  OpenAPIUIPath,
	}
}

// ServeOpenAPIUI serves the docs page uncached so edits show up immediately.
func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	templateBytes, err := os.ReadFile(h.uiPath)

	c.Response().Header().Set("Cache-Control", "no-cache")

	if err != nil {
		return fmt.Errorf("failed to read OpenAPI UI template: %w", err)
	}

	if err := c.HTML(http.StatusOK, string(templateBytes)); err != nil {
		return fmt.Errorf("failed to write HTML response: %w", err)
	}

	return nil
}
