package handlers

import (
	"crypto/md5"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"finance-admin/internal/errors"

	"github.com/labstack/echo/v4"
)

const scalarPage = `<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>Finance Admin API</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
</head>
<body>
<script id="api-reference" data-url="/docs/openapi.json"></script>
<script src="https://cdn.jsdelivr.net/npm/@scalar/api-reference"></script>
</body>
</html>`

// DocsHandler handles API documentation endpoints
type DocsHandler struct {
	scalarHTML []byte
	scalarETag string
	specPath   string
}

// NewDocsHandler creates a documentation handler serving the OpenAPI
// document found in docsDir. A scalar.html in the same directory overrides
// the built-in page.
func NewDocsHandler(docsDir string) *DocsHandler {
	scalarHTML, err := os.ReadFile(filepath.Join(docsDir, "scalar.html"))
	if err != nil || len(scalarHTML) == 0 {
		scalarHTML = []byte(scalarPage)
	}

	return &DocsHandler{
		scalarHTML: scalarHTML,
		scalarETag: generateETag(scalarHTML),
		specPath:   filepath.Join(docsDir, "openapi.json"),
	}
}

// ServeScalarUI serves the Scalar HTML page
//
// Method: GET /docs
func (h *DocsHandler) ServeScalarUI(c echo.Context) error {
	c.Response().Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Response().Header().Set("Pragma", "no-cache")
	c.Response().Header().Set("Expires", "0")

	if h.scalarETag != "" {
		c.Response().Header().Set("ETag", h.scalarETag)
		if match := c.Request().Header.Get("If-None-Match"); match != "" && match == h.scalarETag {
			return c.NoContent(http.StatusNotModified)
		}
	}

	return c.HTMLBlob(http.StatusOK, h.scalarHTML)
}

// ServeOpenAPI serves the OpenAPI document loaded by the Scalar page
//
// Method: GET /docs/openapi.json
func (h *DocsHandler) ServeOpenAPI(c echo.Context) error {
	if !fileExists(h.specPath) {
		return SendError(c, errors.SystemRouteNotFound, errors.WithDetails("API documentation has not been generated"))
	}

	c.Response().Header().Set("Access-Control-Allow-Origin", "*")
	c.Response().Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	c.Response().Header().Set("Cache-Control", "public, max-age=300")
	c.Response().Header().Set("Content-Type", "application/json; charset=utf-8")
	return c.File(h.specPath)
}

// generateETag creates an ETag hash for cache control
func generateETag(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	hash := md5.Sum(data)
	return fmt.Sprintf("\"%x\"", hash)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
