package web

import (
	"bytes"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetPort returns the listening port from the config
func (s *WebServer) GetPort() string {
	return s.Config.Port
}

// renderPage renders a page into a buffer first so a failing template never
// leaves a half written 200 response behind
func (s *WebServer) renderPage(c *gin.Context, page string, data any) {
	var buf bytes.Buffer
	if err := s.Views.Render(&buf, page, data); err != nil {
		s.renderError(c, http.StatusInternalServerError, "Template error", err.Error())
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// renderError logs the details and sends a generic error body
func (s *WebServer) renderError(c *gin.Context, statusCode int, message string, errstring string) {
	log.Printf("[WEB]: Error %d: %s - %s", statusCode, message, errstring)
	c.String(statusCode, "Error: %s", message)
}
