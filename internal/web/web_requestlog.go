package web

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/omniledger-neil/webserver/internal/config"
)

// LogTimeLayout renders timestamps like "Sat Oct 18 2026 14:03:07 GMT+0200 (CEST)".
// The zone in parentheses is the abbreviation, not the long zone name.
const LogTimeLayout = "Mon Jan 02 2006 15:04:05 GMT-0700 (MST)"

// RequestLog appends one line per request to a plain text file.
// The file is opened in append mode for every line; the mutex keeps
// lines from interleaving.
type RequestLog struct {
	mux  sync.Mutex
	Path string
}

// NewRequestLog returns a request log writing to path (relative to the working directory)
func NewRequestLog(path string) *RequestLog {
	return &RequestLog{Path: path}
}

// FormatLogLine builds "<timestamp>:<method>:<originalUrl>:<baseUrl>:<path>:\n"
func FormatLogLine(ts time.Time, method, originalURL, baseURL, urlPath string) string {
	return fmt.Sprintf("%s:%s:%s:%s:%s:\n", ts.Format(LogTimeLayout), method, originalURL, baseURL, urlPath)
}

// Append writes line to the log file with a single write call
func (rl *RequestLog) Append(line string) error {
	rl.mux.Lock()
	defer rl.mux.Unlock()

	f, err := os.OpenFile(rl.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", rl.Path, err)
	}
	_, err = f.WriteString(line)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to append to %s: %w", rl.Path, err)
	}
	return nil
}

// RequestLogMiddleware appends a line for every request that reaches it.
// A failed append either drops the request (no response, connection closed)
// or lets it through, depending on WebConfig.LogFailureMode.
func (s *WebServer) RequestLogMiddleware() gin.HandlerFunc {
	basePath := strings.TrimSuffix(s.Router.BasePath(), "/")

	return func(c *gin.Context) {
		line := FormatLogLine(nowFunc(), c.Request.Method, c.Request.RequestURI, basePath, c.Request.URL.Path)
		if err := s.RequestLog.Append(line); err != nil {
			log.Printf("[REQLOG]: Unable to append to %s: %v", s.RequestLog.Path, err)
			if s.Config.LogFailureMode == config.LogFailureContinue {
				c.Next()
				return
			}
			c.Abort()
			dropConnection(c)
			return
		}
		c.Next()
	}
}

// dropConnection closes the client connection without writing a response.
// Writers that cannot be hijacked (HTTP/2, recorders) get a bare 500 instead.
func dropConnection(c *gin.Context) {
	if hijackable, _ := c.Request.Context().Value(hijackableKey{}).(bool); !hijackable {
		log.Printf("[REQLOG]: Connection for %s cannot be dropped, answering 500", c.Request.URL.Path)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	conn, _, err := c.Writer.Hijack()
	if err != nil {
		log.Printf("[REQLOG]: Could not drop connection for %s: %v", c.Request.URL.Path, err)
		return
	}
	conn.Close()
}
