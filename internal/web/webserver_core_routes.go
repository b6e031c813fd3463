// Package web provides the HTTP server and page handlers for the jungle web site
package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"github.com/omniledger-neil/webserver/internal/config"
)

// WebServer represents the web server
type WebServer struct {
	Router     *gin.Engine
	Config     *config.WebConfig
	Views      *Views
	RequestLog *RequestLog
	httpServer *http.Server
}

// hijackableKey marks requests whose connection can be taken over by dropConnection
type hijackableKey struct{}

// NewServer creates a new web server instance. It fails when the templates
// cannot be parsed so that the process never starts listening without them.
func NewServer(webconfig *config.WebConfig) (*WebServer, error) {
	if err := webconfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid web config: %w", err)
	}

	views, err := NewViews(webconfig.ViewsDir, webconfig.PartialsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	log.Printf("[VIEWS]: Loaded pages %v from %s (partials: %s)", views.Pages(), webconfig.ViewsDir, webconfig.PartialsDir)

	if webconfig.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	// "/about/" must go through the pipeline and end in the default 404, not a 301
	router.RedirectTrailingSlash = false

	// Configure Gin to trust reverse proxy headers
	router.SetTrustedProxies([]string{"127.0.0.1", "::1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"})

	// Configure security headers based on SSL setup
	secureConfig := secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}

	// Only add SSL-specific headers if SSL is enabled on the application itself
	// (not when running behind a reverse proxy like nginx with SSL)
	if webconfig.SSL {
		secureConfig.SSLRedirect = true
		secureConfig.STSSeconds = 31536000
		secureConfig.STSIncludeSubdomains = true
	}

	server := &WebServer{
		Router:     router,
		Config:     webconfig,
		Views:      views,
		RequestLog: NewRequestLog(webconfig.LogFile),
	}
	server.httpServer = &http.Server{
		Addr:              webconfig.Addr(),
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
	}

	router.Use(server.ApacheLogFormat(), gin.Recovery())
	router.Use(secure.New(secureConfig))

	server.setupRoutes()
	return server, nil
}

// setupRoutes configures the request pipeline and the route table:
// static files, then the request log, then the page routes.
func (s *WebServer) setupRoutes() {
	// Static files first (highest priority)
	s.Router.Use(StaticMiddleware(s.Config.StaticDir))
	s.Router.Use(s.RequestLogMiddleware())

	for _, route := range pageRoutes {
		s.Router.GET(route.Path, s.pageHandler(route))
	}
	s.Router.GET("/bad", s.badPage)
}

// ServeHTTP hands the request to the router, recording whether the
// underlying writer supports hijacking
func (s *WebServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if _, ok := w.(http.Hijacker); ok {
		r = r.WithContext(context.WithValue(r.Context(), hijackableKey{}, true))
	}
	s.Router.ServeHTTP(w, r)
}

// Listen opens the listening socket on the configured port
func (s *WebServer) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return ln, nil
}

// Serve accepts connections on ln until Shutdown is called
func (s *WebServer) Serve(ln net.Listener) error {
	if s.Config.SSL {
		log.Printf("Server is available on Port: %s (https)", s.Config.Port)
		return s.httpServer.ServeTLS(ln, s.Config.CertFile, s.Config.KeyFile)
	}
	log.Printf("Server is available on Port: %s", s.Config.Port)
	return s.httpServer.Serve(ln)
}

// Start starts the web server with SSL support if configured
func (s *WebServer) Start() error {
	ln, err := s.Listen()
	if err != nil {
		return err
	}
	err = s.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting connections and waits for active requests until ctx expires
func (s *WebServer) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ApacheLogFormat is the access log written to gin.DefaultWriter
func (s *WebServer) ApacheLogFormat() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf(`%s - - [%s] "%s %s %s" %d %d "%s" "%s"`+"\n",
			param.ClientIP,
			param.TimeStamp.Format("02/Jan/2006:15:04:05 -0700"),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.BodySize,
			param.Request.Referer(),
			param.Request.UserAgent(),
		)
	})
}
