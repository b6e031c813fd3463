// Jungle demo web server: a handful of template pages, static files and a request log
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	prof "github.com/go-while/go-cpu-mem-profiler"
	"github.com/joho/godotenv"
	"github.com/omniledger-neil/webserver/internal/config"
	"github.com/omniledger-neil/webserver/internal/web"
	"golang.org/x/term"
)

var Prof *prof.Profiler

var (
	// command-line flags
	webport        string
	webssl         bool
	webcertFile    string
	webkeyFile     string
	staticDir      string
	viewsDir       string
	partialsDir    string
	logFile        string
	badStatus      string
	logFailure     string
	watchTemplates bool
	pprofAddr      string
	debug          bool
)

var appVersion = "-unset-"

func main() {
	config.AppVersion = appVersion

	// .env may provide PORT; variables already set in the environment win
	if err := godotenv.Load(); err != nil {
		log.Printf("[WEB]: No .env file loaded: %v", err)
	}

	mainConfig := config.NewDefaultConfig()
	webConfig := mainConfig.Web
	webConfig.Port = config.ResolvePort(os.Getenv)

	flag.StringVar(&webport, "webport", "", "Web server port (default: $PORT or 3000)")
	flag.BoolVar(&webssl, "webssl", false, "Enable SSL")
	flag.StringVar(&webcertFile, "websslcert", "", "SSL certificate file (/path/to/fullchain.pem)")
	flag.StringVar(&webkeyFile, "websslkey", "", "SSL key file (/path/to/privkey.pem)")
	flag.StringVar(&staticDir, "static", webConfig.StaticDir, "Directory with public static assets")
	flag.StringVar(&viewsDir, "views", webConfig.ViewsDir, "Directory with page templates")
	flag.StringVar(&partialsDir, "partials", webConfig.PartialsDir, "Directory with template partials")
	flag.StringVar(&logFile, "logfile", webConfig.LogFile, "Request log file (appended, never rotated)")
	flag.StringVar(&badStatus, "bad-status", webConfig.BadRouteStatus, "Status of the /bad route: faithful (200, header set too late) or fixed (404)")
	flag.StringVar(&logFailure, "log-failure", webConfig.LogFailureMode, "When a request log line cannot be written: drop (no response) or continue")
	flag.BoolVar(&watchTemplates, "watch-templates", false, "Reload templates when files in the views or partials directory change")
	flag.StringVar(&pprofAddr, "pprof", "", "Start the pprof web endpoint on this address (e.g. :51111)")
	flag.BoolVar(&debug, "debug", false, "Gin debug mode")
	flag.Parse()

	log.Printf("Starting jungle web server (version: %s)", appVersion)

	if webport != "" {
		webConfig.Port = webport
		log.Printf("[WEB]: Overriding listen port with command-line flag: %s", webConfig.Port)
	} else {
		log.Printf("[WEB]: No port flag provided, using: %s", webConfig.Port)
	}
	if webssl {
		webConfig.SSL = true
		log.Printf("[WEB]: SSL enabled via command-line flag")
	}
	if webcertFile != "" {
		webConfig.CertFile = webcertFile
		log.Printf("[WEB]: SSL cert file set: %s", webConfig.CertFile)
	}
	if webkeyFile != "" {
		webConfig.KeyFile = webkeyFile
		log.Printf("[WEB]: SSL key file set: %s", webConfig.KeyFile)
	}
	webConfig.StaticDir = staticDir
	webConfig.ViewsDir = viewsDir
	webConfig.PartialsDir = partialsDir
	webConfig.LogFile = logFile
	webConfig.BadRouteStatus = badStatus
	webConfig.LogFailureMode = logFailure
	webConfig.WatchTemplates = watchTemplates
	webConfig.Debug = debug
	log.Printf("[WEB]: Using WEB configuration: %#v", webConfig)

	if webConfig.LogFailureMode == config.LogFailureContinue {
		log.Printf("[WEB]: Requests are served even when %s cannot be written", webConfig.LogFile)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		gin.DisableConsoleColor()
	}

	if pprofAddr != "" {
		Prof = prof.NewProf()
		go Prof.PprofWeb(pprofAddr)
		log.Printf("[WEB]: pprof available on %s", pprofAddr)
	}

	server, err := web.NewServer(webConfig)
	if err != nil {
		log.Fatalf("[WEB]: Failed to set up web server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if webConfig.WatchTemplates {
		go func() {
			if err := server.Views.Watch(ctx); err != nil {
				log.Printf("[VIEWS]: Template watcher stopped: %v", err)
			}
		}()
	}

	webServerErrChan := make(chan error, 1)
	go func() {
		webServerErrChan <- server.Start()
	}()

	select {
	case <-ctx.Done():
		log.Printf("[WEB]: Received shutdown signal, initiating graceful shutdown...")
	case err := <-webServerErrChan:
		if err != nil {
			log.Fatalf("[WEB]: Failed to start web server: %v", err)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WEB]: Error during shutdown: %v", err)
	}
	log.Printf("[WEB]: Graceful shutdown completed")
} // end main
