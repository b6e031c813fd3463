// Package config provides configuration management for the jungle web server.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
)

var AppVersion = "-unset-" // will be set at build time

const (
	// DefaultPort is used when PORT is unset or empty
	DefaultPort = "3000"

	// PortEnv names the environment variable holding the listen port
	PortEnv = "PORT"

	DefaultStaticDir   = "public"
	DefaultViewsDir    = "views"
	DefaultPartialsDir = "views/partials"
	DefaultLogFile     = "server.log"
)

// BadRouteStatus selects how the /bad route reports its status.
const (
	// BadStatusFaithful sends 200 and sets the "HTTP/1.1: 404" header after the body is gone (no effect)
	BadStatusFaithful = "faithful"
	// BadStatusFixed sends 404 with the same JSON body
	BadStatusFixed = "fixed"
)

// LogFailureMode selects what happens to a request whose log line could not be appended.
const (
	// LogFailureDrop aborts the request and closes the connection without a response
	LogFailureDrop = "drop"
	// LogFailureContinue logs the failure and dispatches the request anyway
	LogFailureContinue = "continue"
)

// MainConfig holds the main configuration
type MainConfig struct {
	// Mutex for thread-safe access
	mux sync.Mutex `json:"-"`

	// Web interface settings
	Web *WebConfig `json:"web"`

	AppVersion string `json:"app_version"` // Application version, set at build time
}

// WebConfig holds web interface configuration
type WebConfig struct {
	Port           string `json:"port"` // forwarded verbatim to the listen call
	SSL            bool   `json:"ssl"`
	CertFile       string `json:"cert_file,omitempty"`
	KeyFile        string `json:"key_file,omitempty"`
	StaticDir      string `json:"static_dir"`
	ViewsDir       string `json:"views_dir"`
	PartialsDir    string `json:"partials_dir"`
	LogFile        string `json:"log_file"`
	BadRouteStatus string `json:"bad_route_status"`
	LogFailureMode string `json:"log_failure_mode"`
	WatchTemplates bool   `json:"watch_templates"`
	Debug          bool   `json:"debug"`
}

// NewDefaultConfig returns a configuration with sensible defaults
func NewDefaultConfig() *MainConfig {
	maincfg := &MainConfig{
		AppVersion: AppVersion,
		Web: &WebConfig{
			Port:           DefaultPort,
			SSL:            false,
			StaticDir:      DefaultStaticDir,
			ViewsDir:       DefaultViewsDir,
			PartialsDir:    DefaultPartialsDir,
			LogFile:        DefaultLogFile,
			BadRouteStatus: BadStatusFaithful,
			LogFailureMode: LogFailureDrop,
		},
	}

	maincfg.mux.Lock()
	log.Printf("MainConfig initialized (version: %s)", maincfg.AppVersion)
	maincfg.mux.Unlock()
	return maincfg
}

// ResolvePort returns the value of PORT from lookup if it is non-empty, else DefaultPort.
// A nil lookup reads the process environment.
func ResolvePort(lookup func(string) string) string {
	if lookup == nil {
		lookup = os.Getenv
	}
	if port := lookup(PortEnv); port != "" {
		return port
	}
	return DefaultPort
}

// Addr returns the listen address for the configured port
func (wc *WebConfig) Addr() string {
	return ":" + wc.Port
}

// Validate checks the mode switches and SSL settings
func (wc *WebConfig) Validate() error {
	if wc.Port == "" {
		return errors.New("port must not be empty")
	}
	switch wc.BadRouteStatus {
	case BadStatusFaithful, BadStatusFixed:
	default:
		return fmt.Errorf("invalid bad route status %q (want %s or %s)", wc.BadRouteStatus, BadStatusFaithful, BadStatusFixed)
	}
	switch wc.LogFailureMode {
	case LogFailureDrop, LogFailureContinue:
	default:
		return fmt.Errorf("invalid log failure mode %q (want %s or %s)", wc.LogFailureMode, LogFailureDrop, LogFailureContinue)
	}
	if wc.SSL && (wc.CertFile == "" || wc.KeyFile == "") {
		return errors.New("SSL enabled but cert_file or key_file not specified in config")
	}
	return nil
}
