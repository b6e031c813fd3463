package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/omniledger-neil/webserver/internal/config"
)

// pageRoute maps a GET path to a page template and its variables
type pageRoute struct {
	Path string
	Page string
	Data gin.H
}

var pageRoutes = []pageRoute{
	{Path: "/", Page: "home", Data: gin.H{"pageTitle": "Home Page", "welcomeMessage": "Welcome to the Jungle,"}},
	{Path: "/about", Page: "about", Data: gin.H{"pageTitle": "About Page"}},
	{Path: "/projects", Page: "projects", Data: gin.H{"pageTitle": "Projects Page"}},
	{Path: "/help", Page: "help", Data: gin.H{"pageTitle": "Help Page"}},
}

func (s *WebServer) pageHandler(route pageRoute) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.renderPage(c, route.Page, route.Data)
	}
}

// badPage answers /bad with a JSON error body.
//
// In the faithful mode the status stays 200: the "HTTP/1.1: 404" header is
// set after the body has been written and never reaches the client.
func (s *WebServer) badPage(c *gin.Context) {
	body := gin.H{"errorMessage": "BAD"}
	if s.Config.BadRouteStatus == config.BadStatusFixed {
		c.JSON(http.StatusNotFound, body)
		return
	}
	c.JSON(http.StatusOK, body)
	c.Header("HTTP/1.1", "404")
}
