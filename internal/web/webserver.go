// Package web provides the HTTP server and page handlers for the jungle web site
package web

/*

	### **Core Files:**
	1. **`webserver_core_routes.go`** - Server setup, middleware order, listen/shutdown
	2. **`web_utils.go`** - Rendering and error helpers

	### **Pipeline Files:**
	3. **`web_static.go`** - Static files from the public directory
	4. **`web_requestlog.go`** - server.log request line per request

	### **Template Files:**
	5. **`web_views.go`** - Page + partial parsing, hot reload
	6. **`web_helpers.go`** - Template helper funcs

	### **Page Handler Files:**
	7. **`web_pages.go`** - Route table and the /bad JSON route

*/
