package web

import (
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
)

// StaticMiddleware serves files from root when the request path names an
// existing regular file and stops the chain there. Anything else (missing
// files, directories, dotfiles, non GET/HEAD methods) falls through to the
// next handler.
func StaticMiddleware(root string) gin.HandlerFunc {
	dir := http.Dir(root)

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.Next()
			return
		}

		name := path.Clean("/" + c.Request.URL.Path)
		if name == "/" || hasDotSegment(name) {
			c.Next()
			return
		}

		f, err := dir.Open(name)
		if err != nil {
			c.Next()
			return
		}
		defer f.Close()

		fi, err := f.Stat()
		if err != nil || fi.IsDir() {
			// no directory listings
			c.Next()
			return
		}

		http.ServeContent(c.Writer, c.Request, fi.Name(), fi.ModTime(), f)
		c.Abort()
	}
}

// hasDotSegment reports whether any path element is hidden (".git", ".env", ...)
func hasDotSegment(name string) bool {
	for _, seg := range strings.Split(name, "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}
