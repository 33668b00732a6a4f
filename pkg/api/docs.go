package api

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

//go:embed docs
var docsFS embed.FS

// embedFileSystem adapts the embedded docs tree to the static middleware.
type embedFileSystem struct {
	http.FileSystem
}

func (e embedFileSystem) Exists(prefix string, path string) bool {
	f, err := e.Open(strings.TrimPrefix(path, prefix))
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

// ServeDocs mounts the embedded API documentation under /docs: the OpenAPI
// definition plus a small viewer page.
func ServeDocs(engine *gin.Engine) {
	sub, err := fs.Sub(docsFS, "docs")
	if err != nil {
		// the docs directory is embedded at compile time
		panic(err)
	}
	engine.Use(static.Serve("/docs", embedFileSystem{http.FS(sub)}))
	engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/docs/")
	})
}
