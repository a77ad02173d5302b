package server

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed web
var webFS embed.FS

// staticHandler serves StaticDir when configured, otherwise the embedded page.
func (s *Server) staticHandler() http.Handler {
	if s.opts.StaticDir != "" {
		return http.FileServer(http.Dir(s.opts.StaticDir))
	}
	sub, err := fs.Sub(webFS, "web")
	if err != nil {
		panic(err)
	}
	return http.FileServerFS(sub)
}
