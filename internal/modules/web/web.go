package web

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed static/index.html
var indexHTML []byte

//go:embed static/app.js
var appJS []byte

//go:embed static/style.css
var styleCSS []byte

// Handler serves the embedded browser frontend. The page duplicates the
// server's validation rules and keeps its own exchange history in
// localStorage, so the binary ships everything a browser needs.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.index)
	rg.GET("/static/app.js", h.script)
	rg.GET("/static/style.css", h.styles)
}

func (h *Handler) index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

func (h *Handler) script(c *gin.Context) {
	c.Data(http.StatusOK, "application/javascript; charset=utf-8", appJS)
}

func (h *Handler) styles(c *gin.Context) {
	c.Data(http.StatusOK, "text/css; charset=utf-8", styleCSS)
}
