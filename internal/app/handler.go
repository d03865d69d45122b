package app

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"mime"
	"path"

	"github.com/labstack/echo/v4"
	"github.com/spf13/afero"

	"github.com/stolasapp/rodtl/internal/content"
)

const indexName = "index.html"

type handler struct {
	fs     afero.Fs
	root   string
	script string
	logger *slog.Logger
}

func (h handler) register(e *echo.Echo) {
	if h.script != "" {
		e.GET(ScriptPath, h.bootstrap)
	}
	e.GET("/*", h.document)
}

func (h handler) bootstrap(c echo.Context) error {
	return c.Blob(http.StatusOK, "text/javascript; charset=utf-8", []byte(h.script))
}

func (h handler) document(c echo.Context) error {
	name := path.Join(h.root, path.Clean("/"+c.Param("*")))
	info, err := h.fs.Stat(name)
	if err == nil && info.IsDir() {
		name = path.Join(name, indexName)
	}
	data, err := afero.ReadFile(h.fs, name)
	if errors.Is(err, fs.ErrNotExist) {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("no fixture at %s", c.Request().URL.Path))
	}
	if err != nil {
		return fmt.Errorf("failed to read fixture %s: %w", name, err)
	}

	typ := content.TypeByPath(name)
	if !isDocument(typ) {
		return c.Blob(http.StatusOK, typ, data)
	}
	out, err := content.ToHTML(typ, data, h.logger)
	if err != nil {
		return fmt.Errorf("failed to render fixture %s: %w", name, err)
	}
	return c.HTMLBlob(http.StatusOK, out)
}

func isDocument(typ string) bool {
	mimeType, _, err := mime.ParseMediaType(typ)
	if err != nil {
		return false
	}
	switch mimeType {
	case content.TypeHTML, content.TypeMarkdown, content.TypePlain:
		return true
	default:
		return false
	}
}
