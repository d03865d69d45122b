// Package app serves fixture documents to browsers under test. Markdown and
// plain text fixtures are rendered to HTML, and the page bootstrap script is
// served alongside so fixtures can include it with a script tag.
package app

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/spf13/afero"
)

// ScriptPath is where the bootstrap script is served.
const ScriptPath = "/__rodtl/bootstrap.js"

// Options configure the fixture server.
type Options struct {
	// Root is the directory of fs documents are served from.
	Root string
	// Script is the bootstrap script served at ScriptPath. Empty disables
	// the route.
	Script string
	// Dev logs every request.
	Dev bool
}

// New creates a fixture server over fs.
func New(logger *slog.Logger, fs afero.Fs, opts Options) *echo.Echo {
	srv := echo.New()

	srv.HideBanner = true
	srv.HidePort = true
	srv.Logger.SetLevel(log.OFF)

	if opts.Dev {
		srv.Debug = true
		srv.Use(logRequests(logger))
	}
	srv.Use(
		middleware.Recover(),
		middleware.RequestID(),
	)

	if opts.Root == "" {
		opts.Root = "."
	}
	handler{fs: fs, root: opts.Root, script: opts.Script, logger: logger}.register(srv)
	return srv
}

func logRequests(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			latency := time.Since(start)

			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			attrs := []slog.Attr{
				slog.String("method", req.Method),
				slog.String("uri", req.RequestURI),
				slog.Duration("latency", latency),
				slog.Int("status", res.Status),
			}
			if err != nil {
				attrs = append(attrs, slog.Any("error", err))
			}
			logger.LogAttrs(
				req.Context(),
				slog.LevelDebug,
				"request handled",
				attrs...,
			)
			return err
		}
	}
}
