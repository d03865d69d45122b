// Package uitest runs the query set against a real browser, loading fixture
// documents from a local fixture server.
package uitest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/stolasapp/rodtl/internal/app"
	"github.com/stolasapp/rodtl/internal/server"
)

// FixtureRoot is the directory fixture documents are served from.
const FixtureRoot = "testdata/fixtures"

// Server is a fixture server serving FixtureRoot and a bootstrap script.
type Server struct {
	baseURL string
	cancel  context.CancelFunc
	grp     *errgroup.Group
}

// newTestServer starts a fixture server on a random local port.
func newTestServer(logger *slog.Logger, script string) (*Server, error) {
	ctx, cancel := context.WithCancel(context.Background())
	grp, ctx := errgroup.WithContext(ctx)

	srv := app.New(logger, afero.NewOsFs(), app.Options{
		Root:   FixtureRoot,
		Script: script,
		Dev:    true,
	})
	addr, err := server.Start(ctx, grp, srv, "127.0.0.1:0")
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start fixture server: %w", err)
	}

	return &Server{
		baseURL: "http://" + addr.String(),
		cancel:  cancel,
		grp:     grp,
	}, nil
}

// URL constructs a full URL from the server base URL and a path.
func (s *Server) URL(path string) string {
	return s.baseURL + path
}

// Close shuts down the test server.
// Errors are ignored since this runs during test cleanup where failures
// are typically unrecoverable and already logged by the errgroup.
func (s *Server) Close() {
	s.cancel()
	_ = s.grp.Wait()
}
