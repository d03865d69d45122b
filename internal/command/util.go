package command

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/spf13/afero"
	"golang.org/x/term"

	"github.com/stolasapp/rodtl/internal/browser"
	"github.com/stolasapp/rodtl/internal/browser/rodbrowser"
	"github.com/stolasapp/rodtl/internal/browser/statichtml"
	"github.com/stolasapp/rodtl/internal/config"
	"github.com/stolasapp/rodtl/internal/query"
)

type configKey struct{}

func interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func prompt(prompt string, mask bool) ([]byte, error) {
	if interactive() {
		if _, err := os.Stderr.WriteString(prompt); err != nil {
			return nil, err
		}
	}
	return readLine(os.Stdin, mask)
}

// cloned from term.readPasswordLine.
func readLine(stdin *os.File, mask bool) ([]byte, error) {
	if mask && term.IsTerminal(int(stdin.Fd())) {
		return term.ReadPassword(int(stdin.Fd()))
	}
	var buf [1]byte
	var ret []byte

	for {
		n, err := stdin.Read(buf[:])
		if n > 0 {
			switch buf[0] {
			case '\b':
				if len(ret) > 0 {
					ret = ret[:len(ret)-1]
				}
			case '\n':
				if runtime.GOOS != "windows" {
					return ret, nil
				}
				// otherwise ignore \n
			case '\r':
				if runtime.GOOS == "windows" {
					return ret, nil
				}
				// otherwise ignore \r
			default:
				ret = append(ret, buf[0]) //nolint:gosec // erroneous error
			}
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) && len(ret) > 0 {
				return ret, nil
			}
			return ret, err
		}
	}
}

func version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown-dev"
	}
	ver := "unknown"
	dirty := false
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			ver = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if dirty {
		ver += "-dev"
	}
	return ver
}

func loadConfig(ctx context.Context) (*config.File, *slog.Logger, error) {
	cfg, ok := ctx.Value(configKey{}).(*config.File)
	if !ok {
		return nil, nil, errors.New("config file resolution failed")
	}
	return cfg, slog.Default(), nil
}

func readLibrary(fs afero.Fs, path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// backend is the part of a browser the commands drive.
type backend interface {
	RegisterSelectors(ctx context.Context, names []query.Name) error
	Exports(ctx context.Context) ([]string, error)
	Install(ctx context.Context, cfg config.Config) error
	OpenPage(ctx context.Context) (browser.Page, error)
	Close() error
}

// openBackend starts the configured browser backend with every query its
// library exports registered and the file's query configuration installed.
func openBackend(
	ctx context.Context,
	fs afero.Fs,
	cfg *config.File,
	logger *slog.Logger,
	library string,
) (backend, error) {
	var (
		b   backend
		err error
	)
	switch cfg.Browser.Backend {
	case config.BackendRod:
		var rb *rodbrowser.Browser
		rb, err = rodbrowser.Launch(ctx, cfg.Browser,
			rodbrowser.WithLogger(logger),
			rodbrowser.WithLibrary(library),
		)
		b = rb
	default:
		var sb *statichtml.Browser
		sb, err = statichtml.New(
			statichtml.WithFs(fs),
			statichtml.WithLogger(logger),
			statichtml.WithActionTimeout(cfg.Browser.ActionTimeout),
		)
		b = sb
	}
	if err != nil {
		return nil, err
	}
	exports, err := b.Exports(ctx)
	if err != nil {
		return nil, errors.Join(err, b.Close())
	}
	if err = b.RegisterSelectors(ctx, query.NewRegistry(exports).All()); err != nil {
		return nil, errors.Join(err, b.Close())
	}
	if err = b.Install(ctx, cfg.Config()); err != nil {
		return nil, errors.Join(err, b.Close())
	}
	return b, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
