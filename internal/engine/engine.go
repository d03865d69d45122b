// Package engine adapts the query library to the automation framework's
// custom selector engine protocol: one engine per query name, each decoding
// its selector body and delegating to the library.
package engine

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/stolasapp/rodtl/internal/codec"
	"github.com/stolasapp/rodtl/internal/dom"
	"github.com/stolasapp/rodtl/internal/query"
)

// SelectorEngine resolves the body of a selector part against a subtree.
type SelectorEngine interface {
	Query(root *html.Node, body string) (*html.Node, error)
	QueryAll(root *html.Node, body string) ([]*html.Node, error)
}

// Registrar accepts custom selector engines under a name.
type Registrar interface {
	RegisterEngine(name string, engine SelectorEngine) error
}

// Decoder decodes selector bodies into query arguments. [*codec.Codec]
// satisfies it.
type Decoder interface {
	Decode(body string) ([]any, error)
}

// Snapshotter is a library that is replaced as a whole on reconfiguration.
// An engine call takes one snapshot so the arguments are decoded and the
// query run under the same configuration.
type Snapshotter interface {
	Snapshot() (dom.Library, Decoder)
}

// Engine runs one synchronous query. The query name is bound at construction
// and never read from the selector.
type Engine struct {
	name    query.Name
	lib     dom.Library
	decoder Decoder
}

var _ SelectorEngine = (*Engine)(nil)

// New returns the engine for name.
func New(name query.Name, lib dom.Library, c Decoder) *Engine {
	if c == nil {
		c = codec.New()
	}
	return &Engine{name: name, lib: lib, decoder: c}
}

// Name returns the query the engine runs.
func (e *Engine) Name() query.Name { return e.name }

// Query runs a single-result query and returns its node, or nil when the
// query matched nothing.
func (e *Engine) Query(root *html.Node, body string) (*html.Node, error) {
	if e.name.IsAll() {
		return nil, &ContractError{Query: e.name}
	}
	result, err := e.call(root, body)
	if err != nil {
		return nil, err
	}
	switch result := result.(type) {
	case nil:
		return nil, nil
	case *html.Node:
		return result, nil
	case []*html.Node:
		if len(result) == 0 {
			return nil, nil
		}
		return result[0], nil
	default:
		return nil, fmt.Errorf("%s returned unexpected %T", e.name, result)
	}
}

// QueryAll runs the query and normalizes its result to a list: nothing
// becomes an empty list and a single node a one-element list.
func (e *Engine) QueryAll(root *html.Node, body string) ([]*html.Node, error) {
	result, err := e.call(root, body)
	if err != nil {
		return nil, err
	}
	switch result := result.(type) {
	case nil:
		return []*html.Node{}, nil
	case *html.Node:
		if result == nil {
			return []*html.Node{}, nil
		}
		return []*html.Node{result}, nil
	case []*html.Node:
		if result == nil {
			return []*html.Node{}, nil
		}
		return result, nil
	default:
		return nil, fmt.Errorf("%s returned unexpected %T", e.name, result)
	}
}

func (e *Engine) call(root *html.Node, body string) (any, error) {
	lib, decoder := e.lib, e.decoder
	if s, ok := lib.(Snapshotter); ok {
		lib, decoder = s.Snapshot()
	}
	args, err := decoder.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s arguments: %w", e.name, err)
	}
	result, err := lib.Call(e.name, root, args)
	if err != nil {
		return nil, &QueryError{Query: e.name, Err: err}
	}
	return result, nil
}

// Register registers one engine per synchronous name under its selector
// prefix. Find names are skipped; they are built from the sync engines.
func Register(reg Registrar, lib dom.Library, c Decoder, names []query.Name) error {
	for _, name := range names {
		if name.IsFind() {
			continue
		}
		if err := reg.RegisterEngine(name.SelectorPrefix(), New(name, lib, c)); err != nil {
			return fmt.Errorf("failed to register %s engine: %w", name, err)
		}
	}
	return nil
}
