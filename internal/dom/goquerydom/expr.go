package goquerydom

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
	"golang.org/x/net/html"

	"github.com/stolasapp/rodtl/internal/dom"
)

const (
	contentVar = "content"
	tagVar     = "tag"
	attrsVar   = "attrs"
)

// exprCache compiles CEL matcher predicates once per source.
type exprCache struct {
	env      *cel.Env
	programs sync.Map // string -> cel.Program
}

func newExprCache() (*exprCache, error) {
	env, err := cel.NewEnv(
		cel.Variable(contentVar, cel.StringType),
		cel.Variable(tagVar, cel.StringType),
		cel.Variable(attrsVar, cel.MapType(cel.StringType, cel.StringType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create matcher CEL environment: %w", err)
	}
	return &exprCache{env: env}, nil
}

func (c *exprCache) compile(src string) (cel.Program, error) {
	if prog, ok := c.programs.Load(src); ok {
		return prog.(cel.Program), nil //nolint:forcetypeassert // only programs are stored
	}
	ast, issues := c.env.Compile(src)
	if issues.Err() != nil {
		return nil, fmt.Errorf("failed to compile matcher expression %q: %w", src, issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("matcher expression %q must return bool, got %s", src, ast.OutputType())
	}
	prog, err := c.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to plan matcher expression %q: %w", src, err)
	}
	c.programs.Store(src, prog)
	return prog, nil
}

func evalExpr(prog cel.Program, content string, el *html.Node) bool {
	attrs := make(map[string]string, len(el.Attr))
	for _, attr := range el.Attr {
		attrs[attr.Key] = attr.Val
	}
	out, _, err := prog.Eval(map[string]any{
		contentVar: content,
		tagVar:     el.Data,
		attrsVar:   attrs,
	})
	if err != nil {
		return false
	}
	matched, ok := out.Value().(bool)
	return ok && matched && dom.IsElement(el)
}
