// Package bootstrap renders the script installed into every browser page. It
// optionally carries the query library bundle, configures it, and defines
// window.__rodtl: the argument reviver, one selector engine per synchronous
// query, the simple By<Strategy> engines and the chained selector runner used
// by the rod backend.
package bootstrap

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"text/template"

	"github.com/dop251/goja"

	"github.com/stolasapp/rodtl/internal/config"
	"github.com/stolasapp/rodtl/internal/engine"
	"github.com/stolasapp/rodtl/internal/query"
)

// Global is the page global the script defines.
const Global = "__rodtl"

//go:embed bootstrap.js.tmpl
var source string

var tmpl = template.Must(template.New("bootstrap").Delims("{%", "%}").Parse(source))

var (
	testIDPattern  = regexp.MustCompile(`testIdAttribute: (['"])data-testid(['"])`)
	timeoutPattern = regexp.MustCompile(`asyncUtilTimeout: \d+`)
)

// Options are the inputs of [Build].
type Options struct {
	// Config is the query configuration the script applies.
	Config config.Config
	// Names are the queries to define engines for. Find queries are skipped.
	// The standard set is used when empty.
	Names []query.Name
	// Library is the source of the query library bundle. When empty the page
	// is expected to load the library itself.
	Library string
	// Matchers maps matcher IDs to JavaScript function sources.
	Matchers map[string]string
}

type matcherSource struct {
	ID     string
	Source string
}

type data struct {
	Library       string
	Config        string
	MaxDepth      int
	Engines       string
	SimpleEngines string
	Matchers      []matcherSource
}

// Build renders the bootstrap script for opts. The result depends only on
// opts, so a new configuration means a new script.
func Build(opts Options) (string, error) {
	names := opts.Names
	if len(names) == 0 {
		names = query.Default().Synchronous()
	}
	engines := make(map[string]string, len(names))
	for _, name := range names {
		if name.IsSynchronous() {
			engines[name.SelectorPrefix()] = string(name)
		}
	}
	simple := make(map[string]string, len(query.Strategies))
	for _, strategy := range query.Strategies {
		simple[engine.SimpleName(strategy)] = string(query.Compose(query.PrefixQueryAll, strategy))
	}

	d := data{
		Library:  ConfigureLibrary(opts.Library, opts.Config),
		MaxDepth: opts.Config.SerializationDepth,
	}
	var err error
	if d.Config, err = marshal(map[string]any{
		"testIdAttribute":  opts.Config.TestIDAttribute,
		"asyncUtilTimeout": opts.Config.AsyncUtilTimeout.Milliseconds(),
	}); err != nil {
		return "", err
	}
	if d.Engines, err = marshal(engines); err != nil {
		return "", err
	}
	if d.SimpleEngines, err = marshal(simple); err != nil {
		return "", err
	}
	for _, id := range slices.Sorted(maps.Keys(opts.Matchers)) {
		quoted, err := marshal(id)
		if err != nil {
			return "", err
		}
		d.Matchers = append(d.Matchers, matcherSource{
			ID:     quoted,
			Source: strings.TrimSpace(opts.Matchers[id]),
		})
	}

	var out strings.Builder
	if err = tmpl.Execute(&out, d); err != nil {
		return "", fmt.Errorf("failed to render bootstrap script: %w", err)
	}
	return out.String(), nil
}

// ConfigureLibrary rewrites the defaults baked into a query library bundle,
// so queries issued while the bundle initializes already see cfg.
func ConfigureLibrary(script string, cfg config.Config) string {
	if script == "" {
		return script
	}
	if cfg.TestIDAttribute != "" {
		script = testIDPattern.ReplaceAllString(script, "testIdAttribute: ${1}"+cfg.TestIDAttribute+"${2}")
	}
	if cfg.AsyncUtilTimeout > 0 {
		script = timeoutPattern.ReplaceAllString(script,
			"asyncUtilTimeout: "+strconv.FormatInt(cfg.AsyncUtilTimeout.Milliseconds(), 10))
	}
	return script
}

// Validate checks that script parses as JavaScript.
func Validate(script string) error {
	if _, err := goja.Compile("bootstrap.js", script, false); err != nil {
		return fmt.Errorf("failed to compile bootstrap script: %w", err)
	}
	return nil
}

func marshal(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal bootstrap data: %w", err)
	}
	return string(raw), nil
}
