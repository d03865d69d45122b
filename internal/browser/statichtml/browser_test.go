package statichtml

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/stolasapp/rodtl/internal/browser"
	"github.com/stolasapp/rodtl/internal/codec"
	"github.com/stolasapp/rodtl/internal/config"
	"github.com/stolasapp/rodtl/internal/dom"
	"github.com/stolasapp/rodtl/internal/engine"
	"github.com/stolasapp/rodtl/internal/query"
)

const fixture = `<!DOCTYPE html>
<html><body>
  <h1 data-testid="a">Hello h1</h1>
  <h2 data-new-id="b">Hello h2</h2>
  <div id="list"><p>one</p><p>two</p><p hidden>three</p></div>
  <button disabled>Off</button>
  <span data-testid="hidden" style="display: none">Hidden</span>
</body></html>`

func openPage(t *testing.T, opts ...Option) (*Browser, *Page) {
	t.Helper()
	b, err := New(append([]Option{WithActionTimeout(200 * time.Millisecond)}, opts...)...)
	require.NoError(t, err)
	require.NoError(t, b.RegisterSelectors(t.Context(), query.Default().All()))
	page, err := b.NewPage(t.Context())
	require.NoError(t, err)
	require.NoError(t, page.SetContent(t.Context(), fixture))
	t.Cleanup(func() { _ = b.Close() })
	return b, page
}

func TestLocatorResolve(t *testing.T) {
	t.Parallel()

	_, page := openPage(t)
	ctx := t.Context()

	tests := []struct {
		selector string
		want     int
	}{
		{selector: "p", want: 3},
		{selector: "#list >> p", want: 3},
		{selector: "#list >> p >> visible=true", want: 2},
		{selector: "p >> visible=false", want: 1},
		{selector: "p >> nth=1", want: 1},
		{selector: "p >> nth=-1", want: 1},
		{selector: "p >> nth=5", want: 0},
		{selector: `query-all-by-text=["/^Hello/"]`, want: 0},
		{selector: `query-all-by-text=["__REGEXP /^Hello/"]`, want: 2},
		{selector: `body >> query-all-by-text=["__REGEXP /^Hello/"] >> visible=true`, want: 2},
		{selector: `ByText=/hello/i`, want: 2},
		{selector: `ByTestId=a`, want: 1},
		{selector: `get-by-test-id=["a"]`, want: 1},
		{selector: `query-by-test-id=["missing"]`, want: 0},
	}
	for _, test := range tests {
		t.Run(test.selector, func(t *testing.T) {
			t.Parallel()
			got, err := page.Locator(test.selector).Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, test.want, got)
		})
	}
}

func TestLocatorChaining(t *testing.T) {
	t.Parallel()

	_, page := openPage(t)
	ctx := t.Context()

	list := page.Locator("#list")
	assert.Equal(t, "#list >> p >> nth=0", list.Locator("p").First().Selector())

	text, err := list.Locator("p").Nth(1).TextContent(ctx)
	require.NoError(t, err)
	assert.Equal(t, "two", text)

	all, err := list.Locator("p").All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	text, err = all[2].TextContent(ctx)
	require.NoError(t, err)
	assert.Equal(t, "three", text)

	inner, err := list.InnerHTML(ctx)
	require.NoError(t, err)
	assert.Equal(t, `<p>one</p><p>two</p><p hidden="">three</p>`, inner)

	id, ok, err := list.GetAttribute(ctx, "id")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "list", id)
}

func TestLocatorQueryErrors(t *testing.T) {
	t.Parallel()

	_, page := openPage(t)
	ctx := t.Context()

	text, err := page.Locator(`get-by-test-id=["a"]`).TextContent(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Hello h1", text)

	_, err = page.Locator(`get-by-test-id=["missing"]`).TextContent(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, browser.ErrTimeout)
	assert.Contains(t, err.Error(),
		`TestingLibraryElementError: [getByTestId] Unable to find an element by: [data-testid="missing"]`)
	var elementErr *dom.ElementError
	require.ErrorAs(t, err, &elementErr)

	_, err = page.Locator(`get-by-text=["__REGEXP /^Hello/"]`).Count(ctx)
	assert.ErrorContains(t, err, "Found multiple elements with the text: /^Hello/")

	_, err = page.Locator("p").TextContent(ctx)
	var strictErr *browser.StrictModeError
	require.ErrorAs(t, err, &strictErr)
	assert.Equal(t, 3, strictErr.Count)

	_, err = page.Locator(`nope=["x"]`).Count(ctx)
	assert.ErrorContains(t, err, `unknown engine "nope"`)

	_, err = page.Locator("p >> visible=maybe").Count(ctx)
	assert.ErrorContains(t, err, "malformed visible selector")

	err = page.Locator("button").Click(ctx)
	assert.ErrorContains(t, err, "is not enabled")
}

func TestLocatorWaitFor(t *testing.T) {
	t.Parallel()

	_, page := openPage(t)
	ctx := t.Context()
	short := 100 * time.Millisecond

	hidden := page.Locator(`query-all-by-test-id=["hidden"]`).First()
	require.NoError(t, hidden.WaitFor(ctx, browser.WaitForOptions{State: browser.StateAttached, Timeout: short}))
	require.NoError(t, hidden.WaitFor(ctx, browser.WaitForOptions{State: browser.StateHidden, Timeout: short}))

	err := hidden.WaitFor(ctx, browser.WaitForOptions{Timeout: short})
	require.ErrorIs(t, err, browser.ErrTimeout)
	var timeoutErr *browser.TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, browser.StateVisible, timeoutErr.State)
	assert.Equal(t, short, timeoutErr.Timeout)

	visible, err := hidden.IsVisible(ctx)
	require.NoError(t, err)
	assert.False(t, visible)

	missing := page.Locator(`query-all-by-test-id=["missing"]`)
	require.NoError(t, missing.WaitFor(ctx, browser.WaitForOptions{State: browser.StateDetached, Timeout: short}))
	visible, err = missing.IsVisible(ctx)
	require.NoError(t, err)
	assert.False(t, visible)

	err = page.Locator(`get-by-test-id=["missing"]`).WaitFor(ctx, browser.WaitForOptions{Timeout: short})
	require.Error(t, err)
	assert.NotErrorIs(t, err, browser.ErrTimeout)
	assert.Contains(t, err.Error(), "Unable to find an element")
}

func TestLocatorWaitForMutation(t *testing.T) {
	t.Parallel()

	_, page := openPage(t)
	ctx := t.Context()

	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = page.Mutate(func(doc *html.Node) {
			body := doc.FirstChild.NextSibling.LastChild
			el := &html.Node{Type: html.ElementNode, Data: "p"}
			dom.SetAttr(el, "data-testid", "late")
			el.AppendChild(&html.Node{Type: html.TextNode, Data: "Late"})
			body.AppendChild(el)
		})
	}()

	loc := page.Locator(`query-all-by-test-id=["late"]`).First()
	require.NoError(t, loc.WaitFor(ctx, browser.WaitForOptions{Timeout: 2 * time.Second}))
	text, err := loc.TextContent(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Late", text)
}

func TestInstall(t *testing.T) {
	t.Parallel()

	b, page := openPage(t)
	ctx := t.Context()

	count := func(sel string) int {
		t.Helper()
		n, err := page.Locator(sel).Count(ctx)
		require.NoError(t, err)
		return n
	}
	assert.Equal(t, 0, count(`query-all-by-test-id=["b"]`))

	cfg := config.Default()
	cfg.TestIDAttribute = "data-new-id"
	require.NoError(t, b.Install(ctx, cfg))
	assert.Equal(t, cfg, b.Config())
	assert.Equal(t, 1, count(`query-all-by-test-id=["b"]`))
	assert.Equal(t, 0, count(`query-all-by-test-id=["a"]`))

	// a snapshot outlives later installs
	_, before := b.runtime.Snapshot()
	shallow := cfg
	shallow.SerializationDepth = 0
	require.NoError(t, b.Install(ctx, shallow))
	_, after := b.runtime.Snapshot()
	const nested = `[{"name": "__REGEXP /b/"}]`
	args, err := before.Decode(nested)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": codec.NewRegexp("b", "")}, args[0])
	args, err = after.Decode(nested)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "__REGEXP /b/"}, args[0])
	exports, err := b.Exports(ctx)
	require.NoError(t, err)
	assert.Contains(t, exports, "getByTestId")

	boom := errors.New("boom")
	b2, err := New(WithLibrary(func(config.Config, *dom.Matchers) (dom.Library, error) { return nil, boom }))
	require.ErrorIs(t, err, boom)
	assert.Nil(t, b2)
}

func TestRegisterEngine(t *testing.T) {
	t.Parallel()

	b, _ := openPage(t)
	err := b.RegisterSelectors(t.Context(), []query.Name{"getByText"})
	require.ErrorContains(t, err, `"get-by-text" selector engine has been already registered`)

	require.NoError(t, b.RegisterEngine("custom", engine.NewSimple(query.ByText, b.Library())))
	_, ok := b.engine("custom")
	assert.True(t, ok)
}

func TestGoto(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/fixtures/page.md", []byte("# Title\n\nSome *text*\n"), 0o600))
	require.NoError(t, afero.WriteFile(fs, "/fixtures/page.html", []byte(fixture), 0o600))

	e := echo.New()
	e.GET("/page", func(c echo.Context) error {
		return c.HTML(http.StatusOK, `<h1 data-testid="remote">Remote</h1>`)
	})
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	_, page := openPage(t, WithFs(fs))
	ctx := t.Context()

	require.NoError(t, page.Goto(ctx, "/fixtures/page.md"))
	text, err := page.Locator(`get-by-role=["heading"]`).TextContent(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Title", text)
	assert.Equal(t, "/fixtures/page.md", page.URL())

	require.NoError(t, page.Goto(ctx, "file:///fixtures/page.html"))
	n, err := page.Locator("p").Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.NoError(t, page.Goto(ctx, srv.URL+"/page"))
	text, err = page.Locator(`get-by-test-id=["remote"]`).TextContent(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Remote", text)

	markup, err := page.Content(ctx)
	require.NoError(t, err)
	assert.True(t, strings.Contains(markup, `data-testid="remote"`))

	require.Error(t, page.Goto(ctx, srv.URL+"/missing"))
	require.Error(t, page.Goto(ctx, "/fixtures/missing.html"))
	require.ErrorContains(t, page.Goto(ctx, "ftp://example.com/x"), `unsupported url scheme "ftp"`)
}

func TestClosedPage(t *testing.T) {
	t.Parallel()

	_, page := openPage(t)
	require.NoError(t, page.Close())

	_, err := page.Locator("p").Count(context.Background())
	require.ErrorIs(t, err, browser.ErrClosed)
	require.ErrorIs(t, page.SetContent(context.Background(), "<p></p>"), browser.ErrClosed)
	require.ErrorIs(t, page.Mutate(func(*html.Node) {}), browser.ErrClosed)
}
