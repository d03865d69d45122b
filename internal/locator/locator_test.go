package locator

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/stolasapp/rodtl/internal/browser"
	"github.com/stolasapp/rodtl/internal/browser/statichtml"
	"github.com/stolasapp/rodtl/internal/codec"
	"github.com/stolasapp/rodtl/internal/config"
	"github.com/stolasapp/rodtl/internal/dom"
	"github.com/stolasapp/rodtl/internal/query"
)

const fixture = `<!DOCTYPE html>
<html><body>
  <h1 data-testid="a">Hello h1</h1>
  <h2 data-new-id="b">Hello h2</h2>
  <div data-testid="list"><p>one</p><p>two</p></div>
  <p>three</p>
  <span data-testid="hidden" style="display: none">Hidden</span>
</body></html>`

func testConfig() config.Config {
	cfg := config.Default()
	cfg.AsyncUtilTimeout = 150 * time.Millisecond
	return cfg
}

func openScreen(t *testing.T) (*statichtml.Browser, *statichtml.Page, *Screen) {
	t.Helper()
	b, err := statichtml.New(statichtml.WithActionTimeout(200 * time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	require.NoError(t, b.RegisterSelectors(t.Context(), query.Default().All()))
	page, err := b.NewPage(t.Context())
	require.NoError(t, err)
	require.NoError(t, page.SetContent(t.Context(), fixture))
	return b, page, NewScreen(page, testConfig())
}

var errUnexpected = errors.New("unexpected page access")

type recordingScope struct {
	selectors []string
}

func (s *recordingScope) Locator(sel string) browser.Locator {
	s.selectors = append(s.selectors, sel)
	return browser.Failed(sel, errUnexpected)
}

func TestRunBuildsLazily(t *testing.T) {
	t.Parallel()

	tests := []struct {
		build func(q *Queries) *Locator
		want  string
	}{
		{
			build: func(q *Queries) *Locator { return q.GetByTestID("a") },
			want:  `get-by-test-id=["a"]`,
		},
		{
			build: func(q *Queries) *Locator { return q.QueryAllByText(codec.NewRegexp("hello", "i")) },
			want:  `query-all-by-text=["__REGEXP /hello/i"]`,
		},
		{
			build: func(q *Queries) *Locator {
				return q.GetByRole("button", map[string]any{"name": codec.NewRegexp("submit", "")})
			},
			want: `get-by-role=["button",{"name":"__REGEXP /submit/"}]`,
		},
		{
			build: func(q *Queries) *Locator { return q.GetAllByLabelText("Name") },
			want:  `get-all-by-label-text=["Name"]`,
		},
	}
	for _, test := range tests {
		t.Run(test.want, func(t *testing.T) {
			t.Parallel()
			scope := &recordingScope{}
			loc := test.build(Within(scope, testConfig()))
			assert.Equal(t, test.want, loc.Selector())
			assert.Equal(t, []string{test.want}, scope.selectors)
			assert.Equal(t, testConfig(), loc.Config())
		})
	}
}

func TestRunFailures(t *testing.T) {
	t.Parallel()

	scope := &recordingScope{}
	q := Within(scope, testConfig())

	_, err := q.Run("findByText", "a").Count(t.Context())
	require.ErrorContains(t, err, "findByText waits for its element: use Find")

	_, err = q.GetByText(make(chan int)).TextContent(t.Context())
	require.ErrorContains(t, err, "failed to build getByText selector")

	assert.Empty(t, scope.selectors)
}

func TestFindDoesNothingUntilAwaited(t *testing.T) {
	t.Parallel()

	scope := &recordingScope{}
	d := Within(scope, testConfig()).FindByText("a")
	d.Within().FindByRole("button")
	assert.Empty(t, scope.selectors)
	assert.Equal(t, testConfig(), d.Config())
}

func TestScreen(t *testing.T) {
	t.Parallel()

	_, _, screen := openScreen(t)
	ctx := t.Context()

	text, err := screen.GetByTestID("a").TextContent(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Hello h1", text)

	n, err := screen.QueryAllByText(codec.NewRegexp("^Hello", "")).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = screen.QueryByTestID("missing").Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = screen.GetByTestID("missing").TextContent(ctx)
	var elementErr *dom.ElementError
	require.ErrorAs(t, err, &elementErr)
	assert.Contains(t, err.Error(), `[getByTestId] Unable to find an element by: [data-testid="missing"]`)

	own, err := screen.GetByTestID("a").NodeText(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Hello h1", own)
	own, err = screen.GetByTestID("list").NodeText(ctx)
	require.NoError(t, err)
	assert.Empty(t, own)

	third, err := screen.Locator("p").Nth(2).TextContent(ctx)
	require.NoError(t, err)
	assert.Equal(t, "three", third)
}

func TestTypedOptions(t *testing.T) {
	t.Parallel()

	_, _, screen := openScreen(t)
	ctx := t.Context()

	heading := screen.GetByRole("heading", dom.RoleOptions{Name: codec.NewRegexp("h2$", ""), Level: 2})
	assert.Equal(t, `get-by-role=["heading",{"level":2,"name":"__REGEXP /h2$/"}]`, heading.Selector())
	text, err := heading.TextContent(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Hello h2", text)

	text, err = screen.GetByText("hello h1", dom.MatcherOptions{Exact: dom.Bool(false)}).TextContent(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Hello h1", text)

	n, err := screen.QueryAllByText("two", dom.MatcherOptions{Selector: "h1"}).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestWithin(t *testing.T) {
	t.Parallel()

	_, _, screen := openScreen(t)
	ctx := t.Context()
	items := codec.NewRegexp("^(one|two|three)$", "")

	n, err := screen.QueryAllByText(items).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	list := screen.GetByTestID("list")
	within := list.Within()
	assert.Equal(t, screen.Config(), within.Config())

	n, err = within.QueryAllByText(items).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	text, err := within.GetAllByText(items).Nth(1).TextContent(ctx)
	require.NoError(t, err)
	assert.Equal(t, "two", text)

	text, err = list.First().Within().GetByText("one").TextContent(ctx)
	require.NoError(t, err)
	assert.Equal(t, "one", text)
}

func TestFind(t *testing.T) {
	t.Parallel()

	_, _, screen := openScreen(t)
	ctx := t.Context()

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		loc, err := screen.FindByTestID("a").Await(ctx)
		require.NoError(t, err)
		assert.Equal(t, `query-all-by-test-id=["a"]`, loc.Selector())
		text, err := loc.TextContent(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Hello h1", text)
	})

	t.Run("all", func(t *testing.T) {
		t.Parallel()
		loc, err := screen.FindAllByText(codec.NewRegexp("^Hello", "")).Await(ctx)
		require.NoError(t, err)
		n, err := loc.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()
		_, err := screen.FindByTestID("missing").Await(ctx)
		require.Error(t, err)
		assert.NotErrorIs(t, err, browser.ErrTimeout)
		var elementErr *dom.ElementError
		require.ErrorAs(t, err, &elementErr)
		assert.Contains(t, err.Error(), "[getByTestId] Unable to find an element")
	})

	t.Run("hidden", func(t *testing.T) {
		t.Parallel()
		_, err := screen.FindByTestID("hidden").Await(ctx)
		require.ErrorIs(t, err, browser.ErrTimeout)
		var timeoutErr *browser.TimeoutError
		require.ErrorAs(t, err, &timeoutErr)
		assert.Equal(t, browser.StateVisible, timeoutErr.State)
		assert.Equal(t, 150*time.Millisecond, timeoutErr.Timeout)
	})

	t.Run("hidden attached", func(t *testing.T) {
		t.Parallel()
		wait := WaitFor{State: browser.StateAttached, Timeout: 100 * time.Millisecond}
		loc, err := screen.FindByTestID("hidden", wait).Await(ctx)
		require.NoError(t, err)
		text, err := loc.TextContent(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Hidden", text)
	})

	t.Run("not a find query", func(t *testing.T) {
		t.Parallel()
		_, err := screen.Find("getByText", "a").Await(ctx)
		require.ErrorIs(t, err, query.ErrNotFind)
	})
}

func TestFindWaitsForLateElement(t *testing.T) {
	t.Parallel()

	_, page, _ := openScreen(t)
	ctx := t.Context()
	cfg := testConfig()
	cfg.AsyncUtilTimeout = 2 * time.Second
	screen := NewScreen(page, cfg)

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

	loc, err := screen.FindByTestID("late").Await(ctx)
	require.NoError(t, err)
	text, err := loc.TextContent(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Late", text)
}

func TestDeferredChaining(t *testing.T) {
	t.Parallel()

	_, _, screen := openScreen(t)
	ctx := t.Context()

	list := screen.FindByTestID("list")
	two := list.Within().FindByText("two")
	assert.Equal(t, screen.Config(), two.Config())

	loc, err := two.Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, `query-all-by-test-id=["list"] >> query-all-by-text=["two"]`, loc.Selector())
	assert.Equal(t, screen.Config(), loc.Config())
	text, err := loc.TextContent(ctx)
	require.NoError(t, err)
	assert.Equal(t, "two", text)

	_, err = list.Within().FindByText("three").Await(ctx)
	require.ErrorContains(t, err, "[getByText] Unable to find an element with the text: three")

	_, err = screen.FindByTestID("missing").Within().FindByText("two").Await(ctx)
	require.ErrorContains(t, err, "[getByTestId]")

	resolved := Resolved(screen.GetByTestID("list"))
	loc, err = resolved.Within().FindByText("one").Await(ctx)
	require.NoError(t, err)
	text, err = loc.TextContent(ctx)
	require.NoError(t, err)
	assert.Equal(t, "one", text)
}

func TestDeferredAwaitsOnce(t *testing.T) {
	t.Parallel()

	calls := 0
	want := wrap(browser.Failed("x", errUnexpected), testConfig())
	d := Pending(func(context.Context) (*Locator, error) {
		calls++
		return want, nil
	}, testConfig())

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := d.Await(t.Context())
			assert.NoError(t, err)
			assert.Same(t, want, got)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, calls)
}

func TestDeferredRetriesAfterCancellation(t *testing.T) {
	t.Parallel()

	_, page, _ := openScreen(t)
	cfg := testConfig()
	cfg.AsyncUtilTimeout = 2 * time.Second
	d := NewScreen(page, cfg).FindByTestID("late")

	short, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()
	_, err := d.Await(short)
	require.Error(t, err)

	require.NoError(t, page.Mutate(func(doc *html.Node) {
		body := doc.FirstChild.NextSibling.LastChild
		el := &html.Node{Type: html.ElementNode, Data: "p"}
		dom.SetAttr(el, "data-testid", "late")
		el.AppendChild(&html.Node{Type: html.TextNode, Data: "Late"})
		body.AppendChild(el)
	}))

	loc, err := d.Await(t.Context())
	require.NoError(t, err)
	text, err := loc.TextContent(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "Late", text)
}

func TestDeferredWaitersHonourOwnContext(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	var calls atomic.Int32
	want := wrap(browser.Failed("x", errUnexpected), testConfig())
	d := Pending(func(ctx context.Context) (*Locator, error) {
		if calls.Add(1) == 1 {
			<-ctx.Done()
			return nil, ctx.Err()
		}
		<-release
		return want, nil
	}, testConfig())

	leader, cancelLeader := context.WithCancel(t.Context())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := d.Await(leader)
		leaderErr <- err
	}()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)

	follower := make(chan *Locator, 1)
	go func() {
		got, err := d.Await(t.Context())
		assert.NoError(t, err)
		follower <- got
	}()

	impatient, cancelImpatient := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancelImpatient()
	_, err := d.Await(impatient)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	cancelLeader()
	require.ErrorIs(t, <-leaderErr, context.Canceled)
	require.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, time.Millisecond)
	close(release)
	assert.Same(t, want, <-follower)

	got, err := d.Await(t.Context())
	require.NoError(t, err)
	assert.Same(t, want, got)
	assert.Equal(t, int32(2), calls.Load())
}

func TestInstallWithoutReload(t *testing.T) {
	t.Parallel()

	b, _, screen := openScreen(t)
	ctx := t.Context()

	loc := screen.QueryAllByTestID("b")
	n, err := loc.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	cfg := testConfig()
	cfg.TestIDAttribute = "data-new-id"
	require.NoError(t, b.Install(ctx, cfg))

	n, err = loc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	text, err := screen.GetByTestID("b").TextContent(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Hello h2", text)
}

func TestScreenRevoke(t *testing.T) {
	t.Parallel()

	_, page, screen := openScreen(t)
	ctx := t.Context()

	before := screen.GetByTestID("a")
	list := screen.GetByTestID("list")
	require.False(t, screen.Revoked())
	screen.Revoke()
	assert.True(t, screen.Revoked())

	_, err := before.TextContent(ctx)
	require.ErrorIs(t, err, ErrRevoked)
	_, err = list.Within().GetByText("one").TextContent(ctx)
	require.ErrorIs(t, err, ErrRevoked)
	_, err = screen.FindByTestID("a").Await(ctx)
	require.ErrorIs(t, err, ErrRevoked)
	require.ErrorIs(t, screen.SetContent(ctx, "<p></p>"), ErrRevoked)
	require.ErrorIs(t, screen.Locator("p").Click(ctx), ErrRevoked)

	// the page itself stays usable
	text, err := page.Locator(`get-by-test-id=["a"]`).TextContent(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Hello h1", text)
}
