package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xhtml "golang.org/x/net/html"
)

func TestExtractHTMLBody(t *testing.T) {
	t.Parallel()
	extract := ExtractHTMLBody()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "extracts body content",
			input: "<html><head><title>Test</title></head><body><p>Hello</p></body></html>",
			want:  "<p>Hello</p>",
		},
		{
			name:  "returns input unchanged when no body tag",
			input: "<p>Just a paragraph</p>",
			want:  "<p>Just a paragraph</p>",
		},
		{
			name:  "extracts body discarding attributes",
			input: `<body class="main"><div>Content</div></body>`,
			want:  "<div>Content</div>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := extract([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestNormalizeNBSP(t *testing.T) {
	t.Parallel()
	normalize := NormalizeNBSP()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "replaces nbsp entity",
			input: "hello&nbsp;world",
			want:  "hello world",
		},
		{
			name:  "replaces nbsp entity case insensitive",
			input: "hello&NBSP;world&Nbsp;test",
			want:  "hello world test",
		},
		{
			name:  "replaces unicode nbsp character",
			input: "hello\u00A0world",
			want:  "hello world",
		},
		{
			name:  "replaces multiple nbsp",
			input: "a&nbsp;&nbsp;&nbsp;b",
			want:  "a   b",
		},
		{
			name:  "handles mixed entities and unicode",
			input: "a&nbsp;\u00A0b",
			want:  "a  b",
		},
		{
			name:  "no nbsp unchanged",
			input: "hello world",
			want:  "hello world",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := normalize([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func parseDoc(t *testing.T, input string) *xhtml.Node {
	t.Helper()
	doc, err := xhtml.Parse(strings.NewReader(input))
	require.NoError(t, err)
	return doc
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<html><head><title>x</title></head><body>`+
		`<div id="app"><h1 data-testid="a" onclick="steal()">Hello h1</h1>`+
		`<script>steal()</script><input type="text" placeholder="Name" hidden></div>`+
		`</body></html>`)

	snap := NewSnapshotter(0)
	assert.Equal(t, strings.Join([]string{
		`<body>`,
		`  <div id="app">`,
		`    <h1 data-testid="a">`,
		`      Hello h1`,
		`    </h1>`,
		`    <input type="text" placeholder="Name" hidden="">`,
		`  </div>`,
		`</body>`,
	}, "\n"), snap.Snapshot(doc))

	h1 := doc.LastChild.LastChild.FirstChild.FirstChild
	require.Equal(t, "h1", h1.Data)
	assert.Equal(t, "<h1 data-testid=\"a\">\n  Hello h1\n</h1>", snap.Snapshot(h1))
}

func TestSnapshotCustomAttribute(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<body><span testid="x" data-other="y">z</span></body>`)
	assert.NotContains(t, NewSnapshotter(0).Snapshot(doc), `testid="x"`)
	assert.Contains(t, NewSnapshotter(0, "testid").Snapshot(doc), `testid="x"`)
	assert.Contains(t, NewSnapshotter(0).Snapshot(doc), `data-other="y"`)
}

func TestSnapshotTruncates(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `<body><p>`+strings.Repeat("word ", 50)+`</p></body>`)
	got := NewSnapshotter(21).Snapshot(doc)
	assert.Equal(t, "<body>\n  <p>\n    word...", got)
}

func TestToHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		contentType string
		input       string
		want        []string
	}{
		{
			name:        "html passes through",
			contentType: "text/html; charset=utf-8",
			input:       "<p>a&nbsp;b</p>",
			want:        []string{"<p>a b</p>"},
		},
		{
			name:        "markdown keeps raw html",
			contentType: TypeMarkdown,
			input:       "# Title\n\n<label for=\"n\">Name</label><input id=\"n\">\n",
			want:        []string{`<h1 id="title">Title</h1>`, `<label for="n">Name</label><input id="n">`},
		},
		{
			name:        "plain text is preformatted",
			contentType: TypePlain,
			input:       "a < b",
			want:        []string{"<pre>a &lt; b</pre>"},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			got, err := ToHTML(test.contentType, []byte(test.input), nil)
			require.NoError(t, err)
			for _, want := range test.want {
				assert.Contains(t, string(got), want)
			}
		})
	}

	_, err := ToHTML("not a type/", nil, nil)
	require.ErrorContains(t, err, "failed to parse content mime type")
}

func TestTypeByPath(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "text/markdown; charset=utf-8", TypeByPath("fixtures/page.md"))
	assert.Equal(t, TypePlain, TypeByPath("notes.TXT"))
	assert.Contains(t, TypeByPath("page.html"), "text/html")
	assert.Equal(t, TypeHTML, TypeByPath("page"))
}

func TestHTMLToMarkdown(t *testing.T) {
	t.Parallel()
	got, err := HTMLToMarkdown()([]byte(`<h2>Hello</h2><p><em>there</em></p>`))
	require.NoError(t, err)
	assert.Equal(t, "## Hello\n\n_there_", strings.TrimSpace(string(got)))
}
