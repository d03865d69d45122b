package codec

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []any
		want string
	}{
		{
			name: "plain string",
			args: []any{"Hello h1"},
			want: `["Hello h1"]`,
		},
		{
			name: "no args",
			args: nil,
			want: `[]`,
		},
		{
			name: "top-level regexp",
			args: []any{NewRegexp("hello", "i")},
			want: `["__REGEXP /hello/i"]`,
		},
		{
			name: "regexp in options",
			args: []any{"button", map[string]any{"name": NewRegexp("^sub", "")}},
			want: `["button",{"name":"__REGEXP /^sub/"}]`,
		},
		{
			name: "struct options",
			args: []any{"heading", struct {
				Name  Regexp `json:"name"`
				Level int    `json:"level"`
			}{NewRegexp("a/b", "g"), 2}},
			want: `["heading",{"level":2,"name":"__REGEXP /a/b/g"}]`,
		},
		{
			name: "matcher ref and expression",
			args: []any{MatcherRef{ID: "m1"}, map[string]any{"x": Expr{Source: "content.size() > 3"}}},
			want: `["__MATCHER m1",{"x":"__EXPR content.size() > 3"}]`,
		},
		{
			name: "html is not escaped",
			args: []any{"<b>&</b>"},
			want: `["<b>&</b>"]`,
		},
		{
			name: "regexp at the depth bound is converted",
			args: []any{map[string]any{"a": map[string]any{"b": NewRegexp("x", "")}}},
			want: `[{"a":{"b":"__REGEXP /x/"}}]`,
		},
		{
			name: "regexp beyond the depth bound passes through",
			args: []any{map[string]any{"a": map[string]any{"b": map[string]any{"c": NewRegexp("x", "")}}}},
			want: `[{"a":{"b":{"c":{"__flags":"","__regex":"x"}}}}]`,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			got, err := New().Encode(test.args)
			require.NoError(t, err)
			assert.Equal(t, test.want, got)
		})
	}
}

func TestEncodeUnsupported(t *testing.T) {
	t.Parallel()
	_, err := New().Encode([]any{func() {}})
	require.ErrorContains(t, err, "failed to marshal arguments")
}

func TestMaxDepth(t *testing.T) {
	t.Parallel()

	args := []any{map[string]any{"a": map[string]any{"b": map[string]any{"c": NewRegexp("x", "i")}}}}

	deep := New(WithMaxDepth(3))
	encoded, err := deep.Encode(args)
	require.NoError(t, err)
	assert.Equal(t, `[{"a":{"b":{"c":"__REGEXP /x/i"}}}]`, encoded)
	decoded, err := deep.Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, args, decoded)

	shallow := New(WithMaxDepth(0))
	encoded, err = shallow.Encode([]any{NewRegexp("top", ""), map[string]any{"n": NewRegexp("x", "")}})
	require.NoError(t, err)
	assert.Equal(t, `["__REGEXP /top/",{"n":{"__flags":"","__regex":"x"}}]`, encoded)
}

func TestDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    []any
		wantErr string
	}{
		{
			name: "tagged values",
			in:   `["__REGEXP /hello/i",{"name":"__MATCHER abc","f":"__EXPR true"},null,1.5,true]`,
			want: []any{
				NewRegexp("hello", "i"),
				map[string]any{"name": MatcherRef{ID: "abc"}, "f": Expr{Source: "true"}},
				nil,
				1.5,
				true,
			},
		},
		{
			name: "tags beyond the bound stay strings",
			in:   `[[[["__REGEXP /x/"]]]]`,
			want: []any{[]any{[]any{[]any{"__REGEXP /x/"}}}},
		},
		{
			name: "malformed tag stays a string",
			in:   `["__REGEXP nope"]`,
			want: []any{"__REGEXP nope"},
		},
		{
			name: "empty",
			in:   ``,
			want: []any{},
		},
		{
			name:    "invalid json",
			in:      `["unterminated`,
			wantErr: "invalid JSON",
		},
		{
			name:    "not an array",
			in:      `{"a":1}`,
			wantErr: "expected an array",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			got, err := New().Decode(test.in)
			if test.wantErr != "" {
				require.ErrorIs(t, err, ErrMalformed)
				require.ErrorContains(t, err, test.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.want, got)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	faker := gofakeit.New(42)
	codec := New()
	for range 200 {
		args := fakeArgs(faker)
		encoded, err := codec.Encode(args)
		require.NoError(t, err)
		decoded, err := codec.Decode(encoded)
		require.NoError(t, err)
		require.Equal(t, args, decoded, encoded)
	}
}

// fakeArgs builds JSON-safe arguments with regular expressions no deeper than
// the default bound.
func fakeArgs(faker *gofakeit.Faker) []any {
	args := make([]any, 0, 3)
	for range faker.IntRange(0, 3) {
		args = append(args, fakeValue(faker, 0))
	}
	return args
}

func fakeValue(faker *gofakeit.Faker, depth int) any {
	kinds := 6
	if depth >= DefaultMaxDepth {
		kinds = 4
	}
	switch faker.IntRange(0, kinds) {
	case 0:
		return faker.Sentence(faker.IntRange(1, 4))
	case 1:
		return faker.Float64()
	case 2:
		return faker.Bool()
	case 3:
		return nil
	case 4:
		return NewRegexp(faker.LetterN(uint(faker.IntRange(1, 8))), faker.RandomString([]string{"", "i", "gi", "ms"}))
	case 5:
		obj := map[string]any{}
		for range faker.IntRange(0, 3) {
			obj[faker.Word()] = fakeValue(faker, depth+1)
		}
		return obj
	default:
		arr := []any{}
		for range faker.IntRange(0, 3) {
			arr = append(arr, fakeValue(faker, depth+1))
		}
		return arr
	}
}

func TestRegexp(t *testing.T) {
	t.Parallel()

	re, err := ParseRegexp("/hello\\/world/gi")
	require.NoError(t, err)
	assert.Equal(t, NewRegexp(`hello\/world`, "gi"), re)
	assert.Equal(t, `/hello\/world/gi`, re.String())

	ok, err := re.MatchString("HELLO/World")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = NewRegexp(`^\d+$`, "").MatchString("12a")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = ParseRegexp("hello")
	require.ErrorIs(t, err, ErrMalformed)
	_, err = NewRegexp("x", "q").Compile()
	require.ErrorIs(t, err, ErrMalformed)
	_, err = NewRegexp("(", "").Compile()
	require.ErrorContains(t, err, "failed to compile")
}

func TestRegexpFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		re    Regexp
		input string
		match bool
	}{
		{"no flags", NewRegexp(`^b$`, ""), "a\nb", false},
		{"multiline", NewRegexp(`^b$`, "m"), "a\nb", true},
		{"dot stops at newline", NewRegexp(`a.b`, ""), "a\nb", false},
		{"dotall", NewRegexp(`a.b`, "s"), "a\nb", true},
		{"ignore case", NewRegexp(`ab`, "i"), "AB", true},
		{"stateful flags ignored", NewRegexp(`ab`, "gy"), "xab", true},
		{"combined", NewRegexp(`^B.C$`, "ims"), "a\nb\nc", true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			ok, err := test.re.MatchString(test.input)
			require.NoError(t, err)
			assert.Equal(t, test.match, ok)
		})
	}
}
