package config

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"

	"github.com/stolasapp/rodtl/internal/browser"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		yaml    string
		wantErr string
		check   func(t *testing.T, f *File)
	}{
		{
			name: "empty file uses defaults",
			yaml: ``,
			check: func(t *testing.T, f *File) {
				t.Helper()
				assert.Equal(t, Default(), f.Config())
				assert.Equal(t, BackendStatic, f.Browser.Backend)
				assert.Equal(t, DefaultActionTimeout, f.Browser.ActionTimeout)
				assert.Equal(t, slog.LevelInfo, f.Log.Level)
			},
		},
		{
			name: "library overrides",
			yaml: `
library:
  test_id_attribute: data-new-id
  async_util_timeout: 250
  async_util_expected_state: attached
log:
  level: debug
  dev: true
browser:
  backend: rod
  headless: false
`,
			check: func(t *testing.T, f *File) {
				t.Helper()
				cfg := f.Config()
				assert.Equal(t, "data-new-id", cfg.TestIDAttribute)
				assert.Equal(t, 250*time.Millisecond, cfg.AsyncUtilTimeout)
				assert.Equal(t, browser.StateAttached, cfg.AsyncUtilExpectedState)
				assert.Equal(t, DefaultSerializationDepth, cfg.SerializationDepth)
				assert.False(t, f.Library.SerializationDepth.Valid)
				assert.Equal(t, slog.LevelDebug, f.Log.Level)
				assert.True(t, f.Log.Dev)
				assert.Equal(t, BackendRod, f.Browser.Backend)
				assert.False(t, f.Browser.Headless)
			},
		},
		{
			name:    "hidden is not an expected state",
			yaml:    `library: {async_util_expected_state: hidden}`,
			wantErr: "async_util_expected_state must be visible or attached",
		},
		{
			name:    "negative timeout fails validation",
			yaml:    `library: {async_util_timeout: -1}`,
			wantErr: "config validation failed",
		},
		{
			name:    "bad attribute name fails validation",
			yaml:    `library: {test_id_attribute: "data test"}`,
			wantErr: "test_id_attribute must be a valid attribute name",
		},
		{
			name:    "unknown backend fails validation",
			yaml:    `browser: {backend: webkit}`,
			wantErr: "browser.backend must be static or rod",
		},
		{
			name:    "unknown log level",
			yaml:    `log: {level: loud}`,
			wantErr: "failed to unmarshal config file",
		},
		{
			name:    "unknown key",
			yaml:    `root_uri: "https://example.com"`,
			wantErr: "failed to unmarshal config file",
		},
		{
			name:    "invalid yaml syntax",
			yaml:    `invalid: [yaml: content`,
			wantErr: "failed to unmarshal config file",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			fs := writeTestConfig(t, test.yaml)
			cfg, err := Load(fs, "/rodtl.yaml")

			if test.wantErr != "" {
				require.ErrorContains(t, err, test.wantErr)
				assert.Nil(t, cfg)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			test.check(t, cfg)
		})
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()

	cfg, err := Load(afero.NewMemMapFs(), "/nonexistent/path/config.yaml")
	require.ErrorContains(t, err, "failed to read config file")
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.Nil(t, cfg)
}

func TestMarshalRoundTrip(t *testing.T) {
	t.Parallel()

	want := DefaultFile()
	want.Library.TestIDAttribute = null.StringFrom("data-qa")
	want.Browser.Backend = BackendRod

	data, err := want.Marshal()
	require.NoError(t, err)

	fs := writeTestConfig(t, string(data))
	got, err := Load(fs, "/rodtl.yaml")
	require.NoError(t, err)
	assert.Equal(t, want.Config(), got.Config())
	assert.Equal(t, want.Browser, got.Browser)
	assert.Equal(t, want.Log, got.Log)
}

func TestApply(t *testing.T) {
	t.Parallel()

	base := Default()
	assert.Equal(t, base, base.Apply(Delta{}))

	got := base.Apply(Delta{
		AsyncUtilTimeout:       null.IntFrom(50),
		AsyncUtilExpectedState: null.StringFrom("attached"),
	})
	assert.Equal(t, DefaultTestIDAttribute, got.TestIDAttribute)
	assert.Equal(t, 50*time.Millisecond, got.AsyncUtilTimeout)
	assert.Equal(t, browser.StateAttached, got.AsyncUtilExpectedState)

	merged := Delta{TestIDAttribute: null.StringFrom("a")}.Merge(Delta{
		TestIDAttribute:    null.StringFrom("b"),
		SerializationDepth: null.IntFrom(4),
	})
	assert.Equal(t, "b", merged.TestIDAttribute.String)
	assert.Equal(t, int64(4), merged.SerializationDepth.Int64)
	assert.False(t, merged.AsyncUtilTimeout.Valid)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, Default().Validate())

	cfg := Default()
	cfg.SerializationDepth = 100
	cfg.AsyncUtilExpectedState = browser.StateDetached
	err := cfg.Validate()
	require.ErrorContains(t, err, "serialization_depth must be between 0 and 16")
	require.ErrorContains(t, err, "async_util_expected_state must be visible or attached")
}

func TestCodec(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.SerializationDepth = 5
	assert.Equal(t, 5, cfg.Codec().MaxDepth())
}

func writeTestConfig(t *testing.T, content string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	err := afero.WriteFile(fs, "/rodtl.yaml", []byte(content), 0o600)
	require.NoError(t, err)
	return fs
}
