package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		want    func(cfg *Config)
		err     bool
	}{
		{
			caption: "an empty file yields the defaults",
			src:     ``,
			want:    func(cfg *Config) {},
		},
		{
			caption: "keys override the defaults",
			src: `
output: json
fail_on_useless: true
log_level: debug
telemetry:
  traces: stdout
watch:
  debounce: 1s
`,
			want: func(cfg *Config) {
				cfg.Output = OutputJSON
				cfg.FailOnUseless = true
				cfg.LogLevel = "debug"
				cfg.Telemetry.Traces = "stdout"
				cfg.Watch.Debounce = time.Second
			},
		},
		{
			caption: "an unknown key is an error",
			src:     `outputs: json`,
			err:     true,
		},
		{
			caption: "an unknown output format is an error",
			src:     `output: xml`,
			err:     true,
		},
		{
			caption: "an unknown color mode is an error",
			src:     `color: sometimes`,
			err:     true,
		},
		{
			caption: "a debounce window must be positive",
			src:     `watch: {debounce: 0s}`,
			err:     true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			cfg, err := Decode(strings.NewReader(tt.src))
			if tt.err {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			want := Default()
			tt.want(want)
			assert.Equal(t, want, cfg)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("a missing default file yields the defaults", func(t *testing.T) {
		chdir(t, t.TempDir())
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("the default file in the working directory is read", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFileName), []byte("output: yaml\n"), 0644))
		chdir(t, dir)
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, OutputYAML, cfg.Output)
	})

	t.Run("an explicit path must exist", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("errors name the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("color: red\n"), 0644))
		_, err := Load(path)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidConfig)
		assert.Contains(t, err.Error(), path)
	})
}

// chdir changes the working directory for the duration of the test (t.Chdir requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
