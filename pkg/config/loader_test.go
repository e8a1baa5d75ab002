package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formcheck/pkg/config"
)

type defaultsConfig struct {
	Addr    string        `env:"FORMCHECK_TEST_ADDR" envDefault:":8080"`
	Watch   bool          `env:"FORMCHECK_TEST_WATCH" envDefault:"true"`
	Timeout time.Duration `env:"FORMCHECK_TEST_TIMEOUT" envDefault:"5s"`
}

type overrideConfig struct {
	Addr  string `env:"FORMCHECK_TEST_OVERRIDE_ADDR" envDefault:":8080"`
	Watch bool   `env:"FORMCHECK_TEST_OVERRIDE_WATCH" envDefault:"true"`
}

type cachedConfig struct {
	Value string `env:"FORMCHECK_TEST_CACHED" envDefault:"first"`
}

type requiredConfig struct {
	Rules string `env:"FORMCHECK_TEST_REQUIRED,required"`
}

type badTypeConfig struct {
	Port int `env:"FORMCHECK_TEST_BAD_PORT"`
}

type fileConfig struct {
	Name     string   `env:"FORMCHECK_TEST_NAME"`
	List     []string `env:"FORMCHECK_TEST_LIST" envSeparator:","`
	Priority string   `env:"FORMCHECK_TEST_PRIORITY"`
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		config.Reset()
		var cfg defaultsConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, ":8080", cfg.Addr)
		assert.True(t, cfg.Watch)
		assert.Equal(t, 5*time.Second, cfg.Timeout)
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		config.Reset()
		t.Setenv("FORMCHECK_TEST_OVERRIDE_ADDR", "127.0.0.1:9000")
		t.Setenv("FORMCHECK_TEST_OVERRIDE_WATCH", "false")

		var cfg overrideConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
		assert.False(t, cfg.Watch)
	})

	t.Run("cached per type", func(t *testing.T) {
		config.Reset()
		var first cachedConfig
		require.NoError(t, config.Load(&first))
		assert.Equal(t, "first", first.Value)

		t.Setenv("FORMCHECK_TEST_CACHED", "second")
		var second cachedConfig
		require.NoError(t, config.Load(&second))
		assert.Equal(t, "first", second.Value)

		config.Reset()
		var third cachedConfig
		require.NoError(t, config.Load(&third))
		assert.Equal(t, "second", third.Value)
	})

	t.Run("required missing", func(t *testing.T) {
		config.Reset()
		os.Unsetenv("FORMCHECK_TEST_REQUIRED")

		var cfg requiredConfig
		err := config.Load(&cfg)
		assert.ErrorIs(t, err, config.ErrParsingConfig)

		t.Setenv("FORMCHECK_TEST_REQUIRED", "rules/")
		require.NoError(t, config.Load(&cfg), "failed parse is not cached")
		assert.Equal(t, "rules/", cfg.Rules)
	})

	t.Run("bad value", func(t *testing.T) {
		config.Reset()
		t.Setenv("FORMCHECK_TEST_BAD_PORT", "eighty")
		var cfg badTypeConfig
		assert.ErrorIs(t, config.Load(&cfg), config.ErrParsingConfig)
	})

	t.Run("nil pointer", func(t *testing.T) {
		assert.ErrorIs(t, config.Load[defaultsConfig](nil), config.ErrNilPointer)
	})
}

func TestMustLoad(t *testing.T) {
	config.Reset()
	os.Unsetenv("FORMCHECK_TEST_REQUIRED")

	assert.Panics(t, func() {
		var cfg requiredConfig
		config.MustLoad(&cfg)
	})
	assert.NotPanics(t, func() {
		var cfg defaultsConfig
		config.MustLoad(&cfg)
	})
}

func TestLoadEnv(t *testing.T) {
	t.Run("reads file without overriding set variables", func(t *testing.T) {
		config.Reset()
		t.Setenv("FORMCHECK_TEST_PRIORITY", "process")
		// Registered so t.Setenv restores the unset state afterwards.
		t.Setenv("FORMCHECK_TEST_NAME", "")
		os.Unsetenv("FORMCHECK_TEST_NAME")
		t.Setenv("FORMCHECK_TEST_LIST", "")
		os.Unsetenv("FORMCHECK_TEST_LIST")

		require.NoError(t, config.LoadEnv("testdata/.env.test"))

		var cfg fileConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "from_file", cfg.Name)
		assert.Equal(t, []string{"a", "b", "c"}, cfg.List)
		assert.Equal(t, "process", cfg.Priority)
	})

	t.Run("missing file", func(t *testing.T) {
		assert.ErrorIs(t, config.LoadEnv("testdata/missing.env"), config.ErrLoadingEnvFile)
	})

	t.Run("no paths", func(t *testing.T) {
		assert.NoError(t, config.LoadEnv())
	})
}
