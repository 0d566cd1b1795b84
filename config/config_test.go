// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlainSettings(t *testing.T) {
	t.Parallel()
	cfg, err := New(t.Context(), map[string]any{
		"debug": true,
		"port":  8080,
	})
	require.NoError(t, err)

	ok, err := cfg.Has("debug")
	require.NoError(t, err)
	assert.True(t, ok)

	value, err := cfg.Value("port")
	require.NoError(t, err)
	assert.Equal(t, 8080, value)
}

func TestValueMissing(t *testing.T) {
	t.Parallel()
	cfg, err := New(t.Context(), nil)
	require.NoError(t, err)

	_, err = cfg.Value("absent")
	var nss *NoSuchSettingError
	require.ErrorAs(t, err, &nss)
	assert.Equal(t, "absent", nss.Setting)
	assert.True(t, IsConfigurationError(err))
}

func TestGetFallback(t *testing.T) {
	t.Parallel()
	cfg, err := New(t.Context(), map[string]any{"k": 1})
	require.NoError(t, err)

	value, err := cfg.Get("k", 99)
	require.NoError(t, err)
	assert.Equal(t, 1, value)

	value, err = cfg.Get("absent", 99)
	require.NoError(t, err)
	assert.Equal(t, 99, value)
}

func TestInitializerPipelineOrder(t *testing.T) {
	t.Parallel()
	upper := InitializerFunc("name", func(_ context.Context, raw any) (any, error) {
		return strings.ToUpper(raw.(string)), nil
	})
	exclaim := InitializerFunc("name", func(_ context.Context, raw any) (any, error) {
		return raw.(string) + "!", nil
	})

	cfg, err := New(t.Context(), map[string]any{"name": "svc"},
		WithInitializers(upper, exclaim))
	require.NoError(t, err)

	value, err := cfg.Value("name")
	require.NoError(t, err)
	assert.Equal(t, "SVC!", value, "initializers run in registration order")
}

func TestInitializerIntroducesSetting(t *testing.T) {
	t.Parallel()
	cfg, err := New(t.Context(), nil,
		WithInitializers(WithDefault("timeout", 30)))
	require.NoError(t, err)

	value, err := cfg.Value("timeout")
	require.NoError(t, err)
	assert.Equal(t, 30, value, "an absent setting reaches the pipeline as nil")
}

func TestInitializerFailureAborts(t *testing.T) {
	t.Parallel()
	boom := errors.New("bad value")
	reject := InitializerFunc("port", func(context.Context, any) (any, error) {
		return nil, boom
	})

	_, err := New(t.Context(), map[string]any{"port": -1}, WithInitializers(reject))
	var ice *ImproperlyConfiguredError
	require.ErrorAs(t, err, &ice)
	assert.Equal(t, "port", ice.Setting)
	require.ErrorIs(t, err, boom)
}

func TestRequiredSetting(t *testing.T) {
	t.Parallel()

	t.Run("Present", func(t *testing.T) {
		t.Parallel()
		cfg, err := New(t.Context(), map[string]any{"api_key": "s3cret"},
			WithInitializers(Required("api_key")))
		require.NoError(t, err)

		value, err := cfg.Value("api_key")
		require.NoError(t, err)
		assert.Equal(t, "s3cret", value)
	})

	t.Run("Missing", func(t *testing.T) {
		t.Parallel()
		_, err := New(t.Context(), nil, WithInitializers(Required("api_key")))

		var sre *SettingRequiredError
		require.ErrorAs(t, err, &sre)
		assert.Equal(t, "api_key", sre.Setting)
		assert.Contains(t, err.Error(), "api_key", "the default message names the setting")
	})
}

func TestInitializerRegistry(t *testing.T) {
	t.Parallel()
	reg := NewInitializerRegistry()
	reg.Register(func() Initializer { return WithDefault("region", "eu-west-1") })

	cfg, err := New(t.Context(), nil, WithRegistry(reg))
	require.NoError(t, err)

	value, err := cfg.Value("region")
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", value)
}

func TestSecretInitializerFlag(t *testing.T) {
	t.Parallel()
	secret := SecretInitializerFunc("token", func(_ context.Context, raw any) (any, error) {
		return raw, nil
	})
	assert.True(t, secret.HasSecrets())
	assert.False(t, Required("token").HasSecrets())
}

func TestNotSetup(t *testing.T) {
	t.Parallel()
	cfg := NotSetup("")

	_, err := cfg.Has("k")
	var nse *NotSetupError
	require.ErrorAs(t, err, &nse)

	_, err = cfg.Value("k")
	require.ErrorAs(t, err, &nse)

	_, err = cfg.Get("k", 1)
	require.ErrorAs(t, err, &nse)

	_, err = NotSetup("call Setup first").Value("k")
	assert.EqualError(t, err, "call Setup first")
}

func TestProxyDefaultsToNotSetup(t *testing.T) {
	t.Parallel()
	p := NewProxy(nil)
	_, err := p.Value("k")

	var nse *NotSetupError
	require.ErrorAs(t, err, &nse)
}

func TestProxySwap(t *testing.T) {
	t.Parallel()
	cfg, err := New(t.Context(), map[string]any{"k": 1})
	require.NoError(t, err)

	p := NewProxy(nil)
	p.SetSource(cfg)

	value, err := p.Value("k")
	require.NoError(t, err)
	assert.Equal(t, 1, value)
}

func TestIsConfigurationError(t *testing.T) {
	t.Parallel()
	assert.True(t, IsConfigurationError(NewNoSuchSettingError("k")))
	assert.True(t, IsConfigurationError(NewNotSetupError("")))
	assert.True(t, IsConfigurationError(NewSettingRequiredError("k", "")))
	assert.True(t, IsConfigurationError(NewImproperlyConfiguredError("k", errors.New("x"))))
	assert.True(t, IsConfigurationError(NewConfigurationError("x", nil)))
	assert.False(t, IsConfigurationError(errors.New("plain")))
	assert.False(t, IsConfigurationError(nil))
}
