package alytica

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/alytica/pkg/alytica/config"
)

func TestConfigFrom(t *testing.T) {
	cfg, err := config.FromYAML([]byte(`
client_id: web-app
client_secret: s3cret
api_url: https://api.alytica.example
debug: true
disabled: true
process_profile: true
timeout: 3s
global_properties:
  app_version: "1.4.2"
`))
	require.NoError(t, err)

	got, err := ConfigFrom(cfg)
	require.NoError(t, err)
	assert.Equal(t, ClientConfig{
		ClientID:       "web-app",
		ClientSecret:   "s3cret",
		APIURL:         "https://api.alytica.example",
		Debug:          true,
		Disabled:       true,
		ProcessProfile: true,
		Timeout:        3 * time.Second,
	}, got)
	assert.Equal(t, Properties{"app_version": "1.4.2"}, GlobalPropertiesFrom(cfg))
}

func TestConfigFrom_Empty(t *testing.T) {
	cfg := config.New(nil)

	got, err := ConfigFrom(cfg)
	require.NoError(t, err)
	assert.Equal(t, ClientConfig{}, got)
	assert.Nil(t, GlobalPropertiesFrom(cfg))

	_, err = New(got)
	assert.ErrorIs(t, err, ErrMissingClientID)
}

func TestConfigFrom_WrongTypes(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		key  string
	}{
		{"quoted bool", "client_id: c\ndebug: \"yes\"\n", config.KeyDebug},
		{"numeric client id", "client_id: 42\n", config.KeyClientID},
		{"list api url", "client_id: c\napi_url: [a]\n", config.KeyAPIURL},
		{"string disabled", "client_id: c\ndisabled: off-ish\n", config.KeyDisabled},
		{"unparsable timeout", "client_id: c\ntimeout: soon\n", config.KeyTimeout},
		{"negative timeout", "client_id: c\ntimeout: -2s\n", config.KeyTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.FromYAML([]byte(tt.doc))
			require.NoError(t, err)

			_, err = ConfigFrom(cfg)
			require.ErrorIs(t, err, ErrInvalidSetting)
			assert.Contains(t, err.Error(), tt.key)
		})
	}

	t.Run("environment values are accepted", func(t *testing.T) {
		t.Setenv("ALYTICA_CLIENT_ID", "env")
		t.Setenv("ALYTICA_PROCESS_PROFILE", "true")
		t.Setenv("ALYTICA_TIMEOUT", "1500ms")

		cfg, err := config.FromEnv()
		require.NoError(t, err)

		got, err := ConfigFrom(cfg)
		require.NoError(t, err)
		assert.Equal(t, ClientConfig{ClientID: "env", ProcessProfile: true, Timeout: 1500 * time.Millisecond}, got)
	})
}
