package alytica

import (
	"fmt"
	"time"

	"github.com/randalmurphal/alytica/pkg/alytica/config"
)

// ConfigFrom maps a loaded config onto ClientConfig. Missing keys keep their
// zero values; New applies the API URL default and validation. A key that is
// present with the wrong type fails with ErrInvalidSetting.
func ConfigFrom(c config.Config) (ClientConfig, error) {
	raw := c.Raw()
	for _, key := range []string{config.KeyClientID, config.KeyClientSecret, config.KeyAPIURL} {
		if v, ok := raw[key]; ok {
			if _, ok := v.(string); !ok {
				return ClientConfig{}, invalidSetting(key, "a string", v)
			}
		}
	}
	for _, key := range []string{config.KeyDebug, config.KeyDisabled, config.KeyProcessProfile} {
		if v, ok := raw[key]; ok {
			if _, ok := v.(bool); !ok {
				return ClientConfig{}, invalidSetting(key, "a boolean", v)
			}
		}
	}

	var timeout time.Duration
	if v, ok := raw[config.KeyTimeout]; ok {
		// Unparsable values come back as -1.
		timeout = c.Duration(config.KeyTimeout, -1)
		if timeout < 0 {
			return ClientConfig{}, invalidSetting(config.KeyTimeout, "a non-negative duration", v)
		}
	}

	return ClientConfig{
		ClientID:       c.String(config.KeyClientID, ""),
		ClientSecret:   c.String(config.KeyClientSecret, ""),
		APIURL:         c.String(config.KeyAPIURL, ""),
		Debug:          c.Bool(config.KeyDebug, false),
		Disabled:       c.Bool(config.KeyDisabled, false),
		ProcessProfile: c.Bool(config.KeyProcessProfile, false),
		Timeout:        timeout,
	}, nil
}

func invalidSetting(key, want string, got any) error {
	return fmt.Errorf("%w: %s must be %s, got %T", ErrInvalidSetting, key, want, got)
}

// GlobalPropertiesFrom returns the global_properties section of c, or nil.
func GlobalPropertiesFrom(c config.Config) Properties {
	m := c.Map(config.KeyGlobalProperties)
	if m == nil {
		return nil
	}
	return Properties(m)
}
