package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Environment is the set of variables FromEnv understands.
// Pointer fields stay nil when the variable is unset, so only variables that
// are actually present end up in the resulting Config.
type Environment struct {
	ClientID       *string        `env:"ALYTICA_CLIENT_ID"`
	ClientSecret   *string        `env:"ALYTICA_CLIENT_SECRET"`
	APIURL         *string        `env:"ALYTICA_API_URL"`
	Debug          *bool          `env:"ALYTICA_DEBUG"`
	Disabled       *bool          `env:"ALYTICA_DISABLED"`
	ProcessProfile *bool          `env:"ALYTICA_PROCESS_PROFILE"`
	Timeout        *time.Duration `env:"ALYTICA_TIMEOUT"`
}

// FromEnv loads configuration from ALYTICA_* environment variables.
// Keys match the ones used in config files.
func FromEnv() (Config, error) {
	var e Environment
	if err := env.Parse(&e); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return e.toConfig(), nil
}

func (e Environment) toConfig() Config {
	m := make(map[string]any)
	if e.ClientID != nil {
		m[KeyClientID] = *e.ClientID
	}
	if e.ClientSecret != nil {
		m[KeyClientSecret] = *e.ClientSecret
	}
	if e.APIURL != nil {
		m[KeyAPIURL] = *e.APIURL
	}
	if e.Debug != nil {
		m[KeyDebug] = *e.Debug
	}
	if e.Disabled != nil {
		m[KeyDisabled] = *e.Disabled
	}
	if e.ProcessProfile != nil {
		m[KeyProcessProfile] = *e.ProcessProfile
	}
	if e.Timeout != nil {
		m[KeyTimeout] = *e.Timeout
	}
	return New(m)
}

// Keys shared by config files and the environment.
const (
	KeyClientID         = "client_id"
	KeyClientSecret     = "client_secret"
	KeyAPIURL           = "api_url"
	KeyDebug            = "debug"
	KeyDisabled         = "disabled"
	KeyProcessProfile   = "process_profile"
	KeyTimeout          = "timeout"
	KeyGlobalProperties = "global_properties"
)
