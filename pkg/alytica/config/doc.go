/*
Package config loads alytica client settings from files and the environment.

# Overview

Config wraps a map[string]any and provides typed accessor methods that
return a default when a key is missing or has the wrong type. The alytica
package turns a Config into a ClientConfig with alytica.ConfigFrom.

# File Loading

	cfg, err := config.FromFile("alytica.yaml")
	if err != nil {
	    log.Fatal(err)
	}

A file looks like:

	client_id: web-app
	client_secret: s3cret
	api_url: https://api.alytica.example
	debug: false
	process_profile: true
	timeout: 10s
	global_properties:
	  app_version: 1.4.2

# Environment

FromEnv reads ALYTICA_CLIENT_ID, ALYTICA_CLIENT_SECRET, ALYTICA_API_URL,
ALYTICA_DEBUG, ALYTICA_DISABLED, ALYTICA_PROCESS_PROFILE and ALYTICA_TIMEOUT.
Only variables that are set appear in the result, so Merge can layer the
environment over a file:

	fileCfg, _ := config.FromFile("alytica.yaml")
	envCfg, _ := config.FromEnv()
	cfg := config.Merge(fileCfg, envCfg)

# Thread Safety

Config is safe for concurrent read access. The underlying map is not
modified after creation.
*/
package config
