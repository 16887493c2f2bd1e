// Package config loads and validates the service configuration.
//
// Configuration comes from an optional YAML file, the variable names used
// by existing deployments (PORT, AI_PROVIDER, RATE_LIMIT_PER_IP, ...) and
// MAIRCHEN_SECTION_FIELD variables, in increasing precedence:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("mairchen.yaml")
//
// # Example
//
//	server:
//	  listen_address: ":8000"
//	provider:
//	  tier: ollama-cloud
//	  model: ministral-3:8b-cloud
//	  api_key: ${secret:ollama-api-key}
//	limits:
//	  per_client_limit: 10
//	  window: 1h
//	  global_daily_limit: 1000
//	  max_daily_cost: 5.0
//	  cost_per_request: 0.0015
//	usage:
//	  backend: sqlite
//	  sqlite:
//	    path: data/usage.db
//	secrets:
//	  dir: /run/secrets
//
// Secret references are not resolved here; see package secrets.
//
// # Hot reload
//
// A Watcher reloads the file on change. Limits, pricing and reading speeds
// take effect immediately; listener, provider and storage settings need a
// restart.
package config
