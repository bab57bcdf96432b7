// Package config loads file and environment configuration for the
// ctrq CLI: a config.yml (or ctrq.yml) for the logging and request
// service sections, an optional .env file, and CTRQ_* environment
// variable overrides.
//
// Library users normally skip this package and construct an
// httpc.Config directly.
package config
