// Package config provides server configuration for RosterTrace.
//
//   - spec.go: ServerConfig struct definition
//   - default.go: Default configuration values
//   - verify.go: Validation of addresses, durations and backend settings
//   - sanitize.go: Log sanitization (hide sensitive values)
//
// Configuration is loaded via internal/infra/confloader from a YAML file and
// ROSTERTRACE_* environment variables.
package config
