package config

import "github.com/yndnr/rostertrace/internal/telemetry/logger"

// Sanitize returns a copy of the config with sensitive fields masked.
// Used when logging the effective configuration at startup.
func Sanitize(cfg *ServerConfig) *ServerConfig {
	sanitized := *cfg
	if sanitized.Cache.Redis.Password != "" {
		sanitized.Cache.Redis.Password = logger.Mask(sanitized.Cache.Redis.Password)
	}
	sanitized.Source.BaseURL = logger.RedactURL(sanitized.Source.BaseURL)
	return &sanitized
}
