package config

import "strings"

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// IsProductionLike reports whether env must run with production-grade settings
func IsProductionLike(env string) bool {
	env = strings.ToLower(env)
	return env == EnvStaging || env == EnvProduction
}
