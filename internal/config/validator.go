package config

import (
	"fmt"
	"strings"
)

// Example values shipped in the sample environment file
const (
	exampleDBPassword = "change_this_secure_password"
	exampleAPIKey     = "generate_with_openssl_rand_hex_32"
)

// productionEnvironments disable the development-only shortcuts
var productionEnvironments = []string{"prod", "production"}

// Warnings reports settings that load fine but are unsafe or surprising.
// Load has already rejected anything invalid.
func (c *Config) Warnings() []string {
	var warnings []string

	if c.DBPassword == exampleDBPassword || c.DBPassword == DefaultDBPassword {
		warnings = append(warnings, "DB_PASSWORD is the example or default value - please use a secure password")
	}
	if c.APIKey == exampleAPIKey {
		warnings = append(warnings, "API_KEY is the example value - generate a secure key with: openssl rand -hex 32")
	}
	if c.JWTSecret == c.APIKey {
		warnings = append(warnings, "JWT_SECRET equals API_KEY - a leaked dashboard token would expose the bot key")
	}
	if !c.RateLimitEnabled() {
		warnings = append(warnings, "REDIS_ADDR or RATE_LIMIT_PER_MINUTE is unset - API rate limiting is disabled")
	}
	if c.isProduction() && c.MigrateOnStartup {
		warnings = append(warnings, fmt.Sprintf("DB_MIGRATE_ON_STARTUP is on in %s - consider migrating with cmd/setup", c.Environment))
	}
	return warnings
}

func (c *Config) isProduction() bool {
	for _, env := range productionEnvironments {
		if strings.EqualFold(c.Environment, env) {
			return true
		}
	}
	return false
}
