package config

import "time"

// TokenConfig содержит настройки токенов доступа и хэширования паролей.
type TokenConfig struct {
	SecretKey      string `yaml:"secret_key" env:"AUTH_TOKEN_SECRET_KEY" env-default:"super-secret-key-change-me-in-production"`
	AccessTokenTTL string `yaml:"access_token_ttl" env:"AUTH_TOKEN_ACCESS_TTL" env-default:"30m"`
	BCryptCost     int    `yaml:"bcrypt_cost" env:"AUTH_TOKEN_BCRYPT_COST" env-default:"10"`
}

// GetAccessTokenTTL возвращает продолжительность времени жизни токена доступа.
func (c *TokenConfig) GetAccessTokenTTL() time.Duration {
	duration, err := time.ParseDuration(c.AccessTokenTTL)
	if err != nil {
		return 30 * time.Minute
	}
	return duration
}
