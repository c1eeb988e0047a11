// AngelaMos | 2026
// config_test.go

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Database: DatabaseConfig{URL: "postgres://localhost/tecai"},
		Redis:    RedisConfig{URL: "redis://localhost:6379/0"},
		JWT: JWTConfig{
			PrivateKeyPath: "keys/private.pem",
			PublicKeyPath:  "keys/public.pem",
		},
		CORS:    CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Payment: PaymentConfig{PublicBaseURL: "http://localhost:3000"},
		Server: ServerConfig{
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
		Subscription: SubscriptionConfig{SweepInterval: time.Hour},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing database url",
			mutate:  func(c *Config) { c.Database.URL = "" },
			wantErr: "DATABASE_URL",
		},
		{
			name:    "missing redis url",
			mutate:  func(c *Config) { c.Redis.URL = "" },
			wantErr: "REDIS_URL",
		},
		{
			name: "wildcard origin with credentials",
			mutate: func(c *Config) {
				c.CORS.AllowCredentials = true
				c.CORS.AllowedOrigins = []string{"*"}
			},
			wantErr: "CORS wildcard",
		},
		{
			name:    "stripe key without webhook secret",
			mutate:  func(c *Config) { c.Stripe.SecretKey = "sk_test_123" },
			wantErr: "STRIPE_WEBHOOK_SECRET",
		},
		{
			name: "sandbox midtrans in production",
			mutate: func(c *Config) {
				c.App.Environment = "production"
				c.Midtrans.ServerKey = "SB-Mid-server-xyz"
			},
			wantErr: "MIDTRANS_PRODUCTION",
		},
		{
			name:    "zero sweep interval",
			mutate:  func(c *Config) { c.Subscription.SweepInterval = 0 },
			wantErr: "sweep_interval",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := validate(c)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadAppliesDefaultsAndEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/tecai")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("PAYMENT_CURRENCY", "LKR")
	t.Setenv("TUTOR_QUESTIONS_PER_HOUR", "12")

	c, err := load("")
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/tecai", c.Database.URL)
	assert.Equal(t, 12, c.Tutor.QuestionsPerHour)
	assert.Equal(t, 10, c.Tutor.HistorySize)
	assert.Equal(t, time.Hour, c.Subscription.SweepInterval)
	assert.Equal(t, "Bank of Ceylon", c.Bank.BankName)
	assert.Equal(t, "0.0.0.0:8080", c.Server.Address())
}
