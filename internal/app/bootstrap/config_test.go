package bootstrap

import (
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

func validConfig() AppConfig {
	return AppConfig{
		MongoURI:           "mongodb://localhost:27017",
		MongoDatabase:      "chathub",
		JWTSecret:          "a-long-and-private-signing-secret",
		JWTTTL:             time.Hour,
		SessionKey:         devSessionKey,
		SessionName:        "chathub-session",
		DefaultLang:        "en",
		LoginRatePerMinute: 10,
		AuditLog:           "all",
	}
}

func TestValidateConfig_AcceptsDefaults(t *testing.T) {
	if err := ValidateConfig(&config.CoreConfig{Env: "dev"}, validConfig(), zap.NewNop()); err != nil {
		t.Fatalf("ValidateConfig: %v", err)
	}
}

func TestValidateConfig_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		env    string
		mutate func(*AppConfig)
		want   string
	}{
		{"missing jwt secret", "dev", func(c *AppConfig) { c.JWTSecret = "" }, "jwt_secret is required"},
		{"published jwt secret", "dev", func(c *AppConfig) { c.JWTSecret = publicJWTSecret }, "published default"},
		{"non-positive ttl", "dev", func(c *AppConfig) { c.JWTTTL = 0 }, "jwt_ttl"},
		{"dev session key in prod", "prod", func(c *AppConfig) {}, "changed in production"},
		{"short session key in prod", "prod", func(c *AppConfig) { c.SessionKey = "short" }, "at least 32 bytes"},
		{"unsupported language", "dev", func(c *AppConfig) { c.DefaultLang = "xx" }, "default_lang"},
		{"unknown audit mode", "dev", func(c *AppConfig) { c.AuditLog = "verbose" }, "audit_log"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := ValidateConfig(&config.CoreConfig{Env: tt.env}, cfg, zap.NewNop())
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestValidateConfig_StrongSessionKeyInProd(t *testing.T) {
	cfg := validConfig()
	cfg.SessionKey = strings.Repeat("k", 32)
	if err := ValidateConfig(&config.CoreConfig{Env: "prod"}, cfg, zap.NewNop()); err != nil {
		t.Fatalf("ValidateConfig: %v", err)
	}
}
