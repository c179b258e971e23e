// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/chathub/internal/app/system/i18n"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// devSessionKey is the default session key. It is refused in production.
const devSessionKey = "dev-only-change-me-please-0123456789ABCDEF"

// publicJWTSecret was shipped as a default secret in older deployments and
// is refused everywhere.
const publicJWTSecret = "RESTFULAPIs"

// appConfigKeys defines the configuration keys for chathub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: CHATHUB_MONGO_URI, CHATHUB_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "chathub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	{Name: "jwt_secret", Default: "", Desc: "API token signing secret (required)"},
	{Name: "jwt_ttl", Default: "24h", Desc: "API token lifetime (e.g., 24h, 90m)"},

	{Name: "session_key", Default: devSessionKey, Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "chathub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Browser session lifetime"},

	{Name: "default_lang", Default: "en", Desc: "Fallback locale for messages"},
	{Name: "store_timeout", Default: "5s", Desc: "Deadline for each database call"},
	{Name: "login_rate_per_minute", Default: 10, Desc: "Login attempts allowed per client IP per minute"},

	{Name: "audit_log", Default: "all", Desc: "Audit event logging: 'all' (db+log), 'db', 'log', or 'off'"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// Precedence is flags > env (CHATHUB_*) > config files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "CHATHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret: appValues.String("jwt_secret"),
		JWTTTL:    appValues.Duration("jwt_ttl", 24*time.Hour),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 24*time.Hour),

		DefaultLang:        appValues.String("default_lang"),
		StoreTimeout:       appValues.Duration("store_timeout", 5*time.Second),
		LoginRatePerMinute: appValues.Int("login_rate_per_minute"),

		AuditLog: appValues.String("audit_log"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	switch appCfg.JWTSecret {
	case "":
		return errors.New("jwt_secret is required")
	case publicJWTSecret:
		return errors.New("jwt_secret must not be the published default")
	}
	if appCfg.JWTTTL <= 0 {
		return fmt.Errorf("jwt_ttl must be positive, got %s", appCfg.JWTTTL)
	}

	if coreCfg != nil && coreCfg.Env == "prod" {
		if appCfg.SessionKey == devSessionKey {
			return errors.New("session_key must be changed in production")
		}
		if len(appCfg.SessionKey) < 32 {
			return fmt.Errorf("session_key must be at least 32 bytes in production, got %d", len(appCfg.SessionKey))
		}
	}

	if _, ok := i18n.New("en").Supported(appCfg.DefaultLang); !ok {
		return fmt.Errorf("default_lang %q is not a supported language", appCfg.DefaultLang)
	}

	switch appCfg.AuditLog {
	case "all", "db", "log", "off":
	default:
		return fmt.Errorf("audit_log must be all, db, log or off, got %q", appCfg.AuditLog)
	}

	return nil
}
