// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig covers ports, TLS, logging and request limits.
// Everything specific to chathub lives here and is passed to every
// lifecycle hook.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// API token configuration
	JWTSecret string        // HMAC signing secret; required
	JWTTTL    time.Duration // lifetime of issued tokens

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: chathub-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Browser session lifetime

	DefaultLang        string
	StoreTimeout       time.Duration
	LoginRatePerMinute int

	// AuditLog is "all" (db+log), "db", "log", or "off".
	AuditLog string
}
