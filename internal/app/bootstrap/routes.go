// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	apiauthfeature "github.com/dalemusser/chathub/internal/app/features/apiauth"
	auditlogfeature "github.com/dalemusser/chathub/internal/app/features/auditlog"
	contactsfeature "github.com/dalemusser/chathub/internal/app/features/contacts"
	errorsfeature "github.com/dalemusser/chathub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/chathub/internal/app/features/health"
	languagefeature "github.com/dalemusser/chathub/internal/app/features/language"
	loginfeature "github.com/dalemusser/chathub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/chathub/internal/app/features/logout"
	profilefeature "github.com/dalemusser/chathub/internal/app/features/profile"
	roomsfeature "github.com/dalemusser/chathub/internal/app/features/rooms"
	auditstore "github.com/dalemusser/chathub/internal/app/store/audit"
	contactstore "github.com/dalemusser/chathub/internal/app/store/contacts"
	roomstore "github.com/dalemusser/chathub/internal/app/store/rooms"
	userstore "github.com/dalemusser/chathub/internal/app/store/users"
	"github.com/dalemusser/chathub/internal/app/system/auditlog"
	"github.com/dalemusser/chathub/internal/app/system/auth"
	"github.com/dalemusser/chathub/internal/app/system/guard"
	"github.com/dalemusser/chathub/internal/app/system/i18n"
	"github.com/dalemusser/chathub/internal/app/system/membership"
	"github.com/dalemusser/chathub/internal/app/system/ratelimit"
	"github.com/dalemusser/chathub/internal/app/system/token"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
//
// Browser pages (/login, /logout, /users) ride the cookie session. The JSON
// API under /api authenticates every request with a bearer token; its room
// routes carry their guard chains in the feature packages.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// LoadSessionUser reloads the user on each request so a disabled
	// account loses its session immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	tokens, err := token.New(token.Config{Secret: appCfg.JWTSecret, TTL: appCfg.JWTTTL})
	if err != nil {
		logger.Error("token service init failed", zap.Error(err))
		return nil, err
	}

	errLog := errorsfeature.NewErrorLogger(logger)
	catalog := i18n.New(appCfg.DefaultLang)
	auditEvents := auditstore.New(deps.MongoDatabase)
	auditLog := auditlog.New(auditEvents, logger, auditlog.Uniform(appCfg.AuditLog))
	limiter := ratelimit.NewLoginLimiter(appCfg.LoginRatePerMinute)

	users := userstore.New(deps.MongoDatabase)
	rooms := roomstore.New(deps.MongoDatabase)
	contacts := contactstore.New(deps.MongoDatabase)

	env := &guard.Env{
		Members: membership.New(rooms),
		Catalog: catalog,
		ErrLog:  errLog,
		Log:     logger,
	}

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Browser pages
	loginHandler := loginfeature.NewHandler(users, sessionMgr, limiter, auditLog, catalog, errLog, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, auditLog, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, env))

	profileHandler := profilefeature.NewHandler(users, catalog, errLog, logger)
	r.Mount("/users", profilefeature.Routes(profileHandler, env, sessionMgr))

	// JSON API
	apiAuthHandler := apiauthfeature.NewHandler(users, tokens, limiter, auditLog, catalog, errLog, logger)
	r.Mount("/api", apiauthfeature.Routes(apiAuthHandler, env))

	roomsHandler := roomsfeature.NewHandler(rooms, env, auditLog, logger)
	r.Mount("/api/rooms", roomsfeature.Routes(roomsHandler, tokens))
	r.Mount("/api/invitations", roomsfeature.InvitationRoutes(roomsHandler, tokens))

	contactsHandler := contactsfeature.NewHandler(contacts, users, env, logger)
	r.Mount("/api/contacts", contactsfeature.Routes(contactsHandler, tokens))

	activityHandler := auditlogfeature.NewHandler(auditEvents, users, env, logger)
	r.Mount("/api/activity", auditlogfeature.Routes(activityHandler, tokens))

	languageHandler := languagefeature.NewHandler(catalog, secure, logger)
	r.Mount("/api/language", languagefeature.Routes(languageHandler))

	errorsHandler := errorsfeature.NewHandler()
	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	return r, nil
}
