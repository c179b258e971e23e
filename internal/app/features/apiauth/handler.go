// internal/app/features/apiauth/handler.go
package apiauth

import (
	uierrors "github.com/dalemusser/chathub/internal/app/features/errors"
	userstore "github.com/dalemusser/chathub/internal/app/store/users"
	"github.com/dalemusser/chathub/internal/app/system/auditlog"
	"github.com/dalemusser/chathub/internal/app/system/i18n"
	"github.com/dalemusser/chathub/internal/app/system/ratelimit"
	"github.com/dalemusser/chathub/internal/app/system/token"
	"go.uber.org/zap"
)

// Handler serves the token endpoints of the JSON API.
type Handler struct {
	Users    *userstore.Store
	Tokens   *token.Service
	Limiter  *ratelimit.LoginLimiter
	AuditLog *auditlog.Logger
	Catalog  *i18n.Catalog
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(
	users *userstore.Store,
	tokens *token.Service,
	limiter *ratelimit.LoginLimiter,
	audit *auditlog.Logger,
	catalog *i18n.Catalog,
	errLog *uierrors.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Users:    users,
		Tokens:   tokens,
		Limiter:  limiter,
		AuditLog: audit,
		Catalog:  catalog,
		ErrLog:   errLog,
		Log:      logger,
	}
}
