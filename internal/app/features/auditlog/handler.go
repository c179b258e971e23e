// internal/app/features/auditlog/handler.go
package auditlog

import (
	"github.com/dalemusser/chathub/internal/app/store/audit"
	userstore "github.com/dalemusser/chathub/internal/app/store/users"
	"github.com/dalemusser/chathub/internal/app/system/guard"
	"go.uber.org/zap"
)

// Handler serves a room's audit trail to its admins.
type Handler struct {
	Audit *audit.Store
	Users *userstore.Store
	Env   *guard.Env
	Log   *zap.Logger
}

func NewHandler(events *audit.Store, users *userstore.Store, env *guard.Env, logger *zap.Logger) *Handler {
	return &Handler{
		Audit: events,
		Users: users,
		Env:   env,
		Log:   logger,
	}
}
