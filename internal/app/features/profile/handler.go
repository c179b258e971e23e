// internal/app/features/profile/handler.go
package profile

import (
	uierrors "github.com/dalemusser/chathub/internal/app/features/errors"
	userstore "github.com/dalemusser/chathub/internal/app/store/users"
	"github.com/dalemusser/chathub/internal/app/system/i18n"
	"go.uber.org/zap"
)

// Handler owns the browser user profile pages.
type Handler struct {
	Users   *userstore.Store
	Catalog *i18n.Catalog
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger
}

// NewHandler constructs a Handler bound to the user store and logger.
func NewHandler(users *userstore.Store, catalog *i18n.Catalog, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:   users,
		Catalog: catalog,
		ErrLog:  errLog,
		Log:     logger,
	}
}
