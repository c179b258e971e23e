// internal/app/features/contacts/handler.go
package contacts

import (
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/chathub/internal/app/features/errors"
	contactstore "github.com/dalemusser/chathub/internal/app/store/contacts"
	userstore "github.com/dalemusser/chathub/internal/app/store/users"
	"github.com/dalemusser/chathub/internal/app/system/guard"
	"github.com/dalemusser/chathub/internal/app/system/i18n"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler owns the contact list endpoints. Every route runs behind
// RequireAPIToken; a contact is always between the caller and the user
// named by the route.
type Handler struct {
	Contacts *contactstore.Store
	Users    *userstore.Store
	Env      *guard.Env
	Log      *zap.Logger
}

func NewHandler(contacts *contactstore.Store, users *userstore.Store, env *guard.Env, logger *zap.Logger) *Handler {
	return &Handler{
		Contacts: contacts,
		Users:    users,
		Env:      env,
		Log:      logger,
	}
}

var errNoGuardContext = errors.New("contacts: no guard context")

type okResponse struct {
	Message string `json:"message"`
}

// caller returns the guard Context and the caller's id.
func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (*guard.Context, primitive.ObjectID, bool) {
	c, ok := guard.FromRequest(r)
	if !ok {
		h.fail(w, r, "contacts.caller", errNoGuardContext)
		return nil, primitive.NilObjectID, false
	}
	uid, ok := c.UserID()
	if !ok {
		h.deny(w, r, http.StatusUnauthorized, i18n.KeyErrorToken)
		return nil, primitive.NilObjectID, false
	}
	return c, uid, true
}

// other returns the caller and the user named by the userID parameter.
func (h *Handler) other(w http.ResponseWriter, r *http.Request) (uid, other primitive.ObjectID, ok bool) {
	c, uid, ok := h.caller(w, r)
	if !ok {
		return uid, other, false
	}
	other, err := primitive.ObjectIDFromHex(c.ProfileID)
	if err != nil {
		h.deny(w, r, http.StatusBadRequest, i18n.KeyBadRequest)
		return uid, other, false
	}
	return uid, other, true
}

func (h *Handler) deny(w http.ResponseWriter, r *http.Request, status int, key string) {
	uierrors.WriteError(w, status, key, h.Env.Catalog.T(r, key))
}

func (h *Handler) ok(w http.ResponseWriter, r *http.Request, key string) {
	uierrors.WriteJSON(w, http.StatusOK, okResponse{Message: h.Env.Catalog.T(r, key)})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, where string, err error) {
	h.Env.ErrLog.Fail(w, r, where, err, i18n.KeyCommonError, h.Env.Catalog.T(r, i18n.KeyCommonError))
}
