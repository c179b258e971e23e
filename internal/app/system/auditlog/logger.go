// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/chathub/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for login, token and logout events.
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Auth string
	// Room controls logging for room administration and membership events.
	// Same values as Auth.
	Room string
}

// Uniform returns a Config applying setting to every category.
func Uniform(setting string) Config {
	return Config{Auth: setting, Room: setting}
}

// Logger provides convenience methods for logging audit events.
// It logs to both MongoDB (via audit.Store) and structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// clientIP extracts the client IP from the request.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.RoomID != nil {
		fields = append(fields, zap.String("room_id", event.RoomID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// A nil Logger is a no-op so handlers under test may omit it.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryRoom:
		setting = l.config.Room
	default:
		setting = "all"
	}

	if setting == "off" {
		return
	}
	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}
	if (setting == "all" || setting == "db") && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func authEvent(r *http.Request, eventType string, userID *primitive.ObjectID, success bool, reason string, details map[string]string) audit.Event {
	return audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     eventType,
		UserID:        userID,
		IP:            clientIP(r),
		UserAgent:     r.UserAgent(),
		Success:       success,
		FailureReason: reason,
		Details:       details,
	}
}

// --- Authentication Events ---

// LoginSuccess logs a successful login. via is "token" or "session".
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, email, via string) {
	l.Log(ctx, authEvent(r, audit.EventLoginSuccess, &userID, true, "",
		map[string]string{"email": email, "via": via}))
}

// LoginFailedUserNotFound logs a failed login due to an unknown email.
func (l *Logger) LoginFailedUserNotFound(ctx context.Context, r *http.Request, attemptedEmail string) {
	l.Log(ctx, authEvent(r, audit.EventLoginFailedUserNotFound, nil, false, "user not found",
		map[string]string{"attempted_email": attemptedEmail}))
}

// LoginFailedWrongPassword logs a failed login due to a wrong password.
func (l *Logger) LoginFailedWrongPassword(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	l.Log(ctx, authEvent(r, audit.EventLoginFailedWrongPassword, &userID, false, "wrong password",
		map[string]string{"email": email}))
}

// LoginFailedUserDisabled logs a failed login due to a disabled account.
func (l *Logger) LoginFailedUserDisabled(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	l.Log(ctx, authEvent(r, audit.EventLoginFailedUserDisabled, &userID, false, "user disabled",
		map[string]string{"email": email}))
}

// LoginFailedRateLimit logs a login refused by the rate limiter.
func (l *Logger) LoginFailedRateLimit(ctx context.Context, r *http.Request, email string) {
	l.Log(ctx, authEvent(r, audit.EventLoginFailedRateLimit, nil, false, "rate limit exceeded",
		map[string]string{"email": email}))
}

// Logout logs a browser sign-out. userIDStr comes from the session.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userIDStr string) {
	var userID *primitive.ObjectID
	if oid, err := primitive.ObjectIDFromHex(userIDStr); err == nil {
		userID = &oid
	}
	l.Log(ctx, authEvent(r, audit.EventLogout, userID, true, "", nil))
}

// PasswordChanged logs a password change made through the API.
func (l *Logger) PasswordChanged(ctx context.Context, r *http.Request, userID primitive.ObjectID) {
	l.Log(ctx, authEvent(r, audit.EventPasswordChanged, &userID, true, "", nil))
}

// PasswordChangeFailed logs a password change refused for a wrong current password.
func (l *Logger) PasswordChangeFailed(ctx context.Context, r *http.Request, userID primitive.ObjectID) {
	l.Log(ctx, authEvent(r, audit.EventPasswordChangeFailed, &userID, false, "wrong password", nil))
}

// --- Room Events ---

// RoomEvent logs a room administration or membership change made by actor.
// target is the affected user, when there is one.
func (l *Logger) RoomEvent(ctx context.Context, r *http.Request, eventType string, actorID, roomID primitive.ObjectID, target *primitive.ObjectID, details map[string]string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryRoom,
		EventType: eventType,
		RoomID:    &roomID,
		ActorID:   &actorID,
		UserID:    target,
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   details,
	})
}
