// internal/app/features/auditlog/types.go
package auditlog

import (
	"time"

	"github.com/dalemusser/chathub/internal/app/store/audit"
)

// listItem is one audit event as returned to the client.
type listItem struct {
	ID         string            `json:"id"`
	Timestamp  time.Time         `json:"timestamp"`
	EventType  string            `json:"eventType"`
	ActorID    string            `json:"actorId,omitempty"`
	ActorName  string            `json:"actorName,omitempty"`
	TargetID   string            `json:"targetId,omitempty"`
	TargetName string            `json:"targetName,omitempty"`
	Details    map[string]string `json:"details,omitempty"`
}

type listResponse struct {
	Events     []listItem `json:"events"`
	EventType  string     `json:"eventType,omitempty"`
	Page       int        `json:"page"`
	TotalPages int        `json:"totalPages"`
	Total      int64      `json:"total"`
}

// roomEvents lists the event types a room trail can be filtered by.
var roomEvents = map[string]bool{
	audit.EventRoomCreated:      true,
	audit.EventRoomDeleted:      true,
	audit.EventMemberRemoved:    true,
	audit.EventMemberRoleChange: true,
	audit.EventMemberLeft:       true,
	audit.EventJoinRequested:    true,
	audit.EventJoinApproved:     true,
	audit.EventJoinRejected:     true,
	audit.EventMessageDeleted:   true,
	audit.EventMessageModerated: true,
}
