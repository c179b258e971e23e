package membership

import "github.com/dalemusser/chathub/internal/domain/models"

// RoleSet is a closed set of member roles. The zero value contains nothing.
type RoleSet struct {
	admin    bool
	member   bool
	readOnly bool
}

// Roles builds a set from explicit roles. Unknown roles are ignored.
func Roles(roles ...models.MemberRole) RoleSet {
	var s RoleSet
	for _, r := range roles {
		switch r {
		case models.RoleAdmin:
			s.admin = true
		case models.RoleMember:
			s.member = true
		case models.RoleReadOnly:
			s.readOnly = true
		}
	}
	return s
}

// Writers is every role allowed to post messages.
func Writers() RoleSet { return Roles(models.RoleAdmin, models.RoleMember) }

// Contains reports whether r is in the set. An unrecognized role is never
// contained, so a corrupt stored value fails closed.
func (s RoleSet) Contains(r models.MemberRole) bool {
	switch r {
	case models.RoleAdmin:
		return s.admin
	case models.RoleMember:
		return s.member
	case models.RoleReadOnly:
		return s.readOnly
	}
	return false
}

// Empty reports whether the set contains no roles.
func (s RoleSet) Empty() bool {
	return !s.admin && !s.member && !s.readOnly
}
