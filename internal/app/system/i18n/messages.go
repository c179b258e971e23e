package i18n

import "golang.org/x/text/language"

// Reason keys shared by the authorization pipeline and the handlers.
const (
	KeyCommonError     = "error.common"
	KeyForbidden       = "error.403"
	KeyBadRequest      = "error.400"
	KeyNotFound        = "error.404"
	KeyErrorToken      = "auth.error_token"
	KeyLoginFailed     = "auth.login_failed"
	KeyRateLimited     = "auth.rate_limited"
	KeyNotInRoom       = "room.user_not_in_room"
	KeyNotAdmin        = "room.not_admin"
	KeyRoomNotFound    = "room.not_found"
	KeyMessageNotFound = "room.message_not_found"
	KeyInRoom          = "room.invitation.in_room"
	KeyRequested       = "room.invitation.requested"
	KeyRequestSent     = "room.invitation.sent"
	KeyRoomCreated     = "room.created"
	KeyRoomDeleted     = "room.deleted"
	KeyMemberRemoved   = "room.member_removed"
	KeyRoleChanged     = "room.role_changed"
	KeyLeftRoom        = "room.left"
	KeyRequestApproved = "room.request_approved"
	KeyRequestRejected = "room.request_rejected"
	KeyRequestMissing  = "room.request_not_found"
	KeyMessageDeleted  = "room.message_deleted"
	KeyReadOnly        = "room.read_only"
	KeyChangedLang     = "changed_lang"
	KeyPasswordChanged = "account.password_changed"
	KeyWrongPassword   = "account.wrong_password"
	KeyWeakPassword    = "account.weak_password"
	KeyProfileUpdated  = "account.profile_updated"
	KeyContactSent     = "contact.request_sent"
	KeyContactAccepted = "contact.accepted"
	KeyContactRejected = "contact.rejected"
	KeyContactRemoved  = "contact.removed"
	KeyContactExists   = "contact.exists"
	KeyContactPending  = "contact.pending"
	KeyContactMissing  = "contact.not_found"
)

var builtin = map[language.Tag]map[string]string{
	language.English: {
		KeyCommonError:     "Something went wrong. Please try again later.",
		KeyForbidden:       "You do not have permission to do that.",
		KeyBadRequest:      "The request is invalid.",
		KeyNotFound:        "Not found.",
		KeyErrorToken:      "Error token",
		KeyLoginFailed:     "Email or password is incorrect.",
		KeyRateLimited:     "Too many login attempts. Please wait a minute before trying again.",
		KeyNotInRoom:       "You are not a member of this room.",
		KeyNotAdmin:        "You are not an admin of this room.",
		KeyRoomNotFound:    "Room not found.",
		KeyMessageNotFound: "Message not found.",
		KeyInRoom:          "You are already a member of this room.",
		KeyRequested:       "You have already asked to join this room.",
		KeyRequestSent:     "Your request to join has been sent.",
		KeyRoomCreated:     "Room created.",
		KeyRoomDeleted:     "Room deleted.",
		KeyMemberRemoved:   "Member removed.",
		KeyRoleChanged:     "Role updated.",
		KeyLeftRoom:        "You left the room.",
		KeyRequestApproved: "Request approved.",
		KeyRequestRejected: "Request rejected.",
		KeyRequestMissing:  "There is no pending request for that user.",
		KeyMessageDeleted:  "Message deleted.",
		KeyReadOnly:        "You can only read messages in this room.",
		KeyChangedLang:     "Language changed to %s.",
		KeyPasswordChanged: "Password changed.",
		KeyWrongPassword:   "Current password is incorrect.",
		KeyWeakPassword:    "New password must be at least 8 characters.",
		KeyProfileUpdated:  "Profile updated.",
		KeyContactSent:     "Contact request sent.",
		KeyContactAccepted: "Contact request accepted.",
		KeyContactRejected: "Contact request rejected.",
		KeyContactRemoved:  "Contact removed.",
		KeyContactExists:   "You are already contacts.",
		KeyContactPending:  "A contact request is already pending.",
		KeyContactMissing:  "There is no such contact or request.",
	},
	language.Vietnamese: {
		KeyCommonError:     "Đã có lỗi xảy ra. Vui lòng thử lại sau.",
		KeyForbidden:       "Bạn không có quyền thực hiện thao tác này.",
		KeyBadRequest:      "Yêu cầu không hợp lệ.",
		KeyNotFound:        "Không tìm thấy.",
		KeyLoginFailed:     "Email hoặc mật khẩu không đúng.",
		KeyRateLimited:     "Bạn đã đăng nhập sai quá nhiều lần. Vui lòng đợi một phút.",
		KeyNotInRoom:       "Bạn không phải là thành viên của phòng này.",
		KeyNotAdmin:        "Bạn không phải là quản trị viên của phòng này.",
		KeyRoomNotFound:    "Không tìm thấy phòng.",
		KeyMessageNotFound: "Không tìm thấy tin nhắn.",
		KeyInRoom:          "Bạn đã là thành viên của phòng này.",
		KeyRequested:       "Bạn đã gửi yêu cầu tham gia phòng này trước đó.",
		KeyRequestSent:     "Đã gửi yêu cầu tham gia.",
		KeyRoomCreated:     "Đã tạo phòng.",
		KeyRoomDeleted:     "Đã xóa phòng.",
		KeyMemberRemoved:   "Đã xóa thành viên.",
		KeyRoleChanged:     "Đã cập nhật vai trò.",
		KeyLeftRoom:        "Bạn đã rời phòng.",
		KeyRequestApproved: "Đã chấp nhận yêu cầu.",
		KeyRequestRejected: "Đã từ chối yêu cầu.",
		KeyRequestMissing:  "Người dùng này không có yêu cầu nào đang chờ.",
		KeyMessageDeleted:  "Đã xóa tin nhắn.",
		KeyReadOnly:        "Bạn chỉ có quyền đọc tin nhắn trong phòng này.",
		KeyChangedLang:     "Đã đổi ngôn ngữ sang %s.",
		KeyPasswordChanged: "Đã đổi mật khẩu.",
		KeyWrongPassword:   "Mật khẩu hiện tại không đúng.",
		KeyWeakPassword:    "Mật khẩu mới phải có ít nhất 8 ký tự.",
		KeyProfileUpdated:  "Đã cập nhật hồ sơ.",
		KeyContactSent:     "Đã gửi lời mời kết bạn.",
		KeyContactAccepted: "Đã chấp nhận lời mời kết bạn.",
		KeyContactRejected: "Đã từ chối lời mời kết bạn.",
		KeyContactRemoved:  "Đã xóa liên hệ.",
		KeyContactExists:   "Hai bạn đã là liên hệ của nhau.",
		KeyContactPending:  "Lời mời kết bạn đang chờ xử lý.",
		KeyContactMissing:  "Không tìm thấy liên hệ hoặc lời mời.",
	},
}
