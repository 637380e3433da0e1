package access

type AccessState string

const (
	AccessAdmin     AccessState = "admin"
	AccessMember    AccessState = "member"
	AccessExpired   AccessState = "expired"
	AccessPending   AccessState = "pending"
	AccessSuspended AccessState = "suspended"
	AccessGuest     AccessState = "guest"
)

const (
	CapManageContent     = "manage_content"
	CapManageMembers     = "manage_members"
	CapSendNotifications = "send_notifications"
	CapRegisterEvents    = "register_events"
	CapPayDues           = "pay_dues"
	CapEditProfile       = "edit_profile"
)
