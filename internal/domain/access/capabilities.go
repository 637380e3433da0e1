package access

func CapabilitiesFor(state AccessState) []string {
	switch state {
	case AccessAdmin:
		return []string{CapManageContent, CapManageMembers, CapSendNotifications, CapRegisterEvents, CapEditProfile}
	case AccessMember:
		return []string{CapRegisterEvents, CapPayDues, CapEditProfile}
	case AccessExpired:
		// dues reactivate the membership
		return []string{CapPayDues, CapEditProfile}
	case AccessPending:
		return []string{CapEditProfile}
	default:
		return []string{}
	}
}
