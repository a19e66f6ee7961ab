package enums

// ChatRole mirrors the member status strings Telegram reports for
// getChatMember.
type ChatRole string

const (
	ChatRoleCreator       ChatRole = "creator"
	ChatRoleAdministrator ChatRole = "administrator"
	ChatRoleMember        ChatRole = "member"
	ChatRoleRestricted    ChatRole = "restricted"
	ChatRoleLeft          ChatRole = "left"
	ChatRoleKicked        ChatRole = "kicked"
)

func (r ChatRole) CanModerate() bool {
	return r == ChatRoleCreator || r == ChatRoleAdministrator
}
