package presentation

const (
	IDParam     = "id"
	NameQuery   = "name"
	TitleQuery  = "title"
	AvatarField = "avatar"
	CoverField  = "cover"

	ReasonTag             = "X-Reason"
	NotificationStatusTag = "X-Notification-Status"
)
