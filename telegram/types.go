package telegram

// Webhook payload types. Each inbound delivery carries exactly one update.

type Update struct {
	UpdateID     int64              `json:"update_id"`
	Message      *Message           `json:"message,omitempty"`
	MyChatMember *ChatMemberUpdated `json:"my_chat_member,omitempty"`
}

type Message struct {
	MessageID int64    `json:"message_id"`
	Chat      *Chat    `json:"chat,omitempty"`
	From      *User    `json:"from,omitempty"`
	ReplyTo   *Message `json:"reply_to_message,omitempty"`
	Text      string   `json:"text,omitempty"`
}

type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type,omitempty"` // private|group|supergroup|channel
}

type User struct {
	ID       int64  `json:"id"`
	IsBot    bool   `json:"is_bot,omitempty"`
	Username string `json:"username,omitempty"`
}

type ChatMemberUpdated struct {
	Chat          *Chat       `json:"chat,omitempty"`
	From          *User       `json:"from,omitempty"`
	OldChatMember *ChatMember `json:"old_chat_member,omitempty"`
	NewChatMember *ChatMember `json:"new_chat_member,omitempty"`
}

type ChatMember struct {
	User   *User  `json:"user,omitempty"`
	Status string `json:"status,omitempty"` // member|administrator|left|kicked|...
}
