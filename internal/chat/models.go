package chat

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Session binds a session id to the provider and model it was created with.
// Neither changes after the first insert.
type Session struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"-"`
	SessionID string    `gorm:"type:varchar(26);uniqueIndex;not null" json:"session_id"`
	Provider  string    `gorm:"type:varchar(32);not null" json:"provider"`
	Model     string    `gorm:"type:varchar(128);index;not null" json:"model"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (Session) TableName() string { return "chat_sessions" }

type Message struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID string    `gorm:"type:varchar(26);not null;index:idx_chat_msg_session_created,priority:1" json:"session_id"`
	Role      string    `gorm:"type:varchar(16);not null" json:"role"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index:idx_chat_msg_session_created,priority:2" json:"created_at"`
}

func (Message) TableName() string { return "chat_messages" }

// Memory is a user-named bookmark pointing at a session.
type Memory struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID string    `gorm:"type:varchar(26);not null;index" json:"session_id"`
	Label     string    `gorm:"type:varchar(255);not null" json:"name"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (Memory) TableName() string { return "memories" }

// Models lists every table the chat store needs migrated.
func Models() []any {
	return []any{&Session{}, &Message{}, &Memory{}}
}
