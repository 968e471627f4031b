package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role はチャットメッセージの発言者です。
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage はチャットのトランスクリプトに積まれる 1 件のメッセージです。
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// NewChatMessage は ID を採番してメッセージを作成します。
func NewChatMessage(role Role, text string, now time.Time) ChatMessage {
	return ChatMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		CreatedAt: now,
	}
}
