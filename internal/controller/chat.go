package controller

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shouni/etsy-booster-kit/pkg/domain"
)

// ChatGateway は Chat が必要とする Gateway の操作です。
type ChatGateway interface {
	SendChatMessage(ctx context.Context, message string) (string, error)
}

// ChatSnapshot は Chat の表示用スナップショットです。
// Greeting はトランスクリプトには含まれません。
type ChatSnapshot struct {
	Open     bool                 `json:"open"`
	Loading  bool                 `json:"loading"`
	Greeting string               `json:"greeting"`
	Messages []domain.ChatMessage `json:"messages"`
}

// Chat はフローティングのアシスタントチャットです。
// トランスクリプトは開いている間だけ保持され、閉じると破棄されます。
type Chat struct {
	gw  ChatGateway
	now func() time.Time

	mu       sync.Mutex
	open     bool
	loading  bool
	session  uint64
	messages []domain.ChatMessage
}

func NewChat(gw ChatGateway) (*Chat, error) {
	if gw == nil {
		return nil, fmt.Errorf("gateway は必須です")
	}
	return &Chat{gw: gw, now: time.Now}, nil
}

// Open はチャットを開きます。既に開いている場合は何もしません。
func (c *Chat) Open() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = true
}

// Close はチャットを閉じ、セッションを破棄します。
// 応答待ちのメッセージは破棄されたセッションには追加されません。
func (c *Chat) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = false
	c.loading = false
	c.messages = nil
	c.session++
}

// Send はメッセージを送信し、応答（失敗時は定型文）をトランスクリプトに追加します。
func (c *Chat) Send(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}

	c.mu.Lock()
	if !c.open {
		c.mu.Unlock()
		return ErrChatClosed
	}
	if c.loading {
		c.mu.Unlock()
		return ErrBusy
	}
	c.messages = append(c.messages, domain.NewChatMessage(domain.RoleUser, text, c.now()))
	c.loading = true
	session := c.session
	c.mu.Unlock()

	reply, err := c.gw.SendChatMessage(detach(ctx), text)
	if err != nil {
		logFailure(ctx, "チャットの応答取得に失敗しました", err)
		reply = ChatFallback
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != session {
		return nil
	}
	c.messages = append(c.messages, domain.NewChatMessage(domain.RoleAssistant, reply, c.now()))
	c.loading = false
	return nil
}

// Snapshot は現在の状態のコピーを返します。
func (c *Chat) Snapshot() ChatSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ChatSnapshot{
		Open:     c.open,
		Loading:  c.loading,
		Greeting: ChatGreeting,
		Messages: append([]domain.ChatMessage{}, c.messages...),
	}
}
