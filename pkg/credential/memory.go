package credential

import (
	"context"
	"sync"
)

// MemoryBroker は API 経由で選択されたキーをメモリ上に保持する Broker / Source です。
// PromptSelectCredential はブロックせず、選択待ちの状態を立てるだけです。
type MemoryBroker struct {
	mu       sync.RWMutex
	apiKey   string
	pending  bool
	fallback Source
}

// NewMemoryBroker は MemoryBroker を作成します。fallback はキー未選択時の参照先で、nil を許容します。
func NewMemoryBroker(fallback Source) *MemoryBroker {
	return &MemoryBroker{fallback: fallback}
}

// Select はキーを選択状態にします。空文字列で選択を解除します。
func (b *MemoryBroker) Select(apiKey string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.apiKey = apiKey
	if apiKey != "" {
		b.pending = false
	}
}

// PromptPending は選択を促したまま未完了かどうかを返します。
func (b *MemoryBroker) PromptPending() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.pending
}

func (b *MemoryBroker) Current(ctx context.Context) (Credential, error) {
	b.mu.RLock()
	key := b.apiKey
	b.mu.RUnlock()
	if key != "" {
		return Credential{APIKey: key}, nil
	}
	if b.fallback != nil {
		return b.fallback.Current(ctx)
	}
	return Credential{}, ErrNoCredential
}

func (b *MemoryBroker) HasSelectedCredential(ctx context.Context) bool {
	_, err := b.Current(ctx)
	return err == nil
}

func (b *MemoryBroker) PromptSelectCredential(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = true
	return nil
}
