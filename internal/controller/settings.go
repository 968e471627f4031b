package controller

import (
	"context"
	"fmt"

	"github.com/shouni/etsy-booster-kit/pkg/credential"
)

// SettingsSnapshot は設定画面の表示内容です。
type SettingsSnapshot struct {
	CredentialSelected bool `json:"credentialSelected"`
}

// Settings は認証情報の選択状態を表示し、選択を促します。
type Settings struct {
	broker credential.Broker
}

func NewSettings(broker credential.Broker) (*Settings, error) {
	if broker == nil {
		return nil, fmt.Errorf("broker は必須です")
	}
	return &Settings{broker: broker}, nil
}

func (s *Settings) Snapshot(ctx context.Context) SettingsSnapshot {
	return SettingsSnapshot{CredentialSelected: s.broker.HasSelectedCredential(ctx)}
}

// SelectCredential は認証情報の選択を促します。
func (s *Settings) SelectCredential(ctx context.Context) error {
	if err := s.broker.PromptSelectCredential(ctx); err != nil {
		return fmt.Errorf("認証情報の選択に失敗しました: %w", err)
	}
	return nil
}
