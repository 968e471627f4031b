package credential

import (
	"context"
	"errors"
)

// mockBroker は呼び出し回数を記録する Broker のモックです。
type mockBroker struct {
	selected    bool
	promptErr   error
	hasCalls    int
	promptCalls int
	// selectOnPrompt が true の場合、プロンプト後に選択済みになります。
	selectOnPrompt bool
}

func (m *mockBroker) HasSelectedCredential(ctx context.Context) bool {
	m.hasCalls++
	return m.selected
}

func (m *mockBroker) PromptSelectCredential(ctx context.Context) error {
	m.promptCalls++
	if m.selectOnPrompt {
		m.selected = true
	}
	return m.promptErr
}

var errUserCancelled = errors.New("user cancelled")
