package controller

import (
	"context"
	"errors"
	"sync"

	"github.com/shouni/etsy-booster-kit/pkg/domain"
)

// mockGateway は各コントローラーの Gateway インターフェースをまとめて満たすモックです。
type mockGateway struct {
	listingFunc    func(ctx context.Context, image domain.ImageRef, userContext string) (*domain.ListingData, error)
	lifestyleFunc  func(ctx context.Context, design domain.ImageRef, scene string) (domain.ImageRef, error)
	standaloneFunc func(ctx context.Context, prompt string, ar domain.AspectRatio, res domain.Resolution) (domain.ImageRef, error)
	editFunc       func(ctx context.Context, source domain.ImageRef, instruction string) (domain.ImageRef, error)
	trendsFunc     func(ctx context.Context) (string, error)
	chatFunc       func(ctx context.Context, message string) (string, error)

	mu    sync.Mutex
	calls []string
}

func (m *mockGateway) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockGateway) callCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (m *mockGateway) GenerateListing(ctx context.Context, image domain.ImageRef, userContext string) (*domain.ListingData, error) {
	m.record("listing")
	if m.listingFunc != nil {
		return m.listingFunc(ctx, image, userContext)
	}
	return &domain.ListingData{Title: "t"}, nil
}

func (m *mockGateway) GenerateLifestyleMockup(ctx context.Context, design domain.ImageRef, scene string) (domain.ImageRef, error) {
	m.record("lifestyle")
	if m.lifestyleFunc != nil {
		return m.lifestyleFunc(ctx, design, scene)
	}
	return "", nil
}

func (m *mockGateway) GenerateStandaloneMockup(ctx context.Context, prompt string, ar domain.AspectRatio, res domain.Resolution) (domain.ImageRef, error) {
	m.record("standalone")
	if m.standaloneFunc != nil {
		return m.standaloneFunc(ctx, prompt, ar, res)
	}
	return "", nil
}

func (m *mockGateway) EditImage(ctx context.Context, source domain.ImageRef, instruction string) (domain.ImageRef, error) {
	m.record("edit")
	if m.editFunc != nil {
		return m.editFunc(ctx, source, instruction)
	}
	return "", nil
}

func (m *mockGateway) FetchMarketTrends(ctx context.Context) (string, error) {
	m.record("trends")
	if m.trendsFunc != nil {
		return m.trendsFunc(ctx)
	}
	return "", nil
}

func (m *mockGateway) SendChatMessage(ctx context.Context, message string) (string, error) {
	m.record("chat")
	if m.chatFunc != nil {
		return m.chatFunc(ctx, message)
	}
	return "", nil
}

// mockBroker は選択状態とプロンプト回数を記録する Broker のモックです。
type mockBroker struct {
	mu          sync.Mutex
	selected    bool
	promptErr   error
	hasCalls    int
	promptCalls int
}

func (m *mockBroker) HasSelectedCredential(context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hasCalls++
	return m.selected
}

func (m *mockBroker) PromptSelectCredential(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.promptCalls++
	return m.promptErr
}

func (m *mockBroker) prompts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.promptCalls
}

var (
	errPermission = errors.New("403 PERMISSION_DENIED: Permission denied on resource project")
	errUpstream   = errors.New("upstream exploded")
)

const (
	designRef = domain.ImageRef("data:image/png;base64,ZGVzaWdu")
	mockupRef = domain.ImageRef("data:image/png;base64,bW9ja3Vw")
	editedRef = domain.ImageRef("data:image/png;base64,ZWRpdGVk")
)
