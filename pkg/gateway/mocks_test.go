package gateway

import (
	"context"
	"sync"
	"time"

	"github.com/shouni/etsy-booster-kit/pkg/credential"
	"google.golang.org/genai"
)

// --- Mocks ---

// generateCall は mockGenerator が受け取った 1 回分の呼び出しです。
type generateCall struct {
	apiKey   string
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

// mockGenerator は ContentGenerator と ClientFactory の両方を兼ねるモックです。
type mockGenerator struct {
	mu           sync.Mutex
	calls        []generateCall
	currentKey   string
	generateFunc func(model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	factoryErr   error
}

func (m *mockGenerator) factory() ClientFactory {
	return func(ctx context.Context, cred credential.Credential) (ContentGenerator, error) {
		if m.factoryErr != nil {
			return nil, m.factoryErr
		}
		return &boundGenerator{parent: m, apiKey: cred.APIKey}, nil
	}
}

func (m *mockGenerator) lastCall() generateCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[len(m.calls)-1]
}

func (m *mockGenerator) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// boundGenerator は特定の API キーで作られたクライアントを表します。
type boundGenerator struct {
	parent *mockGenerator
	apiKey string
}

func (b *boundGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	b.parent.mu.Lock()
	b.parent.calls = append(b.parent.calls, generateCall{apiKey: b.apiKey, model: model, contents: contents, config: cfg})
	fn := b.parent.generateFunc
	b.parent.mu.Unlock()
	if fn != nil {
		return fn(model, contents, cfg)
	}
	return &genai.GenerateContentResponse{}, nil
}

type observedCall struct {
	operation string
	outcome   string
}

type mockRecorder struct {
	calls []observedCall
}

func (m *mockRecorder) ObserveCall(operation, outcome string, elapsed time.Duration) {
	m.calls = append(m.calls, observedCall{operation: operation, outcome: outcome})
}

// --- Response helpers ---

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func imageResponse(mimeType string, data []byte) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "here is your mockup"},
				{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}},
			}},
			FinishReason: genai.FinishReasonStop,
		}},
	}
}
