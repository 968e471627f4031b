package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/shouni/etsy-booster-kit/pkg/credential"
	"google.golang.org/genai"
)

// ContentGenerator は上流の生成AIサービスに対する最小限の呼び出し口です。
// genai.Models がこのインターフェースを満たします。
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// ClientFactory は認証情報ごとに ContentGenerator を生成します。
// 呼び出しのたびに最新の認証情報でクライアントを作り直すために使います。
type ClientFactory func(ctx context.Context, cred credential.Credential) (ContentGenerator, error)

// Recorder は Gateway 呼び出しの結果と所要時間を受け取ります。
type Recorder interface {
	ObserveCall(operation, outcome string, elapsed time.Duration)
}

// NewGenAIFactory は Gemini API バックエンドの genai クライアントを生成する ClientFactory を返します。
func NewGenAIFactory() ClientFactory {
	return func(ctx context.Context, cred credential.Credential) (ContentGenerator, error) {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cred.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("genai クライアントの作成に失敗しました: %w", err)
		}
		return client.Models, nil
	}
}
