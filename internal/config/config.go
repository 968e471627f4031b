package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/shouni/etsy-booster-kit/pkg/gateway"
)

// APIKeyEnvVars は API キーを探す環境変数名で、先頭が優先です。
var APIKeyEnvVars = []string{"ETSYBOOSTER_API_KEY", "GEMINI_API_KEY", "API_KEY"}

type Config struct {
	// Server
	Port     int    `env:"ETSYBOOSTER_PORT" envDefault:"8080"`
	LogLevel string `env:"ETSYBOOSTER_LOG_LEVEL" envDefault:"info"`

	// Models
	ListingModel string `env:"ETSYBOOSTER_LISTING_MODEL" envDefault:"gemini-3-flash-preview"`
	MockupModel  string `env:"ETSYBOOSTER_MOCKUP_MODEL" envDefault:"gemini-3-pro-image-preview"`
	EditModel    string `env:"ETSYBOOSTER_EDIT_MODEL" envDefault:"gemini-2.5-flash-image"`
	TrendsModel  string `env:"ETSYBOOSTER_TRENDS_MODEL" envDefault:"gemini-3-pro-image-preview"`
	ChatModel    string `env:"ETSYBOOSTER_CHAT_MODEL" envDefault:"gemini-3-pro-preview"`

	// Upload compression (0 = disabled)
	UploadJPEGQuality  int `env:"ETSYBOOSTER_UPLOAD_JPEG_QUALITY" envDefault:"0"`
	UploadCompressFrom int `env:"ETSYBOOSTER_UPLOAD_COMPRESS_FROM_BYTES" envDefault:"4194304"`
}

// Load は .env を読み込んだうえで環境変数から設定を組み立てます。
// 既に設定されている環境変数は .env で上書きしません。
func Load(dotenvFiles ...string) (*Config, error) {
	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{".env"}
	}
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate は値の範囲を確認します。
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("ETSYBOOSTER_PORT out of range: %d", c.Port)
	}
	if c.UploadJPEGQuality < 0 || c.UploadJPEGQuality > 100 {
		return fmt.Errorf("ETSYBOOSTER_UPLOAD_JPEG_QUALITY must be between 0 and 100: %d", c.UploadJPEGQuality)
	}
	return nil
}

// Models は Gateway に渡すモデル構成を返します。
func (c *Config) Models() gateway.Models {
	return gateway.Models{
		Listing: c.ListingModel,
		Mockup:  c.MockupModel,
		Edit:    c.EditModel,
		Trends:  c.TrendsModel,
		Chat:    c.ChatModel,
	}
}

// GatewayOptions は設定から Gateway のオプションを組み立てます。
func (c *Config) GatewayOptions() []gateway.Option {
	opts := []gateway.Option{gateway.WithModels(c.Models())}
	if c.UploadJPEGQuality > 0 {
		opts = append(opts, gateway.WithUploadCompression(c.UploadJPEGQuality, c.UploadCompressFrom))
	}
	return opts
}

// Addr は HTTP サーバーの待ち受けアドレスです。
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
