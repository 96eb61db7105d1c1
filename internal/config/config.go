package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Scoring  ScoringConfig
	Ollama   OllamaConfig
	AI       AIConfig
	OpenAI   OpenAIConfig
	Playback PlaybackConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	addr, err := normalizeAddr(cfg.Server.Port)
	if err != nil {
		return nil, err
	}
	cfg.Server.Addr = addr

	if cfg.Playback.Interval <= 0 {
		return nil, fmt.Errorf("invalid PLAYBACK_INTERVAL value %q", cfg.Playback.Interval)
	}

	cfg.Scoring.Default = strings.ToLower(strings.TrimSpace(cfg.Scoring.Default))
	if cfg.Scoring.Default == "" {
		cfg.Scoring.Default = "ollama"
	}
	return cfg, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Port string `env:"PORT" envDefault:"8080"`
	Addr string
}

// normalizeAddr 解析服务器监听地址。
func normalizeAddr(port string) (string, error) {
	port = strings.TrimSpace(port)
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return port, nil
	}

	if strings.Contains(port, " ") {
		return "", fmt.Errorf("invalid PORT value: %q", port)
	}

	return ":" + port, nil
}

// LogConfig 描述日志输出。
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

// ScoringConfig selects the scorer used when a session does not name one.
type ScoringConfig struct {
	Default string `env:"SCORER_DEFAULT" envDefault:"ollama"`
}

// OllamaConfig 描述本地 Ollama 推理服务。
type OllamaConfig struct {
	URL         string        `env:"SCORER_OLLAMA_URL" envDefault:"http://localhost:11434/api/generate"`
	Model       string        `env:"SCORER_OLLAMA_MODEL" envDefault:"llama3.2:latest"`
	Temperature float64       `env:"SCORER_OLLAMA_TEMPERATURE" envDefault:"0.1"`
	TopP        float64       `env:"SCORER_OLLAMA_TOP_P" envDefault:"0.9"`
	Timeout     time.Duration `env:"SCORER_OLLAMA_TIMEOUT" envDefault:"30s"`
}

// AIConfig 描述 Ark 大模型相关配置。
type AIConfig struct {
	APIKey      string  `env:"ARK_API_KEY"`
	AccessKey   string  `env:"ARK_ACCESS_KEY"`
	SecretKey   string  `env:"ARK_SECRET_KEY"`
	Model       string  `env:"ARK_MODEL"`
	BaseURL     string  `env:"ARK_BASE_URL" envDefault:"https://ark.cn-beijing.volces.com/api/v3"`
	Region      string  `env:"ARK_REGION" envDefault:"cn-beijing"`
	Temperature float64 `env:"ARK_TEMPERATURE" envDefault:"0.1"`
	TopP        float64 `env:"ARK_TOP_P" envDefault:"0.9"`
	MaxTokens   int     `env:"ARK_MAX_TOKENS" envDefault:"512"`
}

// Enabled 表示是否提供了必需的密钥。
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel 使用配置创建一个模型实例。
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("Ark 凭证或模型配置缺失，至少提供 ARK_API_KEY + ARK_MODEL 或 AK/SK 组合")
	}

	temperature := float32(c.Temperature)
	topP := float32(c.TopP)
	maxTokens := c.MaxTokens

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
		TopP:        &topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

// OpenAIConfig 描述 OpenAI 兼容接口。
type OpenAIConfig struct {
	APIKey  string        `env:"OPENAI_API_KEY"`
	BaseURL string        `env:"OPENAI_BASE_URL"`
	Model   string        `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	Timeout time.Duration `env:"OPENAI_TIMEOUT" envDefault:"30s"`
}

// Enabled 表示是否提供了 API Key。
func (c OpenAIConfig) Enabled() bool {
	return c.APIKey != ""
}

// PlaybackConfig 描述剧本回放节奏。
type PlaybackConfig struct {
	Interval time.Duration `env:"PLAYBACK_INTERVAL" envDefault:"3s"`
}
