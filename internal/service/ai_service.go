package service

import (
	"bitlab_backend/internal/config"
	"bitlab_backend/internal/repository"
	"bitlab_backend/internal/util"
	"bitlab_backend/pkg/logger"
	"bitlab_backend/pkg/monitoring"
	"bitlab_backend/pkg/tracing"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const (
	ProviderAssistant = "assistant"
	ProviderExplain   = "explain"

	ExplanationCacheTTL = 24 * time.Hour

	fallbackAssistantReply = "Не удалось получить ответ от ИИ."
	fallbackExplanation    = "Не удалось получить объяснение от ИИ."
	thinkEndTag            = "</think>"
)

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model       string          `json:"model"`
	Messages    []AIChatMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float64         `json:"temperature"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
}

// upstreamMessage 从错误响应里取出可展示的消息。
// 顶层 message 和 error.message 都可能出现，error 也可能只是一个字符串；
// assistant 优先取顶层 message，explain 优先取 error.message，都没有时用 fallback
func upstreamMessage(provider string, body []byte, fallback string) string {
	var fields map[string]json.RawMessage
	if json.Unmarshal(body, &fields) != nil {
		return fallback
	}

	var top string
	_ = json.Unmarshal(fields["message"], &top)
	var nested struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(fields["error"], &nested)

	candidates := []string{top, nested.Message}
	if provider == ProviderExplain {
		candidates = []string{nested.Message, top}
	}
	for _, msg := range candidates {
		if msg != "" {
			return msg
		}
	}
	return fallback
}

type AIService struct {
	mu     sync.RWMutex
	config config.AIConfig
	Cache  *repository.AICacheRepository
}

func NewAIService(cfg config.AIConfig, cache *repository.AICacheRepository) *AIService {
	return &AIService{config: cfg, Cache: cache}
}

// UpdateConfig 配置热更新时替换服务商设置
func (s *AIService) UpdateConfig(cfg config.AIConfig) {
	s.mu.Lock()
	s.config = cfg
	s.mu.Unlock()
}

func (s *AIService) provider(name string) config.AIProviderConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if name == ProviderExplain {
		return s.config.Explain
	}
	return s.config.Assistant
}

// Ask AI 助手对话，去掉推理模型输出的 <think>...</think> 部分
func (s *AIService) Ask(ctx context.Context, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", util.NewValidationError("Message is required")
	}

	messages := []AIChatMessage{{Role: "user", Content: message}}
	reply, ok, err := s.complete(ctx, ProviderAssistant, messages, "Failed to get response from AI.")
	if err != nil {
		return "", err
	}
	if !ok {
		return fallbackAssistantReply, nil
	}
	return stripThinking(reply), nil
}

func stripThinking(reply string) string {
	if idx := strings.Index(reply, thinkEndTag); idx != -1 {
		return strings.TrimSpace(reply[idx+len(thinkEndTag):])
	}
	return reply
}

// ExplainTask 讲解题目；同一题目同一描述命中 Redis 缓存时不再请求大模型
func (s *AIService) ExplainTask(ctx context.Context, taskID uint, description string) (string, error) {
	if taskID == 0 || strings.TrimSpace(description) == "" {
		return "", util.NewValidationError("Task ID and description are required")
	}

	if s.Cache != nil {
		cached, found, err := s.Cache.GetExplanation(ctx, taskID, description)
		if err != nil {
			logger.Log.Warn("explanation cache read failed", zap.Uint("taskId", taskID), zap.Error(err))
		} else if found {
			return cached, nil
		}
	}

	messages := []AIChatMessage{
		{Role: "system", Content: "You are a helpful assistant that explains programming tasks."},
		{Role: "user", Content: fmt.Sprintf("Помоги объяснить задачу. Вот описание задачи: %s. Объясни подробно.", description)},
	}
	explanation, ok, err := s.complete(ctx, ProviderExplain, messages, "Failed to get explanation from AI.")
	if err != nil {
		return "", err
	}
	if !ok {
		return fallbackExplanation, nil
	}

	if s.Cache != nil {
		if err := s.Cache.SetExplanation(ctx, taskID, description, explanation, ExplanationCacheTTL); err != nil {
			logger.Log.Warn("explanation cache write failed", zap.Uint("taskId", taskID), zap.Error(err))
		}
	}
	return explanation, nil
}

// complete 调用 chat/completions；ok=false 表示服务商没有返回内容
func (s *AIService) complete(ctx context.Context, name string, messages []AIChatMessage, defaultErr string) (string, bool, error) {
	p := s.provider(name)
	if p.APIKey == "" {
		logger.Log.Error("AI provider key is not set", zap.String("provider", name))
		return "", false, util.ErrAIKeyNotSet
	}

	ctx, span := tracing.Tracer().Start(ctx, "AIService.complete")
	defer span.End()
	span.SetAttributes(
		attribute.String("ai.provider", name),
		attribute.String("ai.model", p.Model),
	)

	started := time.Now()
	content, ok, err := s.doRequest(ctx, name, p, messages, defaultErr)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		monitoring.ObserveAIRequest(name, "error", started)
		return "", false, err
	}
	monitoring.ObserveAIRequest(name, "ok", started)
	return content, ok, nil
}

func (s *AIService) doRequest(ctx context.Context, name string, p config.AIProviderConfig, messages []AIChatMessage, defaultErr string) (string, bool, error) {
	reqBody := ChatCompletionRequest{
		Model:       p.Model,
		Messages:    messages,
		MaxTokens:   p.MaxTokens,
		Temperature: p.Temperature,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(p.BaseURL, "/")+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", false, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	client := &http.Client{Timeout: p.Timeout()}
	resp, err := client.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("%s request: %w", name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, fmt.Errorf("%s read body: %w", name, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := upstreamMessage(name, body, defaultErr)
		logger.Log.Error("AI provider returned error",
			zap.String("provider", name),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body),
		)
		return "", false, &util.UpstreamError{Provider: name, Status: resp.StatusCode, Message: message}
	}

	var completion ChatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", false, fmt.Errorf("%s decode response: %w", name, err)
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", false, nil
	}
	return completion.Choices[0].Message.Content, true, nil
}
