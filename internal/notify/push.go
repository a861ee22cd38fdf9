package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/d60-Lab/college-table/config"
	"github.com/d60-Lab/college-table/pkg/logger"
)

const defaultSound = "default"

// Content 推送内容；Title 为空时使用默认标题
type Content struct {
	Body     string         `json:"body"`
	Badge    *int           `json:"badge,omitempty"`
	Title    string         `json:"title,omitempty"`
	Subtitle string         `json:"subtitle,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// PushItem 批量推送的一项
type PushItem struct {
	PushToken string
	Content   Content
}

type message struct {
	To       string         `json:"to"`
	Sound    string         `json:"sound"`
	Title    string         `json:"title"`
	Body     string         `json:"body"`
	Badge    *int           `json:"badge,omitempty"`
	Subtitle string         `json:"subtitle,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// PushSender 推送通道
type PushSender interface {
	SendOne(ctx context.Context, pushToken string, content Content) error
	SendMany(ctx context.Context, items []PushItem) error
	SendMessagePush(ctx context.Context, pushToken, msg string) error
}

// ExpoPusher 通过 Expo push API 发送；不检查响应状态、不重试
type ExpoPusher struct {
	endpoint string
	title    string
	client   *http.Client
}

func NewExpoPusher(cfg config.PushConfig) *ExpoPusher {
	return &ExpoPusher{
		endpoint: cfg.Endpoint,
		title:    cfg.Title,
		client:   &http.Client{Timeout: cfg.Timeout},
	}
}

func (p *ExpoPusher) build(pushToken string, c Content) message {
	title := p.title
	if c.Title != "" {
		title = c.Title
	}
	return message{
		To:       pushToken,
		Sound:    defaultSound,
		Title:    title,
		Body:     c.Body,
		Badge:    c.Badge,
		Subtitle: c.Subtitle,
		Data:     c.Data,
	}
}

func (p *ExpoPusher) SendOne(ctx context.Context, pushToken string, content Content) error {
	if pushToken == "" {
		logger.Error("push skipped: empty token")
		return nil
	}
	msg := p.build(pushToken, content)
	logger.Info("push sending", zap.String("to", msg.To), zap.String("body", msg.Body))
	return p.post(ctx, msg, 1)
}

func (p *ExpoPusher) SendMany(ctx context.Context, items []PushItem) error {
	if len(items) == 0 {
		return nil
	}
	msgs := make([]message, len(items))
	for i, it := range items {
		msgs[i] = p.build(it.PushToken, it.Content)
	}
	logger.Info("push batch sending", zap.Int("count", len(msgs)), zap.Any("first", msgs[0]))
	return p.post(ctx, msgs, len(msgs))
}

// SendMessagePush 新私信提醒，客户端据 route 跳转聊天列表
func (p *ExpoPusher) SendMessagePush(ctx context.Context, pushToken, msg string) error {
	return p.SendOne(ctx, pushToken, Content{
		Subtitle: "Someone sent you a message",
		Body:     msg,
		Data:     map[string]any{"route": "Chatrooms"},
	})
}

func (p *ExpoPusher) post(ctx context.Context, payload any, count int) error {
	ctx, span := otel.Tracer("notify").Start(ctx, "push.send")
	defer span.End()
	span.SetAttributes(attribute.Int("push.count", count))

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal push: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, deflate")
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("send push: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
