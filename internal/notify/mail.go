package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/wneessen/go-mail"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/d60-Lab/college-table/config"
	"github.com/d60-Lab/college-table/pkg/logger"
)

const (
	SubjectVerify       = "College Table - Verify your email"
	SubjectCourseSignal = "College Table - KUSA Course Signal"
)

// Mail 一封 HTML 邮件
type Mail struct {
	Address string
	Subject string
	HTML    string
}

// MailSender 发送结果只区分成功/失败，错误在内部记录
type MailSender interface {
	Send(ctx context.Context, m Mail) bool
	SendCode(ctx context.Context, address string, code int) bool
	SendCourseSignal(ctx context.Context, address string, signals []CourseSignal) bool
}

// SMTPMailer 首次发送时建立 SMTP client，之后复用
type SMTPMailer struct {
	cfg config.MailConfig

	once    sync.Once
	client  *mail.Client
	initErr error

	// go-mail client 不支持并发发送
	mu sync.Mutex
}

func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) getClient() (*mail.Client, error) {
	m.once.Do(func() {
		if m.cfg.Host == "" {
			m.initErr = errors.New("mail host not configured")
			return
		}
		m.client, m.initErr = mail.NewClient(m.cfg.Host,
			mail.WithPort(m.cfg.Port),
			mail.WithSSL(),
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	})
	return m.client, m.initErr
}

func (m *SMTPMailer) buildMsg(in Mail) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return nil, fmt.Errorf("from %q: %w", m.cfg.From, err)
	}
	if err := msg.To(in.Address); err != nil {
		return nil, fmt.Errorf("to %q: %w", in.Address, err)
	}
	msg.Subject(in.Subject)
	msg.SetBodyString(mail.TypeTextHTML, in.HTML)
	return msg, nil
}

func (m *SMTPMailer) Send(ctx context.Context, in Mail) bool {
	ctx, span := otel.Tracer("notify").Start(ctx, "mail.send")
	defer span.End()

	err := m.send(ctx, in)
	if err != nil {
		span.RecordError(err)
		logger.Error("fail to send mail",
			zap.String("to", in.Address),
			zap.String("subject", in.Subject),
			zap.Error(err),
		)
		return false
	}
	logger.Info("email sent", zap.String("to", in.Address), zap.String("subject", in.Subject))
	return true
}

func (m *SMTPMailer) send(ctx context.Context, in Mail) error {
	msg, err := m.buildMsg(in)
	if err != nil {
		return err
	}
	client, err := m.getClient()
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return client.DialAndSendWithContext(ctx, msg)
}

func (m *SMTPMailer) SendCode(ctx context.Context, address string, code int) bool {
	html, err := CodeMailHTML(code)
	if err != nil {
		logger.Error("render code mail", zap.Error(err))
		return false
	}
	return m.Send(ctx, Mail{Address: address, Subject: SubjectVerify, HTML: html})
}

func (m *SMTPMailer) SendCourseSignal(ctx context.Context, address string, signals []CourseSignal) bool {
	html, err := CourseSignalHTML(signals)
	if err != nil {
		logger.Error("render course signal mail", zap.Error(err))
		return false
	}
	return m.Send(ctx, Mail{Address: address, Subject: SubjectCourseSignal, HTML: html})
}
