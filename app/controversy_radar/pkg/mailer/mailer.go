// Package mailer 投递周报邮件
package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"

	"github.com/iWorld-y/controversy_radar/app/controversy_radar/pkg/config"
)

// ErrNotConfigured 缺少发件人、API Key 或收件人
var ErrNotConfigured = errors.New("mailer not configured")

// Mailer 发送 HTML 邮件
type Mailer interface {
	Send(ctx context.Context, subject, html string) error
}

// Noop 未开启邮件时使用，什么也不做
type Noop struct{}

// Send 直接返回 nil
func (Noop) Send(context.Context, string, string) error { return nil }

// SendGrid 通过 SendGrid v3 API 发送
type SendGrid struct {
	apiKey     string
	from       string
	recipients []string
	host       string
	log        logrus.FieldLogger
}

var _ Mailer = (*SendGrid)(nil)

// NewSendGrid 创建 SendGrid 发送器，host 为空时使用官方地址
func NewSendGrid(apiKey, from string, recipients []string, host string, log logrus.FieldLogger) *SendGrid {
	return &SendGrid{apiKey: apiKey, from: from, recipients: recipients, host: host, log: log}
}

// New 按配置返回 SendGrid 或 Noop
func New(cfg config.EmailConfig, log logrus.FieldLogger) Mailer {
	if !cfg.Enabled {
		return Noop{}
	}
	return NewSendGrid(cfg.APIKey, cfg.From, cfg.Recipients, "", log)
}

// Send 校验配置后发送，非 2xx 状态视为失败
func (s *SendGrid) Send(ctx context.Context, subject, html string) error {
	switch {
	case s.from == "":
		return fmt.Errorf("%w: from address is not set", ErrNotConfigured)
	case s.apiKey == "":
		return fmt.Errorf("%w: sendgrid api key is not set", ErrNotConfigured)
	case len(s.recipients) == 0:
		return fmt.Errorf("%w: no recipients", ErrNotConfigured)
	}

	m := mail.NewV3Mail()
	m.SetFrom(mail.NewEmail("", s.from))
	m.Subject = subject
	p := mail.NewPersonalization()
	for _, r := range s.recipients {
		p.AddTos(mail.NewEmail("", r))
	}
	m.AddPersonalizations(p)
	m.AddContent(mail.NewContent("text/html", html))

	req := sendgrid.GetRequest(s.apiKey, "/v3/mail/send", s.host)
	req.Method = "POST"
	req.Body = mail.GetRequestBody(m)

	resp, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("send email: sendgrid status %d: %s", resp.StatusCode, resp.Body)
	}
	s.log.Infof("邮件已发送给 %d 位收件人，状态码 %d", len(s.recipients), resp.StatusCode)
	return nil
}
