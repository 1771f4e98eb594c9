package service

import (
	"fmt"
	"log"
	"net/smtp"

	"github.com/user/revu/internal/config"
)

// Mailer 邮件发送接口
// 发送失败必须向上传播：确认码没送达时整个注册请求按失败处理
type Mailer interface {
	Send(to, subject, body string) error
}

// NewMailer 按配置选择实现：配了 SMTP 用 SMTP，否则日志输出（开发环境）
func NewMailer(cfg *config.Config) Mailer {
	if cfg.SMTPHost != "" {
		return &SMTPMailer{
			addr: cfg.SMTPHost + ":" + cfg.SMTPPort,
			host: cfg.SMTPHost,
			from: cfg.AdminEmail,
			user: cfg.SMTPUser,
			pass: cfg.SMTPPass,
		}
	}
	return &LogMailer{}
}

// SMTPMailer 通过 SMTP 发送
type SMTPMailer struct {
	addr string
	host string
	from string
	user string
	pass string
}

// Send 发送邮件
func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.from, to, subject, body)

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.pass, m.host)
	}

	if err := smtp.SendMail(m.addr, auth, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("邮件发送失败: %w", err)
	}
	return nil
}

// LogMailer 开发环境实现，把邮件打到日志里
type LogMailer struct{}

// Send 记录邮件内容
func (m *LogMailer) Send(to, subject, body string) error {
	log.Printf("[Mailer] to=%s subject=%q body=%q", to, subject, body)
	return nil
}
