package notifier

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"huntier/internal/model"
)

// EmailConfig 邮件配置。
type EmailConfig struct {
	Host     string   `yaml:"host" json:"host"`
	Port     int      `yaml:"port" json:"port"`
	Username string   `yaml:"username" json:"username"`
	Password string   `yaml:"password" json:"password"`
	From     string   `yaml:"from" json:"from"`
	To       []string `yaml:"to" json:"to"`
	Subject  string   `yaml:"subject" json:"subject"`
}

// Enabled 在主机、端口、发件人、收件人齐全时为 true。
func (c EmailConfig) Enabled() bool {
	return c.Host != "" && c.Port != 0 && c.From != "" && len(c.To) > 0
}

// EmailMessage 表示一封邮件。
type EmailMessage struct {
	From    string
	To      []string
	Subject string
	Body    string
}

// EmailSender 抽象发送接口，便于测试替换。
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// SMTPClient 通过 SMTP 投递新申请摘要邮件。
type SMTPClient struct {
	addr string
	auth smtp.Auth
}

// NewSMTPClient 按邮件配置创建客户端，未配置用户名或密码时不做认证。
func NewSMTPClient(cfg EmailConfig) *SMTPClient {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	var auth smtp.Auth
	if cfg.Username != "" && cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPClient{addr: addr, auth: auth}
}

func (c *SMTPClient) Send(ctx context.Context, msg EmailMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data := buildEmailData(msg)
	return smtp.SendMail(c.addr, c.auth, msg.From, msg.To, []byte(data))
}

// EmailNotifier 将新增申请汇总为一封邮件发送给招聘团队。
type EmailNotifier struct {
	cfg    EmailConfig
	sender EmailSender
}

// NewEmailNotifier 创建 EmailNotifier，sender 为 nil 时使用 SMTP。
func NewEmailNotifier(cfg EmailConfig, sender EmailSender) *EmailNotifier {
	if sender == nil {
		sender = NewSMTPClient(cfg)
	}
	if cfg.Subject == "" {
		cfg.Subject = "New Huntier applicants"
	}
	return &EmailNotifier{cfg: cfg, sender: sender}
}

// Notify 发送汇总邮件，列表为空则跳过。
func (n EmailNotifier) Notify(ctx context.Context, applicants []model.Applicant) error {
	if len(applicants) == 0 {
		return nil
	}

	msg := EmailMessage{
		From:    n.cfg.From,
		To:      n.cfg.To,
		Subject: fmt.Sprintf("%s (%d)", n.cfg.Subject, len(applicants)),
		Body:    buildBody(applicants),
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("send applicant email: %w", err)
	}
	return nil
}

func buildBody(applicants []model.Applicant) string {
	var b strings.Builder
	b.WriteString("New applicants / 新申请:\n")
	for _, a := range applicants {
		b.WriteString(fmt.Sprintf("- #%d %s <%s>", a.ID, a.Name, a.Email))
		if len(a.Skills) > 0 {
			b.WriteString(" skills: " + strings.Join(a.Skills, ", "))
		}
		if a.Experience != nil && a.Experience.Years != "" {
			b.WriteString(" experience: " + a.Experience.Years)
		}
		if a.Location != nil {
			b.WriteString(" location: " + *a.Location)
		}
		if a.RemoteOption {
			b.WriteString(" (remote ok)")
		}
		b.WriteString(fmt.Sprintf(" submitted %s\n", a.CreatedAt.UTC().Format("2006-01-02 15:04 MST")))
	}
	return b.String()
}

func buildEmailData(msg EmailMessage) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("From: %s\r\n", msg.From))
	b.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(msg.To, ",")))
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(msg.Body)
	return b.String()
}
