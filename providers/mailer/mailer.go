// Package mailer is the SMTP implementation of the verification engine's
// mail transport.
package mailer

import (
	"context"
	"strconv"
	"time"

	"github.com/kaobian-ai/kaobian-server/config"
	"github.com/kaobian-ai/kaobian-server/utils"
	mail "github.com/xhit/go-simple-mail/v2"
)

const codeSubject = "考编AI - 邮箱验证码"

const codeTemplate = `<div style="max-width:480px;margin:0 auto;font-family:sans-serif">
  <h2>考编AI 邮箱验证</h2>
  <p>您的验证码是：</p>
  <p style="font-size:28px;letter-spacing:6px;font-weight:bold">{{code}}</p>
  <p>请在 {{minutes}} 分钟内使用。如非本人操作，请忽略此邮件。</p>
</div>`

type SmtpMailer struct {
	client *mail.SMTPClient
	from   string
}

func NewSmtpMailer(config *config.Config, client *mail.SMTPClient) *SmtpMailer {
	return &SmtpMailer{
		client: client,
		from:   config.EmailConfig.From,
	}
}

func (m *SmtpMailer) SendCode(ctx context.Context, to, code string, validity time.Duration) error {
	body := utils.Format(codeTemplate, map[string]string{
		"{{code}}":    code,
		"{{minutes}}": strconv.Itoa(int(validity.Minutes())),
	})

	email := mail.NewMSG()
	email.SetFrom(m.from).AddTo(to).SetSubject(codeSubject).SetBody(mail.TextHTML, body)

	if email.Error != nil {
		return email.Error
	}

	return email.Send(m.client)
}
