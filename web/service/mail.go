package service

import (
	"fmt"

	"github.com/ku-unplugged/livelog/config"
	"github.com/ku-unplugged/livelog/database/model"

	"gopkg.in/gomail.v2"
)

// sendMail is swapped out by tests; the default dials the configured
// SMTP server.
var sendMail = smtpSend

// MailService builds and sends the transactional mails: account
// activation and song entry. Failures are returned to the caller and
// never propagate further than the triggering operation.
type MailService struct{}

func smtpSend(m *gomail.Message) error {
	d := gomail.NewDialer(
		config.GetSMTPHost(),
		config.GetSMTPPort(),
		config.GetSMTPUser(),
		config.GetSMTPPassword(),
	)
	return d.DialAndSend(m)
}

// SendActivation mails the activation link with the plaintext token.
func (s *MailService) SendActivation(account *model.Account, token string) error {
	link := fmt.Sprintf("%s/activate/%d/%s", config.GetBaseURL(), account.Id, token)

	m := gomail.NewMessage()
	m.SetHeader("From", config.GetMailFrom())
	m.SetHeader("To", account.Email)
	m.SetHeader("Subject", "【livelog】アカウント有効化のご案内")
	m.SetBody("text/plain", fmt.Sprintf(
		"%s さん\n\nlivelogへようこそ。以下のリンクからアカウントを有効化してください。\n\n%s\n",
		account.FullName(), link))

	return sendMail(m)
}

// SendEntry mails a song entry notification to the circle address.
func (s *MailService) SendEntry(song *model.Song, requester *model.Account, notes string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", config.GetMailFrom())
	m.SetHeader("To", config.GetMailFrom())
	m.SetHeader("Reply-To", requester.Email)
	m.SetHeader("Subject", fmt.Sprintf("【livelog】曲申請: %s", song.Name))

	body := fmt.Sprintf("申請者: %s\n曲名: %s\nアーティスト: %s\n", requester.FullName(), song.Name, song.Artist)
	for _, p := range song.Playings {
		who := fmt.Sprintf("account %d", p.AccountId)
		if p.Account != nil {
			who = p.Account.FullName()
		}
		body += fmt.Sprintf("%s: %s\n", p.Inst, who)
	}
	if notes != "" {
		body += "\n備考:\n" + notes + "\n"
	}
	m.SetBody("text/plain", body)

	return sendMail(m)
}
