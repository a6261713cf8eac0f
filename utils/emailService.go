package utils

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"lms/logger"
)

// EmailMessage is a single outgoing email
type EmailMessage struct {
	ToEmail  string
	ToName   string
	Subject  string
	TextBody string
	HTMLBody string
}

// Mailer delivers emails. Send must not block the request that triggered it.
type Mailer interface {
	Send(msg EmailMessage)
}

// NewMailer picks SendGrid when an API key is configured and the console otherwise
func NewMailer(apiKey, appName, fromEmail string, log *logger.Logger) Mailer {
	if apiKey == "" {
		return NewConsoleMailer(appName, fromEmail, log)
	}
	return NewSendgridMailer(apiKey, appName, fromEmail, log)
}

// --- SendGrid ---

var (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

type SendgridMailer struct {
	key        string
	from       *sgmail.Email
	subjPrefix string
	log        *logger.Logger
}

func NewSendgridMailer(key, appName, fromEmail string, log *logger.Logger) *SendgridMailer {
	return &SendgridMailer{
		key:        key,
		from:       sgmail.NewEmail(appName, fromEmail),
		subjPrefix: "[" + appName + "] ",
		log:        log,
	}
}

func (m *SendgridMailer) Send(msg EmailMessage) {
	go func() {
		if err := m.send(msg); err != nil {
			m.log.Error("email delivery failed", "to", msg.ToEmail, "subject", msg.Subject, "error", err)
			return
		}
		m.log.Debug("email sent", "to", msg.ToEmail, "subject", msg.Subject)
	}()
}

func (m *SendgridMailer) prepare(msg EmailMessage) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = m.subjPrefix + msg.Subject
	p.AddTos(sgmail.NewEmail(msg.ToName, msg.ToEmail))

	mail := sgmail.NewV3Mail()
	mail.SetFrom(m.from)
	mail.AddPersonalizations(p)
	mail.AddContent(
		sgmail.NewContent("text/plain", msg.TextBody),
		sgmail.NewContent("text/html", msg.HTMLBody),
	)
	return mail
}

func (m *SendgridMailer) send(msg EmailMessage) error {
	req := sendgrid.GetRequest(m.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m.prepare(msg))

	res, err := sendgrid.API(req)
	if err != nil {
		return err
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid returned %d: %s", res.StatusCode, res.Body)
	}
	return nil
}

// --- Console ---

// ConsoleMailer writes emails to the log and keeps them in memory
type ConsoleMailer struct {
	from       string
	subjPrefix string
	log        *logger.Logger

	mu   sync.Mutex
	sent []EmailMessage
}

func NewConsoleMailer(appName, fromEmail string, log *logger.Logger) *ConsoleMailer {
	return &ConsoleMailer{
		from:       fromEmail,
		subjPrefix: "[" + appName + "] ",
		log:        log,
	}
}

func (m *ConsoleMailer) Send(msg EmailMessage) {
	m.log.Info("--- Sending Email ---",
		"from", m.from,
		"to", msg.ToEmail,
		"subject", m.subjPrefix+msg.Subject,
		"body", msg.TextBody,
	)
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()
}

// Sent returns a copy of every message passed to Send
func (m *ConsoleMailer) Sent() []EmailMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]EmailMessage, len(m.sent))
	copy(out, m.sent)
	return out
}

// HTML wrapper shared by every notification
func getEmailTemplate(appName, title, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1F3A5F; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1F3A5F; line-height: 1.6; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #3D7DCA; margin: 20px 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>%s</h1></div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">&copy; %d %s. All rights reserved.</div>
		</div>
	</body>
	</html>
	`, strings.ToUpper(appName), title, bodyContent, time.Now().Year(), appName)
}

// --- Triggers ---

// 1. Enrollment confirmation
func SendEnrollmentEmail(m Mailer, appName, email, name, courseTitle string) {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You are now enrolled in <strong>%s</strong>.</p>
		<p>Modules unlock one after another as you complete their lessons.</p>
	`, name, courseTitle)

	m.Send(EmailMessage{
		ToEmail:  email,
		ToName:   name,
		Subject:  "Enrollment confirmed: " + courseTitle,
		TextBody: fmt.Sprintf("Dear %s, you are now enrolled in %s.", name, courseTitle),
		HTMLBody: getEmailTemplate(appName, "Enrollment Confirmed", body),
	})
}

// 2. Publication request submitted (to the instructor)
func SendPublicationRequestedEmail(m Mailer, appName, email, name, courseTitle string) {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your course <strong>%s</strong> has been submitted for publication.</p>
		<div class="info-box">You will be notified once it has been reviewed.</div>
	`, name, courseTitle)

	m.Send(EmailMessage{
		ToEmail:  email,
		ToName:   name,
		Subject:  "Publication requested: " + courseTitle,
		TextBody: fmt.Sprintf("Dear %s, %s has been submitted for publication.", name, courseTitle),
		HTMLBody: getEmailTemplate(appName, "Publication Requested", body),
	})
}

// 3. Live session scheduled (to the instructor)
func SendLiveSessionScheduledEmail(m Mailer, appName, email, name, title string, startsAt time.Time) {
	when := startsAt.Format("Mon, 02 Jan 2006 15:04 MST")
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>The live session <strong>%s</strong> is scheduled for %s.</p>
	`, name, title, when)

	m.Send(EmailMessage{
		ToEmail:  email,
		ToName:   name,
		Subject:  "Live session scheduled: " + title,
		TextBody: fmt.Sprintf("Dear %s, %s is scheduled for %s.", name, title, when),
		HTMLBody: getEmailTemplate(appName, "Live Session Scheduled", body),
	})
}
