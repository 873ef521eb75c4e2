package email

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/civictrack/civictrack/internal/domain/notification"
	"github.com/civictrack/civictrack/internal/shared/logger"
)

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
}

// sender is satisfied by *gomail.Dialer.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EscalationMailer e-mails escalation notices addressed to the supervisor.
// Every other notification is ignored.
type EscalationMailer struct {
	config     SMTPConfig
	supervisor string
	dialer     sender
	logger     logger.Interface
}

func NewEscalationMailer(config SMTPConfig, supervisor string, logger logger.Interface) *EscalationMailer {
	return newEscalationMailer(config, supervisor, gomail.NewDialer(config.Host, config.Port, config.Username, config.Password), logger)
}

func newEscalationMailer(config SMTPConfig, supervisor string, dialer sender, logger logger.Interface) *EscalationMailer {
	return &EscalationMailer{
		config:     config,
		supervisor: supervisor,
		dialer:     dialer,
		logger:     logger,
	}
}

func (s *EscalationMailer) Notify(ctx context.Context, n notification.Notification) error {
	if n.Type != notification.TypeComplaintEscalated || n.UserID != notification.SupervisorRecipient {
		return nil
	}
	if s.supervisor == "" {
		s.logger.Debugw("supervisor address not configured, skipping escalation email",
			"complaint_id", n.Data["complaint_id"])
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	subject := fmt.Sprintf("[CivicTrack] Complaint %s escalated", n.Data["complaint_id"])
	if err := s.sendEmail(s.supervisor, subject, renderHTML(n), renderPlain(n)); err != nil {
		return err
	}

	s.logger.Infow("escalation email sent",
		"complaint_id", n.Data["complaint_id"],
		"to", s.supervisor)
	return nil
}

func (s *EscalationMailer) sendEmail(to, subject, htmlBody, plainBody string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromAddress, s.config.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

func renderPlain(n notification.Notification) string {
	var b strings.Builder
	b.WriteString(n.Message)
	b.WriteString("\n\n")
	for _, k := range sortedKeys(n.Data) {
		fmt.Fprintf(&b, "%s: %s\n", k, n.Data[k])
	}
	return b.String()
}

func renderHTML(n notification.Notification) string {
	var b strings.Builder
	b.WriteString("<html><body><h2>Complaint escalated</h2>")
	fmt.Fprintf(&b, "<p>%s</p><table>", html.EscapeString(n.Message))
	for _, k := range sortedKeys(n.Data) {
		fmt.Fprintf(&b, "<tr><th align=\"left\">%s</th><td>%s</td></tr>", html.EscapeString(k), html.EscapeString(n.Data[k]))
	}
	b.WriteString("</table></body></html>")
	return b.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
