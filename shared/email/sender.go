package email

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"mime"
	"net/smtp"
	"strconv"
	"strings"

	"channel-insights/internal/models"
	"channel-insights/shared/config"
)

//go:embed report.html
var reportTemplate string

var weekdayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

var tmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"num": formatNumber,
	"pct": func(f float64) string { return strconv.FormatFloat(f, 'f', 2, 64) + "%" },
	"weekday": func(i int) string {
		if i < 0 || i >= len(weekdayNames) {
			return ""
		}
		return weekdayNames[i]
	},
}).Parse(reportTemplate))

type Sender struct {
	config *config.EmailConfig
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSender(cfg *config.EmailConfig) *Sender {
	return &Sender{
		config: cfg,
		send:   smtp.SendMail,
	}
}

func (s *Sender) SendReport(report *models.ChannelReport) error {
	if report == nil {
		return fmt.Errorf("report cannot be nil")
	}

	subject := fmt.Sprintf("Channel Report - %s (%s)", report.Channel.Title, report.Date.Format("Jan 2, 2006"))

	body, err := generateEmailBody(report)
	if err != nil {
		return fmt.Errorf("failed to generate email body: %w", err)
	}

	return s.SendHTML(subject, body)
}

// SendHTML sends an email with custom HTML content
func (s *Sender) SendHTML(subject, htmlBody string) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.SMTPServer)
	addr := fmt.Sprintf("%s:%d", s.config.SMTPServer, s.config.SMTPPort)

	if err := s.send(addr, auth, s.config.FromEmail, []string{s.config.ToEmail}, s.buildMessage(subject, htmlBody)); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", s.config.ToEmail, err)
	}
	return nil
}

func (s *Sender) buildMessage(subject, body string) []byte {
	return []byte(fmt.Sprintf("To: %s\r\nFrom: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.config.ToEmail, s.config.FromEmail, mime.QEncoding.Encode("utf-8", subject), body))
}

func generateEmailBody(report *models.ChannelReport) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, report); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// formatNumber renders integers and rounded floats with thousands separators.
func formatNumber(v any) string {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int64:
		n = x
	case float64:
		n = int64(x + 0.5)
		if x < 0 {
			n = int64(x - 0.5)
		}
	default:
		return fmt.Sprint(v)
	}

	s := strconv.FormatInt(n, 10)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String()
}
