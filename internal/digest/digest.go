// Package digest sends the weekly mail summarizing the posts of the
// past week. A scheduler fires it every Monday morning; the API also
// exposes a manual trigger.
package digest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
	"time"

	"github.com/hyunsol/techtalk/internal/models"
	"github.com/hyunsol/techtalk/internal/store"
)

// SMTPConfig carries the mail relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

// Sender delivers one rendered mail. Implemented over net/smtp in
// production and faked in tests.
type Sender interface {
	Send(subject string, htmlBody []byte) error
}

// SMTPSender sends mail through a plain-auth SMTP relay.
type SMTPSender struct {
	cfg SMTPConfig
}

// NewSMTPSender creates a Sender from relay settings.
func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// Send delivers one HTML mail to the configured recipients.
func (s *SMTPSender) Send(subject string, htmlBody []byte) error {
	if len(s.cfg.To) == 0 {
		return errors.New("digest: no recipients configured")
	}
	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", s.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(s.cfg.To, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.Write(htmlBody)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	if err := smtp.SendMail(addr, auth, s.cfg.From, s.cfg.To, msg.Bytes()); err != nil {
		return fmt.Errorf("digest: send mail: %w", err)
	}
	return nil
}

// Mailer assembles and sends the weekly digest.
type Mailer struct {
	db     *store.DB
	sender Sender
	// now is swapped out in tests
	now func() time.Time
}

// NewMailer creates a Mailer over the store and a mail sender.
func NewMailer(db *store.DB, sender Sender) *Mailer {
	return &Mailer{db: db, sender: sender, now: time.Now}
}

// WeekRange returns the Monday through Sunday window containing t,
// normalized to midnight boundaries.
func WeekRange(t time.Time) (start, end time.Time) {
	weekday := int(t.Weekday())
	// time.Sunday is 0; shift so the week starts on Monday
	if weekday == 0 {
		weekday = 7
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	start = day.AddDate(0, 0, -(weekday - 1))
	end = start.AddDate(0, 0, 7)
	return start, end
}

// SendWeekly mails the digest for the week before the current one and
// returns how many posts it covered. A week with no posts sends
// nothing.
func (m *Mailer) SendWeekly(_ context.Context) (int, error) {
	thisMonday, _ := WeekRange(m.now())
	start := thisMonday.AddDate(0, 0, -7)

	rows, err := m.db.ListPostsSince(start, thisMonday)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}

	posts := make([]models.Post, len(rows))
	for i := range rows {
		posts[i] = models.Post{
			ID:           rows[i].ID,
			Title:        rows[i].Title,
			CreatedAt:    rows[i].CreatedAt,
			Views:        rows[i].Views,
			CommentCount: rows[i].CommentCount,
		}
	}

	body, err := Render(start, thisMonday.AddDate(0, 0, -1), posts)
	if err != nil {
		return 0, err
	}
	subject := fmt.Sprintf("[Tech Talk] 주간 다이제스트 (%s ~ %s)",
		start.Format("2006-01-02"), thisMonday.AddDate(0, 0, -1).Format("2006-01-02"))
	if err := m.sender.Send(subject, body); err != nil {
		return 0, err
	}
	return len(posts), nil
}

var digestTmpl = template.Must(template.New("digest").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Tech Talk 주간 다이제스트</h2>
  <p>{{.Start}} ~ {{.End}} 동안 {{len .Posts}}개의 글이 올라왔습니다.</p>
  <ul>
  {{range .Posts}}
    <li>
      <strong>{{.Title}}</strong>
      <small>조회 {{.Views}} · 댓글 {{.CommentCount}}</small>
    </li>
  {{end}}
  </ul>
</body>
</html>
`))

// Render produces the digest HTML for a week of posts.
func Render(start, end time.Time, posts []models.Post) ([]byte, error) {
	var buf bytes.Buffer
	err := digestTmpl.Execute(&buf, struct {
		Start, End string
		Posts      []models.Post
	}{
		Start: start.Format("2006-01-02"),
		End:   end.Format("2006-01-02"),
		Posts: posts,
	})
	if err != nil {
		return nil, fmt.Errorf("digest: render: %w", err)
	}
	return buf.Bytes(), nil
}
