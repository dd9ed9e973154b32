package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/opsgrid/opsgrid-backend-go/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

// EmailService defines the interface for sending emails
type EmailService interface {
	SendLeaveDecision(to, userName, startDate, endDate, status string, note *string) error
	SendTaskAssigned(to, assigneeName, assignerName, taskTitle string, dueDate *string) error
}

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg config.SMTPConfig) (EmailService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &emailServiceImpl{
		cfg:       cfg,
		templates: tmpl,
	}, nil
}

type leaveDecisionEmailData struct {
	UserName  string
	StartDate string
	EndDate   string
	Status    string
	Note      string
}

// SendLeaveDecision notifies the requester that their leave request was
// approved or rejected.
func (s *emailServiceImpl) SendLeaveDecision(to, userName, startDate, endDate, status string, note *string) error {
	data := leaveDecisionEmailData{
		UserName:  userName,
		StartDate: startDate,
		EndDate:   endDate,
		Status:    status,
	}
	if note != nil {
		data.Note = *note
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "leave_decision.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(to, fmt.Sprintf("Leave request %s", status), body.String())
}

type taskAssignedEmailData struct {
	AssigneeName string
	AssignerName string
	TaskTitle    string
	DueDate      string
}

// SendTaskAssigned notifies a user that a task was delegated to them.
func (s *emailServiceImpl) SendTaskAssigned(to, assigneeName, assignerName, taskTitle string, dueDate *string) error {
	data := taskAssignedEmailData{
		AssigneeName: assigneeName,
		AssignerName: assignerName,
		TaskTitle:    taskTitle,
	}
	if dueDate != nil {
		data.DueDate = *dueDate
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "task_assigned.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(to, fmt.Sprintf("New task assigned: %s", taskTitle), body.String())
}

func (s *emailServiceImpl) sendHTML(to, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	from := s.cfg.From

	headers := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := smtp.SendMail(addr, auth, from, []string{to}, message)
		if err == nil {
			slog.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.Error("Failed to send email",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		// Wait before retrying (exponential backoff: 1s, 2s, 4s)
		if attempt < maxRetries {
			time.Sleep(time.Duration(1<<(attempt-1)) * time.Second)
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
