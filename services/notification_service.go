package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"log/slog"
	"strings"
	"text/template"
	"time"

	"band-backend/apperrors"
	"band-backend/mailer"
	"band-backend/models"
	"band-backend/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

// Bodies are rendered with text/template; every user-supplied value is
// escaped with utils.HTMLEscape before it reaches a template.
var emailTemplates = map[string]*template.Template{
	"contact_notification": mustTemplate("contact_notification.html"),
	"contact_confirmation": mustTemplate("contact_confirmation.html"),
	"password_reset":       mustTemplate("password_reset.html"),
}

func mustTemplate(body string) *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/"+body))
}

// ContactMessage is a contact-form submission.
type ContactMessage struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// ContactResult carries the provider ids. ConfirmationErr is set when only
// the confirmation to the submitter failed.
type ContactResult struct {
	NotificationID  string
	ConfirmationID  string
	ConfirmationErr error
}

type NotificationService struct {
	sender    mailer.Sender
	from      string
	recipient string
	site      string
	now       func() time.Time
}

func NewNotificationService(sender mailer.Sender, from, contactRecipient, siteName string) *NotificationService {
	return &NotificationService{
		sender:    sender,
		from:      from,
		recipient: contactRecipient,
		site:      siteName,
		now:       time.Now,
	}
}

type emailView struct {
	Title     string
	Site      string
	Year      int
	Name      string
	Email     string
	Subject   string
	Message   string
	Link      string
	ExpiresIn string
}

func (s *NotificationService) render(name string, view emailView) (string, error) {
	view.Title = utils.HTMLEscape(view.Title)
	view.Site = utils.HTMLEscape(s.site)
	view.Year = s.now().Year()
	var buf bytes.Buffer
	if err := emailTemplates[name].ExecuteTemplate(&buf, "layout", view); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

func contactView(title string, msg ContactMessage) emailView {
	return emailView{
		Title:   title,
		Name:    utils.HTMLEscape(msg.Name),
		Email:   utils.HTMLEscape(msg.Email),
		Subject: utils.HTMLEscape(msg.Subject),
		Message: utils.NewlinesToBreaks(utils.HTMLEscape(msg.Message)),
	}
}

func (m ContactMessage) trimmed() ContactMessage {
	return ContactMessage{
		Name:    strings.TrimSpace(m.Name),
		Email:   strings.TrimSpace(m.Email),
		Subject: strings.TrimSpace(m.Subject),
		Message: strings.TrimSpace(m.Message),
	}
}

// SendContact emails the submission to the site owner, then a confirmation
// to the submitter. Only the first send is required to succeed.
func (s *NotificationService) SendContact(ctx context.Context, msg ContactMessage) (ContactResult, error) {
	msg = msg.trimmed()
	if msg.Name == "" || msg.Email == "" || msg.Subject == "" || msg.Message == "" {
		return ContactResult{}, apperrors.Validation("Missing required fields")
	}

	notificationHTML, err := s.render("contact_notification", contactView("New Contact Form Submission", msg))
	if err != nil {
		return ContactResult{}, err
	}
	confirmationHTML, err := s.render("contact_confirmation", contactView("Thank you for contacting "+s.site, msg))
	if err != nil {
		return ContactResult{}, err
	}

	var result ContactResult
	result.NotificationID, err = s.sender.Send(ctx, mailer.Message{
		To:      []string{s.recipient},
		From:    s.from,
		Subject: "[Website Contact] " + msg.Subject,
		HTML:    notificationHTML,
		ReplyTo: msg.Email,
	})
	if err != nil {
		slog.Error("contact notification failed", "error", err, "to", s.recipient)
		return ContactResult{}, apperrors.Dependency("Failed to send email notification", err)
	}

	result.ConfirmationID, err = s.sender.Send(ctx, mailer.Message{
		To:      []string{msg.Email},
		From:    s.from,
		Subject: "Thank you for contacting " + s.site,
		HTML:    confirmationHTML,
	})
	if err != nil {
		slog.Warn("contact confirmation failed", "error", err, "to", utils.MaskEmail(msg.Email))
		result.ConfirmationErr = err
	}
	return result, nil
}

// SendPasswordReset emails the reset link to the admin.
func (s *NotificationService) SendPasswordReset(ctx context.Context, admin models.Admin, link string, ttl time.Duration) error {
	html, err := s.render("password_reset", emailView{
		Title:     "Reset Your Password",
		Name:      utils.HTMLEscape(admin.Username),
		Link:      utils.HTMLEscape(link),
		ExpiresIn: humanDuration(ttl),
	})
	if err != nil {
		return err
	}

	slog.Info("sending password reset", "to", utils.MaskEmail(admin.Email))
	if _, err := s.sender.Send(ctx, mailer.Message{
		To:      []string{admin.Email},
		From:    s.from,
		Subject: fmt.Sprintf("Reset Your %s Admin Password", s.site),
		HTML:    html,
	}); err != nil {
		return apperrors.Dependency("Failed to send reset email", err)
	}
	return nil
}

func humanDuration(d time.Duration) string {
	switch {
	case d == time.Hour:
		return "1 hour"
	case d%time.Hour == 0:
		return fmt.Sprintf("%d hours", int(d/time.Hour))
	case d%time.Minute == 0:
		return fmt.Sprintf("%d minutes", int(d/time.Minute))
	default:
		return d.String()
	}
}
