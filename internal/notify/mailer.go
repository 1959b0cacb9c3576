package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	gomail "gopkg.in/gomail.v2"

	"github.com/charlieverse/platform/internal/api/metrics"
	"github.com/charlieverse/platform/internal/events"
)

// MailConfig holds SMTP settings. When Host/User/Pass are empty the Gmail
// pair is tried; when neither is present the mailer is a logged no-op.
type MailConfig struct {
	Host      string
	Port      int
	User      string
	Pass      string
	From      string
	GmailUser string
	GmailPass string
}

// Mailer sends templated notification emails. Every send is best-effort: an
// unconfigured transport or a failed dial is logged and swallowed, never
// surfaced to the operation that triggered the email.
type Mailer struct {
	dialer     *gomail.Dialer
	from       string
	adminEmail string
	log        zerolog.Logger
}

// NewMailer builds the mailer from config. adminEmail receives the
// admin-facing notifications (new projects, contact forms).
func NewMailer(cfg MailConfig, adminEmail string, log zerolog.Logger) *Mailer {
	m := &Mailer{adminEmail: adminEmail, log: log}

	host, port, user, pass := cfg.Host, cfg.Port, cfg.User, cfg.Pass
	if host == "" && cfg.GmailUser != "" && cfg.GmailPass != "" {
		host, port, user, pass = "smtp.gmail.com", 587, cfg.GmailUser, cfg.GmailPass
	}
	if host == "" || user == "" || pass == "" {
		log.Info().Msg("email service not configured, outbound mail disabled")
		return m
	}
	if port == 0 {
		port = 587
	}

	m.dialer = gomail.NewDialer(host, port, user, pass)
	m.from = cfg.From
	if m.from == "" {
		m.from = user
	}
	log.Info().Str("host", host).Msg("email service configured")
	return m
}

// Configured reports whether a transport is available.
func (m *Mailer) Configured() bool { return m.dialer != nil }

// Send delivers one message. Returns false when skipped or failed.
func (m *Mailer) Send(to, subject, html, text string) bool {
	return m.send("custom", to, subject, html, text)
}

func (m *Mailer) send(template, to, subject, html, text string) bool {
	if m.dialer == nil {
		metrics.EmailsSentTotal.WithLabelValues(template, "skipped").Inc()
		m.log.Debug().Str("to", to).Str("template", template).Msg("email skipped, transport unconfigured")
		return false
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", text)
	msg.AddAlternative("text/html", html)

	if err := m.dialer.DialAndSend(msg); err != nil {
		metrics.EmailsSentTotal.WithLabelValues(template, "error").Inc()
		m.log.Error().Err(err).Str("to", to).Str("template", template).Msg("email send failed")
		return false
	}
	metrics.EmailsSentTotal.WithLabelValues(template, "sent").Inc()
	m.log.Info().Str("to", to).Str("template", template).Msg("email sent")
	return true
}

// ── Templates ─────────────────────────────────────────────────────────────────

// SendWelcome greets a newly registered user.
func (m *Mailer) SendWelcome(to, firstName, role string) bool {
	html := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
<h1>Welcome to Charlieverse, %s!</h1>
<p>Thank you for joining our platform. We're excited to help you with your tech projects.</p>
<p>Your account details:</p>
<ul><li><strong>Email:</strong> %s</li><li><strong>Role:</strong> %s</li></ul>
<p>Get started by logging into your dashboard and exploring our services.</p>
<p>Best regards,<br>The Charlieverse Team</p></div>`, firstName, to, role)
	text := fmt.Sprintf("Welcome to Charlieverse, %s! Thank you for joining our platform. Your email: %s, Role: %s", firstName, to, role)
	return m.send("welcome", to, "Welcome to Charlieverse!", html, text)
}

// SendProjectStatusUpdate tells a project owner about a status transition.
func (m *Mailer) SendProjectStatusUpdate(to, firstName, projectTitle, newStatus, message string) bool {
	html := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
<h1>Project Status Update</h1>
<p>Hello %s,</p>
<p>Your project <strong>%s</strong> has been updated.</p>
<div style="background-color: #f5f5f5; padding: 15px; border-radius: 5px;">
<p><strong>New Status:</strong> %s</p>
<p><strong>Update Message:</strong> %s</p>
</div>
<p>You can view more details in your dashboard.</p>
<p>Best regards,<br>The Charlieverse Team</p></div>`, firstName, projectTitle, newStatus, message)
	text := fmt.Sprintf("Project Update: %s. New Status: %s. Message: %s", projectTitle, newStatus, message)
	return m.send("project_status_update", to, "Project Update: "+projectTitle, html, text)
}

// SendNewProjectNotification tells the admin address about a new request.
func (m *Mailer) SendNewProjectNotification(projectTitle, clientName, clientEmail, projectType, budget string) bool {
	if m.adminEmail == "" {
		return false
	}
	html := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
<h1>New Project Request</h1>
<p>A new project request has been submitted:</p>
<div style="background-color: #f5f5f5; padding: 15px; border-radius: 5px;">
<p><strong>Title:</strong> %s</p>
<p><strong>Client:</strong> %s (%s)</p>
<p><strong>Type:</strong> %s</p>
<p><strong>Budget:</strong> %s</p>
</div>
<p>Please review and respond to the client promptly.</p>
<p>Best regards,<br>The Charlieverse System</p></div>`, projectTitle, clientName, clientEmail, projectType, budget)
	text := fmt.Sprintf("New project request: %s from %s (%s)", projectTitle, clientName, clientEmail)
	return m.send("new_project", m.adminEmail, "New Project Request Received", html, text)
}

// SendPasswordReset mails a reset link that expires in one hour.
func (m *Mailer) SendPasswordReset(to, firstName, resetLink string) bool {
	html := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
<h1>Password Reset Request</h1>
<p>Hello %s,</p>
<p>We received a request to reset your password. If you didn't make this request, please ignore this email.</p>
<p><a href="%s" style="background-color: #007bff; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">Reset Password</a></p>
<p>This link will expire in 1 hour.</p>
<p>Best regards,<br>The Charlieverse Team</p></div>`, firstName, resetLink)
	text := "Password reset request. Reset link: " + resetLink
	return m.send("password_reset", to, "Password Reset Request", html, text)
}

// SendContactNotification forwards a contact-form submission to the admin.
func (m *Mailer) SendContactNotification(name, email, phone, projectType, message string) bool {
	if m.adminEmail == "" {
		return false
	}
	if phone == "" {
		phone = "Not provided"
	}
	html := fmt.Sprintf(`<h2>New Contact Form Submission</h2>
<p><strong>Name:</strong> %s</p>
<p><strong>Email:</strong> %s</p>
<p><strong>Phone:</strong> %s</p>
<p><strong>Project Type:</strong> %s</p>
<p><strong>Message:</strong></p><p>%s</p>`, name, email, phone, projectType, message)
	text := fmt.Sprintf("New Contact Form Submission\n\nName: %s\nEmail: %s\nPhone: %s\nProject Type: %s\nMessage: %s",
		name, email, phone, projectType, message)
	return m.send("contact", m.adminEmail, "New Contact Form Submission - "+projectType, html, text)
}

// ── Event bus subscriber ──────────────────────────────────────────────────────

// Name implements events.Subscriber.
func (m *Mailer) Name() string { return "mailer" }

// Handle maps domain events onto their email templates.
func (m *Mailer) Handle(_ context.Context, e events.Event) error {
	switch e.Type {
	case events.ProjectStatusChanged:
		m.SendProjectStatusUpdate(e.OwnerEmail, e.OwnerName, e.Title, e.Status, e.Message)
	case events.ProjectCreated:
		projectType, _ := e.Data["project_type"].(string)
		budget, _ := e.Data["budget"].(string)
		m.SendNewProjectNotification(e.Title, e.OwnerName, e.OwnerEmail, projectType, budget)
	case events.UserRegistered:
		role, _ := e.Data["role"].(string)
		m.SendWelcome(e.OwnerEmail, e.OwnerName, role)
	case events.ContactReceived:
		name, _ := e.Data["name"].(string)
		email, _ := e.Data["email"].(string)
		phone, _ := e.Data["phone"].(string)
		projectType, _ := e.Data["project_type"].(string)
		message, _ := e.Data["message"].(string)
		m.SendContactNotification(name, email, phone, projectType, message)
	}
	return nil
}
