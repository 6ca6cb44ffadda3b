package email

import (
	"fmt"
	"html"
	"time"

	"cloudgather/internal/config"
)

// Templates provides email template generation.
type Templates struct {
	cfg *config.Config
}

// NewTemplates creates a new templates instance.
func NewTemplates(cfg *config.Config) *Templates {
	return &Templates{cfg: cfg}
}

// baseHTML wraps content in a consistent HTML email template.
func (t *Templates) baseHTML(title, content string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #2563eb; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { background: #f9fafb; padding: 20px; border: 1px solid #e5e7eb; }
        .footer { background: #f3f4f6; padding: 15px; text-align: center; font-size: 12px; color: #6b7280; border-radius: 0 0 8px 8px; border: 1px solid #e5e7eb; border-top: none; }
        .button { display: inline-block; background: #2563eb; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; margin: 10px 0; }
        .button:hover { background: #1d4ed8; }
        .info-box { background: white; border: 1px solid #e5e7eb; border-radius: 6px; padding: 15px; margin: 15px 0; }
        .label { font-weight: 600; color: #374151; }
        .value { color: #6b7280; }
        .success { color: #059669; }
        .warning { color: #d97706; }
        .error { color: #dc2626; }
        code { background: #e5e7eb; padding: 2px 6px; border-radius: 4px; font-family: monospace; }
    </style>
</head>
<body>
    <div class="header">
        <h1>%s</h1>
    </div>
    <div class="content">
        %s
    </div>
    <div class="footer">
        <p>This email was sent by %s</p>
        <p><a href="%s">%s</a></p>
    </div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(t.cfg.SiteTitle), content, html.EscapeString(t.cfg.SiteTitle), t.cfg.BaseURL, t.cfg.BaseURL)
}

// PasswordReset generates the email carrying a password reset link.
func (t *Templates) PasswordReset(resetURL string, ttl time.Duration) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("[%s] Reset your password", t.cfg.SiteTitle)

	content := fmt.Sprintf(`
        <p>Someone asked to reset the password for this account.</p>
        <p><a class="button" href="%s">Choose a new password</a></p>
        <p class="warning">The link expires in %s. If you did not ask for a reset you can ignore this email.</p>`,
		html.EscapeString(resetURL), ttl)

	htmlBody = t.baseHTML("Reset your password", content)

	textBody = fmt.Sprintf(`Someone asked to reset the password for this account.

Choose a new password: %s

The link expires in %s. If you did not ask for a reset you can ignore this email.
`, resetURL, ttl)

	return subject, htmlBody, textBody
}

// PasswordChanged generates the confirmation sent after a password change.
func (t *Templates) PasswordChanged() (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("[%s] Your password was changed", t.cfg.SiteTitle)

	content := fmt.Sprintf(`
        <p class="success">Your password was changed.</p>
        <p>If this wasn't you, reset your password right away at <a href="%s">%s</a>.</p>`,
		html.EscapeString(t.cfg.ResetPasswordURL()), html.EscapeString(t.cfg.ResetPasswordURL()))

	htmlBody = t.baseHTML("Password changed", content)

	textBody = fmt.Sprintf(`Your password was changed.

If this wasn't you, reset your password right away at %s
`, t.cfg.ResetPasswordURL())

	return subject, htmlBody, textBody
}
