package email

import (
	"strings"
	"testing"
	"time"

	"cloudgather/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		SiteTitle: "TestGather",
		BaseURL:   "https://app.example.com",
	}
}

func TestNewTemplates(t *testing.T) {
	cfg := testConfig()

	tmpl := NewTemplates(cfg)
	if tmpl == nil {
		t.Fatal("NewTemplates returned nil")
	}
	if tmpl.cfg != cfg {
		t.Error("Templates config not set correctly")
	}
}

func TestTemplates_BaseHTML(t *testing.T) {
	tmpl := NewTemplates(testConfig())

	html := tmpl.baseHTML("Test Title", "<p>Test content</p>")

	checks := []string{
		"<!DOCTYPE html>",
		"<title>Test Title</title>",
		"TestGather",
		"https://app.example.com",
		"<p>Test content</p>",
	}

	for _, check := range checks {
		if !strings.Contains(html, check) {
			t.Errorf("baseHTML missing %q", check)
		}
	}
}

func TestTemplates_BaseHTML_EscapesHTML(t *testing.T) {
	cfg := testConfig()
	cfg.SiteTitle = "<script>alert('xss')</script>"
	tmpl := NewTemplates(cfg)

	html := tmpl.baseHTML("Test", "Content")

	if strings.Contains(html, "<script>") {
		t.Error("baseHTML should escape the site title")
	}
}

func TestTemplates_PasswordReset(t *testing.T) {
	tmpl := NewTemplates(testConfig())
	resetURL := "https://app.example.com/reset-password?token=abc&x=1"

	subject, htmlBody, textBody := tmpl.PasswordReset(resetURL, 30*time.Minute)

	if subject != "[TestGather] Reset your password" {
		t.Errorf("subject = %q", subject)
	}
	if !strings.Contains(htmlBody, "token=abc&amp;x=1") {
		t.Error("HTML body should contain the escaped reset URL")
	}
	if !strings.Contains(textBody, resetURL) {
		t.Error("text body should contain the raw reset URL")
	}
	if !strings.Contains(textBody, "30m0s") {
		t.Error("text body should mention the expiry")
	}
}

func TestTemplates_PasswordChanged(t *testing.T) {
	tmpl := NewTemplates(testConfig())

	subject, htmlBody, textBody := tmpl.PasswordChanged()

	if !strings.Contains(subject, "password was changed") {
		t.Errorf("subject = %q", subject)
	}
	for _, body := range []string{htmlBody, textBody} {
		if !strings.Contains(body, "https://app.example.com/reset-password") {
			t.Error("body should link to the reset page")
		}
	}
}
