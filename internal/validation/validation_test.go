package validation

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"cloudgather/internal/models"
)

func TestValidateSlug(t *testing.T) {
	tests := []struct {
		name string
		slug string
		want bool
	}{
		{"valid lowercase", "launch", true},
		{"valid with hyphen", "acme-launch", true},
		{"valid with digits", "spring-2026", true},
		{"single char", "a", true},
		{"numbers only", "12345", true},
		{"empty string", "", false},
		{"too long", strings.Repeat("a", 64), false},
		{"max length", strings.Repeat("a", 63), true},
		{"uppercase", "Acme", false},
		{"leading hyphen", "-acme", false},
		{"trailing hyphen", "acme-", false},
		{"double hyphen", "acme--launch", false},
		{"underscore", "acme_launch", false},
		{"contains space", "acme launch", false},
		{"contains slash", "acme/launch", false},
		{"path traversal attempt", "../etc/passwd", false},
		{"url encoded", "acme%20launch", false},
		{"unicode", "日本語", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateSlug(tt.slug)
			if got != tt.want {
				t.Errorf("ValidateSlug(%q) = %v, want %v", tt.slug, got, tt.want)
			}
		})
	}
}

func TestNormalizeSlug(t *testing.T) {
	if got := NormalizeSlug("  Acme-Launch "); got != "acme-launch" {
		t.Errorf("NormalizeSlug() = %q, want %q", got, "acme-launch")
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		valid   bool
		wantMsg string
	}{
		{"valid https", "https://example.com", true, ""},
		{"valid http", "http://example.com", true, ""},
		{"valid with path", "https://example.com/path/to/page", true, ""},
		{"valid with query", "https://example.com?foo=bar", true, ""},
		{"valid with port", "https://example.com:8080", true, ""},
		{"empty string", "", false, "URL is required"},
		{"javascript scheme", "javascript:alert(1)", false, "URL must use http:// or https:// scheme"},
		{"data scheme", "data:text/html,<script>alert(1)</script>", false, "URL must use http:// or https:// scheme"},
		{"vbscript scheme", "vbscript:msgbox", false, "URL must use http:// or https:// scheme"},
		{"file scheme", "file:///etc/passwd", false, "URL must use http:// or https:// scheme"},
		{"ftp scheme", "ftp://example.com", false, "URL must use http:// or https:// scheme"},
		{"no scheme", "example.com", false, "URL must use http:// or https:// scheme"},
		{"relative url", "/path/to/page", false, "URL must use http:// or https:// scheme"},
		{"uppercase scheme", "HTTPS://example.com", true, ""},
		{"mixed case scheme", "HtTpS://example.com", true, ""},
		{"scheme only", "https://", false, "URL must have a valid host"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, msg := ValidateURL(tt.url)
			if valid != tt.valid {
				t.Errorf("ValidateURL(%q) valid = %v, want %v", tt.url, valid, tt.valid)
			}
			if !valid && msg != tt.wantMsg {
				t.Errorf("ValidateURL(%q) msg = %q, want %q", tt.url, msg, tt.wantMsg)
			}
		})
	}
}

func TestValidateTheme(t *testing.T) {
	tests := []struct {
		theme string
		want  bool
	}{
		{"", true},
		{"null", true},
		{`{}`, true},
		{`{"primary":"#000","logo":{"url":"https://x"}}`, true},
		{`[]`, false},
		{`"blue"`, false},
		{`{broken`, false},
	}

	for _, tt := range tests {
		if got := ValidateTheme(json.RawMessage(tt.theme)); got != tt.want {
			t.Errorf("ValidateTheme(%q) = %v, want %v", tt.theme, got, tt.want)
		}
	}
}

func TestPortalInput(t *testing.T) {
	valid := func() models.PortalInput {
		return models.PortalInput{Name: " Launch ", Slug: " Acme-Launch", DestinationURL: "https://acme.example "}
	}

	in := valid()
	if err := PortalInput(&in); err != nil {
		t.Fatalf("PortalInput() error = %v", err)
	}
	if in.Name != "Launch" || in.Slug != "acme-launch" || in.DestinationURL != "https://acme.example" {
		t.Errorf("PortalInput() did not normalize: %+v", in)
	}

	tests := []struct {
		name      string
		mutate    func(*models.PortalInput)
		wantField string
	}{
		{"missing name", func(p *models.PortalInput) { p.Name = "  " }, "name"},
		{"bad slug", func(p *models.PortalInput) { p.Slug = "acme launch" }, "slug"},
		{"bad url", func(p *models.PortalInput) { p.DestinationURL = "javascript:alert(1)" }, "destination_url"},
		{"bad theme", func(p *models.PortalInput) { p.Theme = json.RawMessage(`[1,2]`) }, "theme"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid()
			tt.mutate(&in)
			var fe *FieldError
			if err := PortalInput(&in); !errors.As(err, &fe) || fe.Field != tt.wantField {
				t.Errorf("PortalInput() error = %v, want field %q", err, tt.wantField)
			}
		})
	}
}

func TestPortalPatch(t *testing.T) {
	slug := "New-Slug"
	p := models.PortalPatch{Slug: &slug}
	if err := PortalPatch(&p); err != nil {
		t.Fatalf("PortalPatch() error = %v", err)
	}
	if *p.Slug != "new-slug" {
		t.Errorf("PortalPatch() slug = %q, want %q", *p.Slug, "new-slug")
	}

	if err := PortalPatch(&models.PortalPatch{}); err != nil {
		t.Errorf("empty patch should be valid, got %v", err)
	}

	bad := "ftp://files.example"
	var fe *FieldError
	if err := PortalPatch(&models.PortalPatch{DestinationURL: &bad}); !errors.As(err, &fe) || fe.Field != "destination_url" {
		t.Errorf("PortalPatch() error = %v, want destination_url field error", err)
	}

	if err := PortalPatch(&models.PortalPatch{Theme: models.ClearTheme}); err != nil {
		t.Errorf("clearing the theme should be valid, got %v", err)
	}
	if err := PortalPatch(&models.PortalPatch{Theme: models.SetTheme(json.RawMessage(`"dark"`))}); !errors.As(err, &fe) || fe.Field != "theme" {
		t.Errorf("PortalPatch() error = %v, want theme field error", err)
	}
}
