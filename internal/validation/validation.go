package validation

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"cloudgather/internal/models"
)

// SlugPattern defines the valid slug format: lowercase alphanumeric words
// separated by single hyphens.
var SlugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

const (
	MaxSlugLength = 63
	MaxNameLength = 255
)

// FieldError reports an invalid input field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateSlug checks if a slug matches the allowed pattern.
func ValidateSlug(slug string) bool {
	if slug == "" || len(slug) > MaxSlugLength {
		return false
	}
	return SlugPattern.MatchString(slug)
}

// NormalizeSlug lowercases and trims a slug so lookups are case-insensitive.
func NormalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}

// ValidateURL checks if a URL is valid and uses an allowed scheme (http/https only).
// This prevents javascript:, data:, vbscript:, and other dangerous URL schemes.
func ValidateURL(urlStr string) (bool, string) {
	if urlStr == "" {
		return false, "URL is required"
	}

	// Parse the URL
	u, err := url.Parse(urlStr)
	if err != nil {
		return false, "Invalid URL format"
	}

	// Check scheme - only allow http and https
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false, "URL must use http:// or https:// scheme"
	}

	// Ensure host is present
	if u.Host == "" {
		return false, "URL must have a valid host"
	}

	return true, ""
}

// ValidateTheme accepts an empty theme or any JSON object.
func ValidateTheme(theme json.RawMessage) bool {
	if len(theme) == 0 || string(theme) == "null" {
		return true
	}
	var obj map[string]any
	return json.Unmarshal(theme, &obj) == nil
}

// PortalInput normalizes and checks the fields of a new portal.
func PortalInput(in *models.PortalInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = NormalizeSlug(in.Slug)
	in.DestinationURL = strings.TrimSpace(in.DestinationURL)

	if err := checkName(in.Name); err != nil {
		return err
	}
	if !ValidateSlug(in.Slug) {
		return &FieldError{Field: "slug", Message: slugMessage}
	}
	if ok, msg := ValidateURL(in.DestinationURL); !ok {
		return &FieldError{Field: "destination_url", Message: msg}
	}
	if !ValidateTheme(in.Theme) {
		return &FieldError{Field: "theme", Message: "Theme must be a JSON object"}
	}
	return nil
}

// PortalPatch normalizes and checks the fields present in a portal update.
func PortalPatch(p *models.PortalPatch) error {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if err := checkName(name); err != nil {
			return err
		}
		p.Name = &name
	}
	if p.Slug != nil {
		slug := NormalizeSlug(*p.Slug)
		if !ValidateSlug(slug) {
			return &FieldError{Field: "slug", Message: slugMessage}
		}
		p.Slug = &slug
	}
	if p.DestinationURL != nil {
		dest := strings.TrimSpace(*p.DestinationURL)
		if ok, msg := ValidateURL(dest); !ok {
			return &FieldError{Field: "destination_url", Message: msg}
		}
		p.DestinationURL = &dest
	}
	if p.Theme.Set && !ValidateTheme(p.Theme.Value) {
		return &FieldError{Field: "theme", Message: "Theme must be a JSON object"}
	}
	return nil
}

const slugMessage = "Slug must be lowercase letters, numbers and single hyphens (max 63 characters)"

func checkName(name string) error {
	if name == "" {
		return &FieldError{Field: "name", Message: "Name is required"}
	}
	if len(name) > MaxNameLength {
		return &FieldError{Field: "name", Message: "Name must be at most 255 characters"}
	}
	return nil
}
