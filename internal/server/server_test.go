package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"cloudgather/internal/actions"
	"cloudgather/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:           "development",
		BaseURL:       "http://localhost:3000",
		SessionSecret: "test-secret-that-is-long-enough-for-production",
		SessionTTL:    time.Hour,
		SiteTitle:     "CloudGather",
		AuthProvider:  config.AuthProviderLocal,
	}
}

// TestEncryptCookieSessionRoundTrip verifies that the encryptcookie +
// session middleware stack of New survives a client replaying encrypted
// session cookies across multiple requests.
func TestEncryptCookieSessionRoundTrip(t *testing.T) {
	srv := New(testConfig())
	app := srv.App

	app.Post("/session-set", func(c fiber.Ctx) error {
		sess := session.FromContext(c)
		if sess == nil {
			return c.Status(500).SendString("no session")
		}
		sess.Set("access_token", "token-abc")
		return c.SendString("ok")
	})
	app.Get("/session-get", func(c fiber.Ctx) error {
		sess := session.FromContext(c)
		if sess == nil {
			return c.Status(500).SendString("no session")
		}
		val, _ := sess.Get("access_token").(string)
		return c.SendString(val)
	})

	// --- Request 1: establish a session ---
	req, _ := http.NewRequest("POST", "/session-set", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request 1 failed: %v", err)
	}
	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("request 1: expected 200, got %d: %s", resp.StatusCode, body)
	}

	cookies := resp.Cookies()
	if len(cookies) == 0 {
		t.Fatal("request 1: no cookies returned")
	}
	for _, c := range cookies {
		if strings.Contains(c.Value, "token-abc") {
			t.Fatal("session cookie is not encrypted")
		}
	}

	// --- Request 2: replay cookies (triggers encryptcookie decryption) ---
	req2, _ := http.NewRequest("GET", "/session-get", nil)
	for _, c := range cookies {
		req2.AddCookie(c)
	}

	resp2, err := app.Test(req2)
	if err != nil {
		t.Fatalf("request 2 failed (possible encryptcookie panic): %v", err)
	}
	body, _ := io.ReadAll(resp2.Body)
	if resp2.StatusCode != 200 {
		t.Fatalf("request 2: expected 200, got %d: %s", resp2.StatusCode, body)
	}
	if string(body) != "token-abc" {
		t.Errorf("request 2: expected session value 'token-abc', got %q", body)
	}
}

func TestErrorHandler(t *testing.T) {
	srv := New(testConfig())
	srv.App.Get("/api/boom", func(c fiber.Ctx) error {
		return fiber.NewError(fiber.StatusForbidden, "forbidden")
	})
	srv.App.Get("/boom", func(c fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "The portal 'x' does not exist.")
	})

	req, _ := http.NewRequest("GET", "/api/boom", nil)
	resp, err := srv.App.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("expected 403, got %d", resp.StatusCode)
	}
	var env map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env["status"] != "error" || env["error"] != "forbidden" {
		t.Errorf("unexpected envelope: %v", env)
	}

	req, _ = http.NewRequest("GET", "/boom", nil)
	resp, err = srv.App.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "does not exist") {
		t.Errorf("error page missing message: %s", body)
	}
}

func TestViewsRender(t *testing.T) {
	srv := New(testConfig())

	pages := map[string]string{
		"sign-in":        "Sign in",
		"sign-up":        "Create account",
		"reset-password": "Reset password",
		"pricing":        "Pricing",
		"dashboard":      "Welcome",
	}
	for view, want := range pages {
		view, want := view, want
		srv.App.Get("/view/"+view, func(c fiber.Ctx) error {
			return c.Render(view, fiber.Map{
				"Title":     want,
				"SiteTitle": "CloudGather",
				"Result":    actions.Result{State: actions.StateIdle},
			})
		})
	}

	for view, want := range pages {
		req, _ := http.NewRequest("GET", "/view/"+view, nil)
		resp, err := srv.App.Test(req)
		if err != nil {
			t.Fatalf("%s: request failed: %v", view, err)
		}
		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != 200 {
			t.Fatalf("%s: expected 200, got %d: %s", view, resp.StatusCode, body)
		}
		if !strings.Contains(string(body), want) {
			t.Errorf("%s: expected %q in body", view, want)
		}
	}
}

func TestDeriveEncryptionKey(t *testing.T) {
	a := deriveEncryptionKey("secret-one")
	b := deriveEncryptionKey("secret-two")
	if a == b {
		t.Error("different secrets produced the same key")
	}
	if a != deriveEncryptionKey("secret-one") {
		t.Error("key derivation is not deterministic")
	}
}
