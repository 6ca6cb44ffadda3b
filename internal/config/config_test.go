package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.ServerAddr)
	assert.Equal(t, DevDatabaseURL, cfg.DatabaseURL)
	assert.Equal(t, AuthProviderLocal, cfg.AuthProvider)
	assert.Equal(t, 30*time.Second, cfg.LivePollInterval)
	assert.Equal(t, 168*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.IsDev())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SERVER_ADDR", ":8080")
	t.Setenv("DATABASE_URL", "postgres://db.internal/cg")
	t.Setenv("LIVE_POLL_INTERVAL", "5s")
	t.Setenv("AUTH_PROVIDER", "LOCAL")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, "postgres://db.internal/cg", cfg.DatabaseURL)
	assert.Equal(t, 5*time.Second, cfg.LivePollInterval)
	assert.Equal(t, AuthProviderLocal, cfg.AuthProvider)
}

func TestLoad_ProductionRefusesDevDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENV", "production")

	_, err := Load()
	assert.Error(t, err, "production without DATABASE_URL must fail")
}

func TestValidate(t *testing.T) {
	strong := "0123456789abcdef0123456789abcdef"

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "dev local provider",
			cfg:  Config{Env: "development", DatabaseURL: DevDatabaseURL, AuthProvider: AuthProviderLocal},
		},
		{
			name:    "unknown provider",
			cfg:     Config{Env: "development", DatabaseURL: DevDatabaseURL, AuthProvider: "ldap"},
			wantErr: true,
		},
		{
			name:    "hosted without url",
			cfg:     Config{Env: "development", DatabaseURL: DevDatabaseURL, AuthProvider: AuthProviderHosted},
			wantErr: true,
		},
		{
			name:    "production with dev database",
			cfg:     Config{Env: "production", DatabaseURL: DevDatabaseURL, AuthProvider: AuthProviderHosted, AuthURL: "https://auth", SessionSecret: strong},
			wantErr: true,
		},
		{
			name:    "production with default session secret",
			cfg:     Config{Env: "production", DatabaseURL: "postgres://prod", AuthProvider: AuthProviderHosted, AuthURL: "https://auth", SessionSecret: devSessionSecret},
			wantErr: true,
		},
		{
			name:    "production local provider with short reset secret",
			cfg:     Config{Env: "production", DatabaseURL: "postgres://prod", AuthProvider: AuthProviderLocal, SessionSecret: strong, ResetTokenSecret: "short"},
			wantErr: true,
		},
		{
			name: "production fully configured",
			cfg:  Config{Env: "production", DatabaseURL: "postgres://prod", AuthProvider: AuthProviderLocal, SessionSecret: strong, ResetTokenSecret: strong},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestResetPasswordURL(t *testing.T) {
	cfg := &Config{BaseURL: "https://app.example.com/"}
	assert.Equal(t, "https://app.example.com/reset-password", cfg.ResetPasswordURL())
}

func TestLoadSeedConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.yaml")
	content := `
organizations:
  - name: Acme
    admins: [ada@acme.example]
    portals:
      - name: Launch
        slug: acme-launch
        destination_url: https://acme.example
        theme:
          primary: "#ff6600"
      - name: Docs
        slug: acme-docs
        destination_url: https://docs.acme.example
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	seed, err := LoadSeedConfig(path)
	require.NoError(t, err)
	require.Len(t, seed.Organizations, 1)

	org := seed.Organizations[0]
	assert.Equal(t, "Acme", org.Name)
	assert.Equal(t, []string{"ada@acme.example"}, org.Admins)
	assert.Equal(t, 2, seed.PortalCount())
	assert.Equal(t, "#ff6600", org.Portals[0].Theme["primary"])
}

func TestLoadSeedConfig_Missing(t *testing.T) {
	seed, err := LoadSeedConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.NoError(t, err)
	assert.Nil(t, seed)
	assert.Equal(t, 0, seed.PortalCount())
}
