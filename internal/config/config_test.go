package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Xieruu-29/Realtime-ChatApp/internal/core"
)

func TestDefaultIsValid(t *testing.T) {
	req := require.New(t)

	cfg := Default()
	req.NoError(cfg.Validate())
	req.Equal(core.DefaultHistoryCapacity, cfg.HistoryCapacity)
	req.Equal(core.NameTakeover, cfg.NamePolicy())
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero capacity", func(c *Config) { c.HistoryCapacity = 0 }},
		{"negative capacity", func(c *Config) { c.HistoryCapacity = -1 }},
		{"zero client buffer", func(c *Config) { c.ClientBuffer = 0 }},
		{"unknown policy", func(c *Config) { c.DuplicateNamePolicy = "first-wins" }},
		{"negative rate limit", func(c *Config) { c.WSRateLimit = -5 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestNamePolicyParsing(t *testing.T) {
	req := require.New(t)

	cfg := Default()
	cfg.DuplicateNamePolicy = "reject"
	req.Equal(core.NameReject, cfg.NamePolicy())

	cfg.DuplicateNamePolicy = "takeover"
	req.Equal(core.NameTakeover, cfg.NamePolicy())
}

func TestUpdateFromAppliesOverrides(t *testing.T) {
	req := require.New(t)

	cfg := Default()
	cfg.UpdateFrom(Config{Addr: ":9090", HistoryCapacity: 50, DuplicateNamePolicy: "reject"})

	req.Equal(":9090", cfg.Addr)
	req.Equal(50, cfg.HistoryCapacity)
	req.Equal("reject", cfg.DuplicateNamePolicy)
	// Untouched fields keep their defaults.
	req.Equal(Default().ShutdownTimeout, cfg.ShutdownTimeout)
	req.Equal(Default().ClientBuffer, cfg.ClientBuffer)
}

func TestLoadWritesDefaultConfigWhenMissing(t *testing.T) {
	req := require.New(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, resolved, err := Load(nil, path)
	req.NoError(err)
	req.Equal(path, resolved)
	req.FileExists(path)
	req.Equal(Default(), cfg)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	req := require.New(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("CHATAPP_ADDR", ":9999")
	t.Setenv("CHATAPP_HISTORY_CAPACITY", "7")
	t.Setenv("CHATAPP_DUPLICATE_NAME_POLICY", "reject")

	cfg, _, err := Load(nil, path)
	req.NoError(err)
	req.Equal(":9999", cfg.Addr)
	req.Equal(7, cfg.HistoryCapacity)
	req.Equal(core.NameReject, cfg.NamePolicy())
	req.NoError(cfg.Validate())
}
