package config

import (
	"testing"
)

func validConfig() *Config {
	return &Config{
		Port:         "8080",
		LogLevel:     "info",
		AccountSID:   "AC00000000000000000000000000000000",
		AuthToken:    "12345678901234567890123456789012",
		DatabasePath: "./test.db",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing account SID",
			modify:  func(c *Config) { c.AccountSID = "" },
			wantErr: true,
		},
		{
			name:    "missing auth token",
			modify:  func(c *Config) { c.AuthToken = "" },
			wantErr: true,
		},
		{
			name:    "invalid port",
			modify:  func(c *Config) { c.Port = "notaport" },
			wantErr: true,
		},
		{
			name:    "port out of range",
			modify:  func(c *Config) { c.Port = "70000" },
			wantErr: true,
		},
		{
			name:    "cert without key",
			modify:  func(c *Config) { c.TLSCertFile = "cert.pem" },
			wantErr: true,
		},
		{
			name: "cert with key",
			modify: func(c *Config) {
				c.TLSCertFile = "cert.pem"
				c.TLSKeyFile = "key.pem"
			},
			wantErr: false,
		},
		{
			name:    "invalid public base URL",
			modify:  func(c *Config) { c.PublicBaseURL = "not a url" },
			wantErr: true,
		},
		{
			name:    "valid public base URL",
			modify:  func(c *Config) { c.PublicBaseURL = "https://hooks.example.com" },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("TWILIO_ACCOUNT_SID", "AC123")
	t.Setenv("TWILIO_AUTH_TOKEN", "token")

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want default 8080", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want default info", cfg.LogLevel)
	}
	if cfg.AccountSID != "AC123" {
		t.Errorf("AccountSID = %q, want AC123", cfg.AccountSID)
	}
	if cfg.DatabasePath == "" {
		t.Error("DatabasePath should have a default")
	}
}
