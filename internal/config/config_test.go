package config

import (
	"strings"
	"testing"
)

func validConfig() Config {
	return Config{
		App:        AppConfig{Env: "local", Port: 8080, PublicHost: "voice.example.com", MaxSessions: 8},
		DB:         DBConfig{URL: "postgres://agent@db.example.com:5432/orders"},
		Gemini:     GeminiConfig{APIKey: "k", Model: "models/x", Voice: "Aoede"},
		Twilio:     TwilioConfig{AccountSID: "AC1", AuthToken: "tok"},
		Restaurant: RestaurantConfig{ID: "rest-1", TransferNumber: "+19495550000"},
	}
}

func TestValidateOK(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
}

func TestValidateCollectsErrors(t *testing.T) {
	c := validConfig()
	c.App.PublicHost = ""
	c.Gemini.APIKey = ""
	err := c.Validate()
	if err == nil {
		t.Fatalf("expected errors")
	}
	msg := err.Error()
	if !strings.Contains(msg, "PUBLIC_HOST") || !strings.Contains(msg, "GEMINI_API_KEY") {
		t.Fatalf("expected both errors reported, got %q", msg)
	}
}

func TestValidateRejectsBadEnv(t *testing.T) {
	c := validConfig()
	c.App.Env = "sandbox"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for unknown env")
	}
}

func TestPostgresDSNFoldsServiceKey(t *testing.T) {
	c := validConfig()
	c.DB.ServiceKey = "secret"
	dsn := c.PostgresDSN()
	if !strings.Contains(dsn, "agent:secret@") {
		t.Fatalf("expected service key folded in, got %q", dsn)
	}

	// An explicit password wins.
	c.DB.URL = "postgres://agent:pw@db.example.com:5432/orders"
	if got := c.PostgresDSN(); got != c.DB.URL {
		t.Fatalf("expected url unchanged, got %q", got)
	}
}

func TestHTTPAddr(t *testing.T) {
	c := validConfig()
	if got := c.HTTPAddr(); got != ":8080" {
		t.Fatalf("expected :8080, got %q", got)
	}
}
