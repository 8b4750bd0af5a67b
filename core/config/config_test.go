package config

import "testing"

func validConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{Token: "123:abc", OwnerID: 42},
		Book:     BookConfig{URI: "sqlite:///tmp/book.gnucash"},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Errorf("run_mode = %q, want longpoll default", cfg.Telegram.RunMode)
	}
	if cfg.UI.Locale != "en" || cfg.UI.I18NFile != "i18n.yaml" || cfg.UI.PageSize != 5 {
		t.Errorf("ui defaults = %+v", cfg.UI)
	}
	if cfg.Book.MaxConnections != 2 {
		t.Errorf("max_connections = %d, want 2", cfg.Book.MaxConnections)
	}
}

func TestNormalizeRequiredFields(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.Token = ""
	if err := Normalize(cfg); err == nil {
		t.Error("missing token accepted")
	}

	cfg = validConfig()
	cfg.Book.URI = "  "
	if err := Normalize(cfg); err == nil {
		t.Error("missing book uri accepted")
	}
}

func TestNormalizeRunModes(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "polling" // accepted alias
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize(polling): %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Errorf("alias run_mode = %q", cfg.Telegram.RunMode)
	}

	cfg = validConfig()
	cfg.Telegram.RunMode = "webhook"
	if err := Normalize(cfg); err == nil {
		t.Error("webhook mode without url/listen/port accepted")
	}

	cfg = validConfig()
	cfg.Telegram.RunMode = "webhook"
	cfg.Webhook = WebhookConfig{URL: "https://bot.example.org/hook", Listen: "0.0.0.0", Port: 8443}
	if err := Normalize(cfg); err != nil {
		t.Errorf("valid webhook config rejected: %v", err)
	}

	cfg = validConfig()
	cfg.Telegram.RunMode = "carrier-pigeon"
	if err := Normalize(cfg); err == nil {
		t.Error("unknown run_mode accepted")
	}
}

func TestNormalizeRateLimitExclusions(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit.ExcludeUpdates = []string{" Callback ", "message"}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if cfg.RateLimit.ExcludeUpdates[0] != UpdateCallback {
		t.Errorf("exclusion not normalized: %q", cfg.RateLimit.ExcludeUpdates[0])
	}

	cfg = validConfig()
	cfg.RateLimit.ExcludeUpdates = []string{"inline_query"}
	if err := Normalize(cfg); err == nil {
		t.Error("unknown exclusion accepted")
	}
}
