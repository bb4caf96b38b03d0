package core

import (
	"os"
	"path/filepath"
	"testing"
)

func loadConfig(t *testing.T, content string) (Config, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return LoadConfigFile(path)
}

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig(t, `
nickname alice
username al
realname "Alice Example"
quit-message "gone fishing"
casemapping rfc1459
typings false
`)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Nick != "alice" || cfg.User != "al" || cfg.Real != "Alice Example" {
		t.Errorf("unexpected identity: %+v", cfg)
	}
	if cfg.QuitMessage != "gone fishing" || cfg.Casemapping != "rfc1459" || cfg.Typings {
		t.Errorf("unexpected settings: %+v", cfg)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(t, "nickname alice\n")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.User != "alice" || cfg.Real != "alice" {
		t.Errorf("expected username and realname to default to the nick: %+v", cfg)
	}
	if cfg.QuitMessage != "Leaving" || cfg.Casemapping != "ascii" || !cfg.Typings {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := loadConfig(t, "username al\n"); err == nil {
		t.Error("expected an error for a missing nickname")
	}
	if _, err := loadConfig(t, "nickname alice\ncasemapping upper\n"); err == nil {
		t.Error("expected an error for an unknown casemapping")
	}
	if _, err := loadConfig(t, "nickname alice\ncolor blue\n"); err == nil {
		t.Error("expected an error for an unknown directive")
	}
}
