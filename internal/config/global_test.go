package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGlobalConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	if got, want := GlobalConfigPath(), "/custom/config/bibstat/config.yml"; got != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", got, want)
	}

	// Empty XDG_CONFIG_HOME falls back to ~/.config
	t.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}
	if got, want := GlobalConfigPath(), filepath.Join(home, ".config", "bibstat", "config.yml"); got != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", got, want)
	}
}

func TestLoadGlobalConfig_NotFound(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}
	if cfg.DefaultRoot != "" {
		t.Errorf("DefaultRoot = %q, want empty", cfg.DefaultRoot)
	}
	if got := GetDefaultRoot(); got != "" {
		t.Errorf("GetDefaultRoot() = %q, want empty", got)
	}
}

func writeGlobalConfig(t *testing.T, content string) {
	t.Helper()
	tmpDir := t.TempDir()
	configDir := filepath.Join(tmpDir, GlobalConfigDir)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(configDir, GlobalConfigFile), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
}

func TestLoadGlobalConfig_Valid(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()
	writeGlobalConfig(t, "default_root: ~/analyses/glp1\n")

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}

	// Tilde is expanded
	home, _ := os.UserHomeDir()
	want := filepath.Join(home, "analyses/glp1")
	if cfg.DefaultRoot != want {
		t.Errorf("DefaultRoot = %q, want %q", cfg.DefaultRoot, want)
	}
	if got := GetDefaultRoot(); got != want {
		t.Errorf("GetDefaultRoot() = %q, want %q", got, want)
	}
}

func TestLoadGlobalConfig_InvalidYAML(t *testing.T) {
	ResetGlobalConfigCache()
	defer ResetGlobalConfigCache()
	writeGlobalConfig(t, "default_root: [unclosed\n")

	if _, err := LoadGlobalConfig(); err == nil {
		t.Error("LoadGlobalConfig() should return error for invalid YAML")
	}
	if got := GetDefaultRoot(); got != "" {
		t.Errorf("GetDefaultRoot() = %q, want empty on error", got)
	}
}

func TestHelpfulConfigMessage(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	msg := HelpfulConfigMessage()
	for _, want := range []string{"bibstat init", RootEnv, "/custom/config/bibstat/config.yml", "default_root"} {
		if !strings.Contains(msg, want) {
			t.Errorf("HelpfulConfigMessage() missing %q:\n%s", want, msg)
		}
	}
}
