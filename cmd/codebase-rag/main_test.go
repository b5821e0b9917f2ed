package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBuildChatQuery(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"single arg", []string{"question"}, "question"},
		{"multi word", []string{"what", "does", "Button", "do"}, "what does Button do"},
		{"pre-quoted", []string{"what does Button do"}, "what does Button do"},
		{"empty", nil, ""},
		{"whitespace only", []string{" ", ""}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildChatQuery(tt.args); got != tt.want {
				t.Errorf("buildChatQuery(%v) = %q, want %q", tt.args, got, tt.want)
			}
		})
	}
}

func TestLoadConfig_prefersCwdConfigWhenDefaultPath(t *testing.T) {
	dir := t.TempDir()
	content := "server:\n  port: 9999\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(cwd)

	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("port = %d, want 9999 from cwd config", cfg.Server.Port)
	}
	if filepath.Base(resolved) != "config.yaml" {
		t.Errorf("resolved path = %q", resolved)
	}
}

func TestLoadConfig_fallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(cwd)

	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != "" {
		t.Errorf("resolved = %q, want empty for built-in defaults", resolved)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("default port = %d, want 8000", cfg.Server.Port)
	}
}

func TestLoadConfig_usesExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 7070\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, resolved, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("port = %d, want 7070", cfg.Server.Port)
	}
	if resolved != path {
		t.Errorf("resolved = %q, want %q", resolved, path)
	}
}

func TestLoadConfig_explicitMissingPathErrors(t *testing.T) {
	if _, _, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("explicit missing config path should fail")
	}
}
