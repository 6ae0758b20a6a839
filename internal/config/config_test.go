package config

import (
	"os"
	"path/filepath"
	"testing"

	"gls/internal/gitlab"
)

func TestWriteThenLoad(t *testing.T) {
	dir := t.TempDir()

	path, err := Write(dir, Config{
		APIURL:      "https://git.example.com/api/v4",
		IgnoreCert:  true,
		MaxRequests: 30,
	})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if filepath.Base(path) != FileBase+".json" {
		t.Errorf("path = %q", path)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIURL != "https://git.example.com/api/v4" {
		t.Errorf("api url = %q", cfg.APIURL)
	}
	if !cfg.IgnoreCert || cfg.MaxRequests != 30 {
		t.Errorf("ignore-cert = %v, max-requests = %d", cfg.IgnoreCert, cfg.MaxRequests)
	}
}

// Default values are not persisted; the file records deliberate choices
// only.
func TestWriteOmitsDefaults(t *testing.T) {
	dir := t.TempDir()

	path, err := Write(dir, Default())
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "{}\n" {
		t.Errorf("file = %q, want empty object", data)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("api url = %q", cfg.APIURL)
	}
	if cfg.MaxRequests != gitlab.DefaultMaxRequests {
		t.Errorf("max requests = %d", cfg.MaxRequests)
	}
}

func TestResolveTokenPrecedence(t *testing.T) {
	tokenFile := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(tokenFile, []byte("  file-token\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvToken, "env-token")

	got, err := ResolveToken("flag-token", tokenFile)
	if err != nil {
		t.Fatalf("ResolveToken: %v", err)
	}
	if got != "flag-token" {
		t.Errorf("token = %q, want flag value", got)
	}

	got, err = ResolveToken("", tokenFile)
	if err != nil {
		t.Fatalf("ResolveToken: %v", err)
	}
	if got != "file-token" {
		t.Errorf("token = %q, want trimmed file value", got)
	}

	got, err = ResolveToken("", "")
	if err != nil {
		t.Fatalf("ResolveToken: %v", err)
	}
	if got != "env-token" {
		t.Errorf("token = %q, want env value", got)
	}
}

func TestResolveTokenMissingFile(t *testing.T) {
	if _, err := ResolveToken("", filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("missing token file accepted")
	}
}

func TestResolveTokenUnset(t *testing.T) {
	t.Setenv(EnvToken, "")
	got, err := ResolveToken("", "")
	if err != nil {
		t.Fatalf("ResolveToken: %v", err)
	}
	if got != "" {
		t.Errorf("token = %q, want empty", got)
	}
}
