package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// resetFlags gives each test a fresh flag set and viper instance
func resetFlags() {
	pflag.CommandLine = pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)
	viper.Reset()
}

func clearEnvVars() {
	for _, name := range []string{
		"MODE", "HOST", "PORT", "DIR", "ENDPOINT", "TIMEOUT", "ENV_FILE", "LOG_LEVEL", "MAX_DOCUMENT_SIZE",
	} {
		os.Unsetenv(EnvPrefix + "_" + name)
	}
}

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	originalArgs := os.Args
	t.Cleanup(func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	})
	os.Args = append([]string{"mcp-kv-entities"}, args...)
	resetFlags()
	clearEnvVars()
}

func TestLoadFromFlags_DefaultConfig(t *testing.T) {
	withArgs(t)

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.Mode != "stdio" {
		t.Errorf("LoadFromFlags() Mode = %v, want %v", cfg.Mode, "stdio")
	}
	if cfg.Port != 8080 {
		t.Errorf("LoadFromFlags() Port = %v, want %v", cfg.Port, 8080)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LoadFromFlags() LogLevel = %v, want %v", cfg.LogLevel, "info")
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("LoadFromFlags() Timeout = %v, want %v", cfg.Timeout, DefaultTimeout)
	}
	if !filepath.IsAbs(cfg.DocumentDirectory) {
		t.Errorf("LoadFromFlags() DocumentDirectory should be absolute, got %s", cfg.DocumentDirectory)
	}
}

func TestLoadFromFlags_ValidFlags(t *testing.T) {
	dir := t.TempDir()
	withArgs(t,
		"--mode=server",
		"--host=0.0.0.0",
		"--port=9090",
		"--dir="+dir,
		"--endpoint=https://example.com/doc",
		"--timeout=5s",
		"--log-level=debug",
		"--max-document-size=4096",
	)

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.Mode != "server" || cfg.Host != "0.0.0.0" || cfg.Port != 9090 {
		t.Errorf("LoadFromFlags() server settings = %s", cfg)
	}
	if cfg.Endpoint != "https://example.com/doc" {
		t.Errorf("LoadFromFlags() Endpoint = %v", cfg.Endpoint)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("LoadFromFlags() Timeout = %v", cfg.Timeout)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LoadFromFlags() LogLevel = %v", cfg.LogLevel)
	}
	if cfg.MaxDocumentSize != 4096 {
		t.Errorf("LoadFromFlags() MaxDocumentSize = %v", cfg.MaxDocumentSize)
	}
}

func TestLoadFromFlags_EnvironmentVariables(t *testing.T) {
	dir := t.TempDir()
	withArgs(t)

	os.Setenv("KV_ENTITIES_MODE", "server")
	os.Setenv("KV_ENTITIES_PORT", "3000")
	os.Setenv("KV_ENTITIES_DIR", dir)
	os.Setenv("KV_ENTITIES_LOG_LEVEL", "warn")
	os.Setenv("KV_ENTITIES_TIMEOUT", "45s")
	os.Setenv("KV_ENTITIES_MAX_DOCUMENT_SIZE", "2048")

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.Mode != "server" {
		t.Errorf("LoadFromFlags() Mode = %v, want server", cfg.Mode)
	}
	if cfg.Port != 3000 {
		t.Errorf("LoadFromFlags() Port = %v, want 3000", cfg.Port)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LoadFromFlags() LogLevel = %v, want warn", cfg.LogLevel)
	}
	if cfg.Timeout != 45*time.Second {
		t.Errorf("LoadFromFlags() Timeout = %v, want 45s", cfg.Timeout)
	}
	if cfg.MaxDocumentSize != 2048 {
		t.Errorf("LoadFromFlags() MaxDocumentSize = %v, want 2048", cfg.MaxDocumentSize)
	}
}

func TestLoadFromFlags_FlagOverridesEnvironment(t *testing.T) {
	withArgs(t, "--mode=stdio", "--port=8888")

	os.Setenv("KV_ENTITIES_MODE", "server")
	os.Setenv("KV_ENTITIES_PORT", "3000")

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.Mode != "stdio" {
		t.Errorf("LoadFromFlags() Mode = %v, want stdio (should override env)", cfg.Mode)
	}
	if cfg.Port != 8888 {
		t.Errorf("LoadFromFlags() Port = %v, want 8888 (should override env)", cfg.Port)
	}
}

func TestLoadFromFlags_EnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	content := "KV_ENTITIES_ENDPOINT=https://example.com/from-env-file\nKV_ENTITIES_LOG_LEVEL=error\n"
	if err := os.WriteFile(envFile, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}
	withArgs(t, "--env-file="+envFile)

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.Endpoint != "https://example.com/from-env-file" {
		t.Errorf("LoadFromFlags() Endpoint = %v", cfg.Endpoint)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LoadFromFlags() LogLevel = %v", cfg.LogLevel)
	}
}

func TestLoadFromFlags_MissingEnvFile(t *testing.T) {
	withArgs(t, "--env-file=/non/existent/.env")

	if _, err := LoadFromFlags(); err == nil {
		t.Error("LoadFromFlags() expected error for missing env file")
	}
}

func TestLoadFromFlags_InvalidMode(t *testing.T) {
	withArgs(t, "--mode=invalid")

	if _, err := LoadFromFlags(); err == nil {
		t.Error("LoadFromFlags() expected error for invalid mode")
	}
}
