package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vodpress/internal/config"
)

func TestLoadDefaultsAndExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantScratch := filepath.Join(tempHome, ".local", "share", "vodpress", "scratch")
	if cfg.Paths.ScratchDir != wantScratch {
		t.Fatalf("unexpected scratch dir: got %q want %q", cfg.Paths.ScratchDir, wantScratch)
	}
	if cfg.Paths.APIBind != "127.0.0.1:7512" {
		t.Fatalf("unexpected api bind: %q", cfg.Paths.APIBind)
	}
	if cfg.Storage.SourceBucket != "vodunprocessedgcp" {
		t.Fatalf("unexpected source bucket: %q", cfg.Storage.SourceBucket)
	}
	if cfg.Storage.DestinationBucket != "vodprocessedgcp" {
		t.Fatalf("unexpected destination bucket: %q", cfg.Storage.DestinationBucket)
	}
	if !cfg.Notify.Enabled {
		t.Fatal("expected notifications enabled by default")
	}
	if cfg.Notify.Topic != "verse-dev-433901-topic" {
		t.Fatalf("unexpected topic: %q", cfg.Notify.Topic)
	}
	if cfg.FFmpeg.Binary != "ffmpeg" {
		t.Fatalf("unexpected ffmpeg binary: %q", cfg.FFmpeg.Binary)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %q/%q", cfg.Logging.Format, cfg.Logging.Level)
	}
}

func TestLoadParsesConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.Join([]string{
		"[paths]",
		`scratch_dir = "` + filepath.Join(dir, "scratch") + `"`,
		`log_dir = "` + filepath.Join(dir, "logs") + `"`,
		"[storage]",
		`endpoint = "store.internal:9000"`,
		`source_bucket = "incoming"`,
		`destination_bucket = "processed"`,
		"[notify]",
		"enabled = false",
		"[ffmpeg]",
		"transcode_timeout = 120",
		"[logging]",
		`format = "json"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %q to be used, got %q exists=%v", path, resolved, exists)
	}
	if cfg.Storage.Endpoint != "store.internal:9000" {
		t.Fatalf("unexpected endpoint: %q", cfg.Storage.Endpoint)
	}
	if cfg.Notify.Enabled {
		t.Fatal("expected notifications disabled")
	}
	if cfg.FFmpeg.TranscodeTimeout != 120 {
		t.Fatalf("unexpected transcode timeout: %d", cfg.FFmpeg.TranscodeTimeout)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("unexpected log format: %q", cfg.Logging.Format)
	}
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{
			name:    "missing endpoint",
			mutate:  func(c *config.Config) { c.Storage.Endpoint = "" },
			wantErr: "storage.endpoint",
		},
		{
			name:    "same buckets",
			mutate:  func(c *config.Config) { c.Storage.DestinationBucket = c.Storage.SourceBucket },
			wantErr: "must differ",
		},
		{
			name: "notify enabled without addr",
			mutate: func(c *config.Config) {
				c.Notify.Enabled = true
				c.Notify.RedisAddr = ""
			},
			wantErr: "notify.redis_addr",
		},
		{
			name:    "negative timeout",
			mutate:  func(c *config.Config) { c.FFmpeg.TranscodeTimeout = -1 },
			wantErr: "transcode_timeout",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q does not mention %q", err.Error(), tc.wantErr)
			}
		})
	}
}

func TestSampleConfigParsesIntoDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.toml")
	if err := os.WriteFile(path, []byte(config.SampleConfig()), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config should load cleanly: %v", err)
	}
}
