package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("PREVIEW_TTL", "")
	t.Setenv("MAX_UPLOAD_MB", "")
	cfg, err := Load()
	if err == nil {
		t.Fatal("expected missing DATABASE_URL error")
	}
	if cfg.ListenAddr != ":8080" || cfg.PreviewTTL != 30*time.Minute || cfg.MaxUploadBytes() != 20<<20 {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/dashpmo")
	t.Setenv("PREVIEW_TTL", "5m")
	t.Setenv("STORE_TIMEOUT", "nonsense")
	t.Setenv("MAX_UPLOAD_MB", "3")
	t.Setenv("AMQP_QUEUE", "q")
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.PreviewTTL != 5*time.Minute || cfg.StoreTimeout != 10*time.Second || cfg.MaxUploadMB != 3 || cfg.AMQPQueue != "q" {
		t.Fatalf("cfg = %+v", cfg)
	}
}
