package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Server:   ServerConfig{Port: 8080, ReadTimeout: 10, WriteTimeout: 10},
		Database: DatabaseConfig{Host: "localhost", Port: 5432, User: "polymap", DBName: "polymap", SSLMode: "disable"},
		NATS:     NATSConfig{URL: "nats://localhost:4222", Enabled: true},
		Valkey:   ValkeyConfig{Addr: "localhost:6379", Enabled: true},
		Editor: EditorConfig{
			ClosureTolerance:  0.001,
			VertexTolerance:   0.001,
			SaveConcurrency:   8,
			DefaultObjectType: "Marker",
		},
		Log: LogConfig{Level: "info", Format: "json"},
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	cfg.Database.Host = ""
	cfg.Editor.ClosureTolerance = 0
	cfg.Gateway.BaseURL = "ftp://elsewhere"
	cfg.Log.Format = "xml"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected an error")
	}
	for _, field := range []string{"server.port", "database.host", "editor.closure_tolerance", "gateway.base_url", "log.format"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("expected %s to be reported, got:\n%v", field, err)
		}
	}
}

func TestValidate_OptionalServices(t *testing.T) {
	cfg := validConfig()
	cfg.NATS = NATSConfig{Enabled: false}
	cfg.Valkey = ValkeyConfig{Enabled: false}
	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled services need no address: %v", err)
	}

	cfg.Telemetry = TelemetryConfig{Enabled: true}
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "telemetry.otlp_endpoint") {
		t.Errorf("expected otlp endpoint to be required, got %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("polymap-test")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 8080 || cfg.Database.DBName != "polymap" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.Telemetry.ServiceName != "polymap-test" {
		t.Errorf("service name should default to the caller's, got %q", cfg.Telemetry.ServiceName)
	}
	if cfg.Gateway.Timeout != 10*time.Second {
		t.Errorf("expected 10s gateway timeout, got %v", cfg.Gateway.Timeout)
	}
	if cfg.Editor.DefaultPolygonName != "Polygon" {
		t.Errorf("unexpected default polygon name %q", cfg.Editor.DefaultPolygonName)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("POLYMAP_SERVER_PORT", "9090")
	t.Setenv("POLYMAP_DATABASE_HOST", "db.internal")
	t.Setenv("POLYMAP_EDITOR_SAVE_CONCURRENCY", "3")

	cfg, err := Load("polymap-test")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("expected db.internal, got %q", cfg.Database.Host)
	}
	if cfg.Editor.SaveConcurrency != 3 {
		t.Errorf("expected save concurrency 3, got %d", cfg.Editor.SaveConcurrency)
	}
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("POLYMAP_SERVER_PORT", "70000")
	t.Setenv("POLYMAP_LOG_FORMAT", "xml")

	_, err := Load("polymap-test")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "server.port") || !strings.Contains(err.Error(), "log.format") {
		t.Errorf("expected both problems reported, got %v", err)
	}
}
