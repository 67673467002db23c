package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/deckcodec/export"
)

// isolate points the search paths at empty directories.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "warn" || cfg.Log.Format != "text" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Import.Workers < 1 {
		t.Errorf("Import.Workers = %d", cfg.Import.Workers)
	}
	if cfg.Export.Author != export.DefaultAuthor {
		t.Errorf("Export.Author = %q, want %q", cfg.Export.Author, export.DefaultAuthor)
	}
	if cfg.File != "" {
		t.Errorf("File = %q, want none", cfg.File)
	}
}

func TestLoad_SearchPath(t *testing.T) {
	dir := isolate(t)
	content := "log:\n  level: debug\n  format: json\nimport:\n  workers: 3\nexport:\n  author: Ops Team\n"
	if err := os.WriteFile(filepath.Join(dir, "deckcodec.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Import.Workers != 3 {
		t.Errorf("Import.Workers = %d, want 3", cfg.Import.Workers)
	}
	if cfg.Export.Author != "Ops Team" {
		t.Errorf("Export.Author = %q", cfg.Export.Author)
	}
	if !strings.HasSuffix(cfg.File, "deckcodec.yaml") {
		t.Errorf("File = %q", cfg.File)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := isolate(t)
	if err := os.WriteFile(filepath.Join(dir, "deckcodec.yaml"), []byte("import:\n  workers: 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DECKCODEC_IMPORT_WORKERS", "7")
	t.Setenv("DECKCODEC_LOG_LEVEL", "error")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Import.Workers != 7 {
		t.Errorf("Import.Workers = %d, want 7", cfg.Import.Workers)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("Log.Level = %q, want error", cfg.Log.Level)
	}
}

func TestLoad_ExplicitPath(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("export:\n  workers: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) error = %v", path, err)
	}
	if cfg.Export.Workers != 2 {
		t.Errorf("Export.Workers = %d, want 2", cfg.Export.Workers)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() with a missing explicit path expected error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"ok", Config{Log: LogConfig{Format: "JSON"}, Import: ImportConfig{Workers: 1}, Export: ExportConfig{Workers: 1}}, ""},
		{"import workers", Config{Log: LogConfig{Format: "text"}, Export: ExportConfig{Workers: 1}}, "import.workers"},
		{"export workers", Config{Log: LogConfig{Format: "text"}, Import: ImportConfig{Workers: 1}}, "export.workers"},
		{"format", Config{Log: LogConfig{Format: "xml"}, Import: ImportConfig{Workers: 1}, Export: ExportConfig{Workers: 1}}, "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Logging(t *testing.T) {
	cfg := Config{Log: LogConfig{Level: "debug", Format: "json"}}
	lc := cfg.Logging()
	if lc.Level != "debug" || lc.Format != "json" || lc.Output != nil {
		t.Errorf("Logging() = %+v", lc)
	}
}
