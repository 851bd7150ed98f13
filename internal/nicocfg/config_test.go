package nicocfg

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(filepath.Join(dir, "main.nico"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()

	yamlText := "unsafe: true\nrecoverablePanics: true\ntabWidth: 2\n"
	if err := os.WriteFile(filepath.Join(dir, "nico.yaml"), []byte(yamlText), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(filepath.Join(dir, "main.nico"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := Config{Unsafe: true, RecoverablePanics: true, TabWidth: 2}
	if cfg != want {
		t.Fatalf("expected %+v, got %+v", want, cfg)
	}
}

func TestLoadDotNicoYAMLFallback(t *testing.T) {
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, ".nico.yaml"), []byte("tabWidth: 8\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(filepath.Join(dir, "main.nico"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.TabWidth != 8 {
		t.Fatalf("expected tabWidth 8, got %d", cfg.TabWidth)
	}
}

func TestEnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "nico.yaml"), []byte("unsafe: false\ntabWidth: 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("NICO_UNSAFE", "true")
	t.Setenv("NICO_TAB_WIDTH", "16")

	cfg, err := Load(filepath.Join(dir, "main.nico"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !cfg.Unsafe {
		t.Fatalf("expected NICO_UNSAFE to override yaml false, got %+v", cfg)
	}

	if cfg.TabWidth != 16 {
		t.Fatalf("expected NICO_TAB_WIDTH to override yaml 4, got %d", cfg.TabWidth)
	}
}
