package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ChamsBouzaiene/crucible/internal/sandbox"
)

func boolPtr(b bool) *bool { return &b }
func intPtr(n int) *int    { return &n }

func TestApplyOverlaysSetFields(t *testing.T) {
	base := sandbox.DefaultConfig()
	cfg := &Config{
		MemoryLimit:   "1g",
		Timeout:       intPtr(120),
		NetworkAccess: boolPtr(true),
		EnableBash:    boolPtr(false),
	}

	got := cfg.Apply(base)

	if got.MemoryLimit != "1g" {
		t.Errorf("MemoryLimit = %q", got.MemoryLimit)
	}
	if got.Timeout != 120 {
		t.Errorf("Timeout = %d", got.Timeout)
	}
	if !got.NetworkAccess {
		t.Error("NetworkAccess not applied")
	}
	if got.EnableBash {
		t.Error("explicit false not applied")
	}
	// Unset fields keep their defaults.
	if got.PythonImage != base.PythonImage {
		t.Errorf("PythonImage changed to %q", got.PythonImage)
	}
	if got.CommandTimeout != base.CommandTimeout {
		t.Errorf("CommandTimeout changed to %d", got.CommandTimeout)
	}
}

func TestLoadMissingFile(t *testing.T) {
	mgr := NewManagerAt(t.TempDir())

	cfg, err := mgr.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MemoryLimit != "" || cfg.Timeout != nil {
		t.Errorf("missing file should yield empty config, got %+v", cfg)
	}
	if mgr.Exists() {
		t.Error("Exists() true before save")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	mgr := NewManagerAt(t.TempDir())

	in := &Config{
		AlpineImage:   "alpine:3.20",
		CPULimit:      func() *float64 { f := 0.5; return &f }(),
		NetworkAccess: boolPtr(true),
		LogLevel:      "debug",
	}
	if err := mgr.Save(in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !mgr.Exists() {
		t.Fatal("Exists() false after save")
	}

	out, err := mgr.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.AlpineImage != "alpine:3.20" || out.LogLevel != "debug" {
		t.Errorf("round trip lost fields: %+v", out)
	}
	if out.CPULimit == nil || *out.CPULimit != 0.5 {
		t.Errorf("CPULimit = %v", out.CPULimit)
	}
	if out.NetworkAccess == nil || !*out.NetworkAccess {
		t.Errorf("NetworkAccess = %v", out.NetworkAccess)
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	mgr := NewManagerAt(dir)
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := mgr.Load(); err == nil {
		t.Error("expected parse error")
	}
}
