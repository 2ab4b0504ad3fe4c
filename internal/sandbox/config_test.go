package sandbox

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.PythonImage != "python:3.12-slim" {
		t.Errorf("PythonImage = %q", cfg.PythonImage)
	}
	if cfg.AlpineImage != "alpine:latest" {
		t.Errorf("AlpineImage = %q", cfg.AlpineImage)
	}
	if cfg.MemoryLimit != "512m" {
		t.Errorf("MemoryLimit = %q", cfg.MemoryLimit)
	}
	if cfg.Timeout != 30 || cfg.CommandTimeout != 25 {
		t.Errorf("timeouts = %d/%d, want 30/25", cfg.Timeout, cfg.CommandTimeout)
	}
	if cfg.NetworkAccess {
		t.Error("network access enabled by default")
	}
	if cfg.MaxOutputSize != 10*1024 {
		t.Errorf("MaxOutputSize = %d", cfg.MaxOutputSize)
	}
	if !cfg.NonRootUser || !cfg.EnablePython || !cfg.EnableBash {
		t.Error("boolean defaults wrong")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestDefaultConfigEnvOverrides(t *testing.T) {
	t.Setenv("CRUCIBLE_MEMORY_LIMIT", "1g")
	t.Setenv("CRUCIBLE_NETWORK_ACCESS", "true")
	t.Setenv("CRUCIBLE_TIMEOUT", "60")

	cfg := DefaultConfig()
	if cfg.MemoryLimit != "1g" {
		t.Errorf("MemoryLimit = %q, want env override", cfg.MemoryLimit)
	}
	if !cfg.NetworkAccess {
		t.Error("NetworkAccess not overridden")
	}
	if cfg.Timeout != 60 {
		t.Errorf("Timeout = %d, want 60", cfg.Timeout)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty image", func(c *Config) { c.PythonImage = "" }},
		{"bad memory", func(c *Config) { c.MemoryLimit = "a lot" }},
		{"zero cpu", func(c *Config) { c.CPULimit = 0 }},
		{"negative timeout", func(c *Config) { c.Timeout = -1 }},
		{"zero command timeout", func(c *Config) { c.CommandTimeout = 0 }},
		{"zero output size", func(c *Config) { c.MaxOutputSize = 0 }},
		{"bad encoding", func(c *Config) { c.OutputEncoding = "klingon" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestMemoryBytes(t *testing.T) {
	cfg := testConfig()
	if got := cfg.MemoryBytes(); got != 512*1024*1024 {
		t.Errorf("MemoryBytes() = %d", got)
	}
}

func TestResolveUser(t *testing.T) {
	tests := []struct {
		family  ImageFamily
		nonRoot bool
		want    string
	}{
		{FamilyInterpreter, true, "1000"},
		{FamilyInterpreter, false, ""},
		{FamilyBase, true, ""},
		{FamilyBase, false, ""},
	}
	for _, tt := range tests {
		if got := ResolveUser(tt.family, tt.nonRoot); got != tt.want {
			t.Errorf("ResolveUser(%s, %v) = %q, want %q", tt.family, tt.nonRoot, got, tt.want)
		}
	}
}

func TestNewRequestCarriesPolicy(t *testing.T) {
	cfg := testConfig()
	req := cfg.NewRequest(cfg.PythonImage, FamilyInterpreter,
		map[string]string{"main.py": "pass"}, []string{"python main.py"})

	if req.Image != cfg.PythonImage || req.Family != FamilyInterpreter {
		t.Errorf("request target = %s/%s", req.Image, req.Family)
	}
	if req.Memory != cfg.MemoryBytes() {
		t.Errorf("Memory = %d", req.Memory)
	}
	if req.Timeout != cfg.Timeout || req.CommandTimeout != cfg.CommandTimeout {
		t.Errorf("timeouts = %d/%d", req.Timeout, req.CommandTimeout)
	}
	if req.OutputEncoding != cfg.OutputEncoding || req.MaxOutputSize != cfg.MaxOutputSize {
		t.Error("output policy not carried")
	}
}
