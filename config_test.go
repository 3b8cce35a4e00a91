package texcache

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "texcache.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigPartial(t *testing.T) {
	path := writeConfig(t, `
asset_root = "assets"
hit_box_algorithm = "detailed"
weak_textures = true
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.AssetRoot != "assets" || cfg.HitBoxAlgorithm != "detailed" || !cfg.WeakTextures {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.HitBoxDetail != DefaultHitBoxDetail || cfg.Hash != "" {
		t.Errorf("missing keys should keep defaults: %+v", cfg)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "none.toml")); !errors.Is(err, ErrInvalidConfig) || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file err = %v", err)
	}
	if _, err := LoadConfig(writeConfig(t, "hit_box_detail = \"lots\"")); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("bad type err = %v", err)
	}
	if _, err := LoadConfig(writeConfig(t, "[unterminated")); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("bad toml err = %v", err)
	}
}

func TestConfigApplyEnv(t *testing.T) {
	t.Setenv("TEXCACHE_HIT_BOX_ALGORITHM", "bounding")
	t.Setenv("TEXCACHE_HIT_BOX_DETAIL", "2.5")
	t.Setenv("TEXCACHE_WEAK_IMAGES", "true")
	t.Setenv("TEXCACHE_HASH", "blake2b")

	cfg := DefaultConfig()
	cfg.AssetRoot = "kept"
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatal(err)
	}
	if cfg.HitBoxAlgorithm != "bounding" || cfg.HitBoxDetail != 2.5 || !cfg.WeakImages || cfg.Hash != "blake2b" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.AssetRoot != "kept" {
		t.Errorf("unset variable overwrote AssetRoot: %q", cfg.AssetRoot)
	}
}

func TestConfigApplyEnvInvalid(t *testing.T) {
	t.Setenv("TEXCACHE_HIT_BOX_DETAIL", "plenty")
	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("err = %v", err)
	}
}

func TestConfigAlgorithm(t *testing.T) {
	tests := []struct {
		name, algo string
		detail     float64
		wantName   string
		wantParams string
	}{
		{"default", "", 4.5, "simple", ""},
		{"bounding", "bounding", 4.5, "bounding", ""},
		{"detailed", "detailed", 1.25, "detailed", "detail=1.25"},
		{"detailed zero", "detailed", 0, "detailed", "detail=0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.HitBoxAlgorithm = tt.algo
			cfg.HitBoxDetail = tt.detail
			a, err := cfg.Algorithm()
			if err != nil {
				t.Fatal(err)
			}
			if a.Name() != tt.wantName || a.ParamString() != tt.wantParams {
				t.Errorf("got %s %q", a.Name(), a.ParamString())
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config: %v", err)
	}
	cfg.Hash = ""
	if err := cfg.Validate(); err != nil {
		t.Errorf("empty hash should be allowed: %v", err)
	}
	cfg.Hash = "crc32"
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("err = %v", err)
	}
}
