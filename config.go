package texcache

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// Config controls a CacheManager. Load it from TOML with LoadConfig,
// overlay TEXCACHE_* environment variables with ApplyEnv, or fill it in
// directly starting from DefaultConfig.
type Config struct {
	// AssetRoot is joined onto relative load paths.
	AssetRoot string `toml:"asset_root" envconfig:"ASSET_ROOT"`

	// HitBoxAlgorithm names the default algorithm: "bounding", "simple",
	// "detailed" or any registered name.
	HitBoxAlgorithm string `toml:"hit_box_algorithm" envconfig:"HIT_BOX_ALGORITHM"`
	// HitBoxDetail is the detailed algorithm's tolerance in pixels.
	HitBoxDetail float64 `toml:"hit_box_detail" envconfig:"HIT_BOX_DETAIL"`

	// Hash selects the content hash: "sha256" or "blake2b". It replaces
	// the process-wide hash function, so set it only when no records exist
	// yet. Empty, the default, leaves the current function alone.
	Hash string `toml:"hash" envconfig:"HASH"`

	// Weak* store the matching cache's entries weakly, so they are dropped
	// once no texture refers to them.
	WeakImages   bool `toml:"weak_images" envconfig:"WEAK_IMAGES"`
	WeakTextures bool `toml:"weak_textures" envconfig:"WEAK_TEXTURES"`
	WeakHitBoxes bool `toml:"weak_hit_boxes" envconfig:"WEAK_HIT_BOXES"`

	// HitBoxCacheFile is loaded on startup when it exists and written by
	// SaveHitBoxes. A ".gz" suffix selects gzip.
	HitBoxCacheFile string `toml:"hit_box_cache_file" envconfig:"HIT_BOX_CACHE_FILE"`

	// Watch reloads files that change on disk; see CacheManager.ProcessReloads.
	Watch bool `toml:"watch" envconfig:"WATCH"`
	// Debug enables debug logging.
	Debug bool `toml:"debug" envconfig:"DEBUG"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		HitBoxAlgorithm: "simple",
		HitBoxDetail:    DefaultHitBoxDetail,
	}
}

// LoadConfig reads a TOML file over DefaultConfig. Keys missing from the
// file keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("%w: read %s: %w", ErrInvalidConfig, path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: parse %s: %w", ErrInvalidConfig, path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from TEXCACHE_* environment variables, e.g.
// TEXCACHE_HIT_BOX_ALGORITHM. Unset variables leave fields unchanged.
func (c *Config) ApplyEnv() error {
	if err := envconfig.Process("TEXCACHE", c); err != nil {
		return fmt.Errorf("%w: environment: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Validate checks names and numeric ranges.
func (c Config) Validate() error {
	if _, err := c.Algorithm(); err != nil {
		return err
	}
	if c.Hash == "" {
		return nil
	}
	_, err := HashFuncByName(c.Hash)
	return err
}

// Algorithm builds the configured default hit-box algorithm.
func (c Config) Algorithm() (HitBoxAlgorithm, error) {
	if c.HitBoxDetail < 0 || math.IsNaN(c.HitBoxDetail) || math.IsInf(c.HitBoxDetail, 0) {
		return nil, fmt.Errorf("%w: hit_box_detail %v", ErrInvalidConfig, c.HitBoxDetail)
	}
	name := c.HitBoxAlgorithm
	if name == "" {
		name = DefaultHitBoxAlgorithm.Name()
	}
	var params map[string]string
	if name == "detailed" {
		params = map[string]string{"detail": strconv.FormatFloat(c.HitBoxDetail, 'f', -1, 64)}
	}
	return NewHitBoxAlgorithm(name, params)
}
