package texcache

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"path/filepath"
)

// Option configures a CacheManager.
type Option func(*managerOptions)

type managerOptions struct {
	decoder Decoder
}

// WithDecoder replaces the FileDecoder used to read image files.
func WithDecoder(d Decoder) Option {
	return func(o *managerOptions) {
		if d != nil {
			o.decoder = d
		}
	}
}

// LoadOptions selects a sub-rectangle and hit-box algorithm for
// CacheManager.LoadTexture. The zero value loads the whole file with the
// manager's default algorithm.
type LoadOptions struct {
	// Crop is in source pixels. The zero Rect and the full image rectangle
	// both mean the whole file.
	Crop Rect
	// HitBoxAlgorithm overrides the configured default when non-nil.
	HitBoxAlgorithm HitBoxAlgorithm
}

// CacheManager owns the image, texture and hit-box caches and the load
// path that fills them. It is meant to be used from one goroutine.
type CacheManager struct {
	cfg     Config
	algo    HitBoxAlgorithm
	decoder Decoder

	images   *ImageCache
	textures *TextureCache
	hitBoxes *HitBoxCache

	watcher *Watcher
	watched map[string]string // absolute path -> cache key path
}

// NewCacheManager validates cfg and returns an empty manager. A non-empty
// cfg.Hash replaces the process-wide hash function; the default empty
// value keeps whatever SetHashFunc installed. When
// cfg.HitBoxCacheFile exists it is loaded.
func NewCacheManager(cfg Config, opts ...Option) (*CacheManager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	algo, err := cfg.Algorithm()
	if err != nil {
		return nil, err
	}
	o := managerOptions{decoder: FileDecoder{}}
	for _, opt := range opts {
		opt(&o)
	}
	if cfg.Hash != "" {
		fn, _ := HashFuncByName(cfg.Hash)
		SetHashFunc(fn)
	}
	if cfg.Debug {
		SetDebug(true)
	}

	m := &CacheManager{
		cfg:      cfg,
		algo:     algo,
		decoder:  o.decoder,
		images:   NewImageCache(),
		textures: NewTextureCache(),
		hitBoxes: NewHitBoxCache(),
		watched:  make(map[string]string),
	}
	if cfg.HitBoxCacheFile != "" {
		if err := m.hitBoxes.Load(cfg.HitBoxCacheFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	if cfg.Watch {
		w, err := NewWatcher()
		if err != nil {
			return nil, err
		}
		m.watcher = w
	}
	logger().Debug("cache manager ready", "algorithm", algo.Name(), "hash", cfg.Hash, "watch", cfg.Watch)
	return m, nil
}

// Config returns the configuration the manager was built with.
func (m *CacheManager) Config() Config { return m.cfg }

// HitBoxAlgorithm returns the default algorithm.
func (m *CacheManager) HitBoxAlgorithm() HitBoxAlgorithm { return m.algo }

// Images returns the image cache.
func (m *CacheManager) Images() *ImageCache { return m.images }

// Textures returns the texture cache.
func (m *CacheManager) Textures() *TextureCache { return m.textures }

// HitBoxes returns the hit-box cache.
func (m *CacheManager) HitBoxes() *HitBoxCache { return m.hitBoxes }

// Watcher returns the file watcher, or nil when Watch is off.
func (m *CacheManager) Watcher() *Watcher { return m.watcher }

func (m *CacheManager) resolve(path string) string {
	if m.cfg.AssetRoot != "" && !filepath.IsAbs(path) {
		path = filepath.Join(m.cfg.AssetRoot, path)
	}
	return filepath.Clean(path)
}

// source returns the whole-file record for path, decoding it on a miss.
// A decoded record is not cached yet.
func (m *CacheManager) source(path string) (*ImageRecord, error) {
	if img, ok := m.images.Get(path); ok {
		logger().Debug("image cache hit", "key", path)
		return img, nil
	}
	logger().Debug("image cache miss", "key", path)
	px, err := m.decoder.Decode(path)
	if err != nil {
		return nil, err
	}
	img, err := NewImageRecord(px)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	return img, nil
}

func (m *CacheManager) track(path string) error {
	if m.watcher == nil {
		return nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("texcache: watch %s: %w", path, err)
	}
	if err := m.watcher.Track(abs); err != nil {
		return err
	}
	m.watched[abs] = path
	return nil
}

// keepSource watches path and caches its whole-file record.
func (m *CacheManager) keepSource(path string, src *ImageRecord) error {
	if err := m.track(path); err != nil {
		return err
	}
	m.images.Put(path, src, !m.cfg.WeakImages)
	return nil
}

// newTexture builds an unrotated texture owned by m and caches it.
func (m *CacheManager) newTexture(img *ImageRecord, algo HitBoxAlgorithm) *Texture {
	t := newTexture(img, algo, OrderIdentity, m)
	m.textures.Put(t, !m.cfg.WeakTextures)
	logger().Debug("texture created", "key", t.CacheName())
	return t
}

func (m *CacheManager) textureFor(img *ImageRecord, algo HitBoxAlgorithm) *Texture {
	if t, ok := m.textures.GetWithConfig(img.Hash(), algo); ok {
		logger().Debug("texture cache hit", "key", t.CacheName())
		return t
	}
	return m.newTexture(img, algo)
}

// LoadImage returns the record for path, or for a sub-rectangle of it.
// Records are cached under the path, or "path|x,y,w,h" for crops.
func (m *CacheManager) LoadImage(path string, crop Rect) (*ImageRecord, error) {
	p := m.resolve(path)
	src, err := m.source(p)
	if err != nil {
		return nil, err
	}
	if crop.isNoop() || crop.covers(src.Size()) {
		if err := m.keepSource(p, src); err != nil {
			return nil, err
		}
		return src, nil
	}
	if err := crop.within(src.Size()); err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	if err := m.track(p); err != nil {
		return nil, err
	}
	return m.cropImage(p, src, crop)
}

// cropImage validates crop before caching anything.
func (m *CacheManager) cropImage(path string, src *ImageRecord, crop Rect) (*ImageRecord, error) {
	if err := crop.within(src.Size()); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	key := path + "|" + crop.String()
	img, ok := m.images.Get(key)
	if !ok {
		var err error
		if img, err = src.crop(crop); err != nil {
			return nil, err
		}
	}
	m.images.Put(path, src, !m.cfg.WeakImages)
	if !ok {
		m.images.Put(key, img, !m.cfg.WeakImages)
	}
	return img, nil
}

// LoadTexture returns a texture for the file at path. Loading the same
// whole file again returns the same object through the file index, and a
// crop covering the whole image counts as a whole-file load. Failures
// leave every cache untouched.
func (m *CacheManager) LoadTexture(path string, opts LoadOptions) (*Texture, error) {
	p := m.resolve(path)
	algo := opts.HitBoxAlgorithm
	if algo == nil {
		algo = m.algo
	}
	src, err := m.source(p)
	if err != nil {
		return nil, err
	}

	if opts.Crop.isNoop() || opts.Crop.covers(src.Size()) {
		if err := m.keepSource(p, src); err != nil {
			return nil, err
		}
		if t, ok := m.textures.GetFile(p); ok && sameAlgorithm(t.algo, algo) {
			logger().Debug("file index hit", "path", p)
			return t, nil
		}
		t := m.textureFor(src, algo)
		if _, ok := m.textures.GetFile(p); !ok {
			m.textures.PutFile(p, t, !m.cfg.WeakTextures)
		}
		return t, nil
	}

	if err := opts.Crop.within(src.Size()); err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	if err := m.track(p); err != nil {
		return nil, err
	}
	img, err := m.cropImage(p, src, opts.Crop)
	if err != nil {
		return nil, err
	}
	return m.textureFor(img, algo), nil
}

// TextureFromImage wraps generated pixels in a cached texture. The record
// is also cached under its hash, so crops of it share entries.
func (m *CacheManager) TextureFromImage(img image.Image, algo HitBoxAlgorithm) (*Texture, error) {
	rec, err := NewImageRecord(img)
	if err != nil {
		return nil, err
	}
	return m.TextureFromRecord(rec, algo)
}

// TextureFromRecord returns the cached unrotated texture for rec.
func (m *CacheManager) TextureFromRecord(rec *ImageRecord, algo HitBoxAlgorithm) (*Texture, error) {
	if rec == nil {
		return nil, fmt.Errorf("%w: nil image record", ErrInvalidConfig)
	}
	if err := rec.valid(); err != nil {
		return nil, err
	}
	if algo == nil {
		algo = m.algo
	}
	if !m.images.Has(rec.Hash()) {
		m.images.Put(rec.Hash(), rec, !m.cfg.WeakImages)
	}
	return m.textureFor(rec, algo), nil
}

// Adopt returns m's texture with the same cache name as t, creating it
// from t when m has none. Standalone textures from NewTexture become
// cache-aware this way.
func (m *CacheManager) Adopt(t *Texture) *Texture {
	if t == nil || t.mgr == m {
		return t
	}
	if c, ok := m.textures.Get(t.CacheName()); ok {
		return c
	}
	nt := newTexture(t.image, t.algo, t.order, m)
	nt.hitBox = t.hitBox
	m.textures.Put(nt, !m.cfg.WeakTextures)
	return nt
}

// Crop crops t through m's caches. See Texture.Crop.
func (m *CacheManager) Crop(t *Texture, r Rect) (*Texture, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil texture", ErrInvalidConfig)
	}
	return m.Adopt(t).Crop(r.X, r.Y, r.Width, r.Height)
}

// Invalidate forgets the file at path: its whole-file and crop image
// entries and its file index entry. Textures and hit boxes are keyed by
// content, so entries for unchanged pixels stay valid.
func (m *CacheManager) Invalidate(path string) {
	p := m.resolve(path)
	n := m.images.s.deletePrefix(p, "|")
	m.textures.DeleteFile(p)
	logger().Debug("invalidated", "path", p, "images", n)
}

// ProcessReloads invalidates every watched file that changed since the
// last call and returns their cache paths. Call it from the update loop.
// It does nothing when Watch is off.
func (m *CacheManager) ProcessReloads() []string {
	if m.watcher == nil {
		return nil
	}
	changed := m.watcher.Drain()
	out := make([]string, 0, len(changed))
	for _, abs := range changed {
		p, ok := m.watched[abs]
		if !ok {
			p = abs
		}
		m.Invalidate(p)
		out = append(out, p)
	}
	if len(out) > 0 {
		logger().Info("reloaded", "files", len(out))
	}
	return out
}

// Flush empties every cache. Counters held by an Atlas are not touched.
func (m *CacheManager) Flush() {
	m.images.Clear()
	m.textures.Clear()
	m.hitBoxes.Clear()
	logger().Debug("caches flushed")
}

// SaveHitBoxes writes the hit-box cache to path, or to
// Config.HitBoxCacheFile when path is empty.
func (m *CacheManager) SaveHitBoxes(path string) error {
	if path == "" {
		path = m.cfg.HitBoxCacheFile
	}
	if path == "" {
		return fmt.Errorf("%w: no hit-box cache file", ErrInvalidConfig)
	}
	return m.hitBoxes.Save(path)
}

// LoadHitBoxes imports a file written by SaveHitBoxes, or
// Config.HitBoxCacheFile when path is empty.
func (m *CacheManager) LoadHitBoxes(path string) error {
	if path == "" {
		path = m.cfg.HitBoxCacheFile
	}
	if path == "" {
		return fmt.Errorf("%w: no hit-box cache file", ErrInvalidConfig)
	}
	return m.hitBoxes.Load(path)
}

// Close stops the watcher and saves the hit-box cache when
// Config.HitBoxCacheFile is set.
func (m *CacheManager) Close() error {
	var errs []error
	if m.watcher != nil {
		errs = append(errs, m.watcher.Close())
		m.watcher = nil
	}
	if m.cfg.HitBoxCacheFile != "" {
		if err := m.hitBoxes.Save(m.cfg.HitBoxCacheFile); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
