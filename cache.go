package texcache

import (
	"slices"
	"strings"
	"weak"
)

// entry holds a value strongly, or weakly when strong is nil.
type entry[T any] struct {
	strong *T
	weak   weak.Pointer[T]
}

func (e entry[T]) value() *T {
	if e.strong != nil {
		return e.strong
	}
	return e.weak.Value()
}

// store is a string-keyed map of strong or weak pointers. Weak entries
// whose value was collected are dropped the next time they are touched.
// There are no finalizers: nothing outside the owning goroutine ever
// mutates a store.
type store[T any] struct {
	m map[string]entry[T]
}

func newStore[T any]() store[T] {
	return store[T]{m: make(map[string]entry[T])}
}

func (s *store[T]) put(key string, v *T, strong bool) {
	if v == nil {
		delete(s.m, key)
		return
	}
	if strong {
		s.m[key] = entry[T]{strong: v}
		return
	}
	s.m[key] = entry[T]{weak: weak.Make(v)}
}

func (s *store[T]) get(key string) (*T, bool) {
	e, ok := s.m[key]
	if !ok {
		return nil, false
	}
	v := e.value()
	if v == nil {
		delete(s.m, key)
		return nil, false
	}
	return v, true
}

func (s *store[T]) has(key string) bool {
	_, ok := s.get(key)
	return ok
}

func (s *store[T]) delete(key string) { delete(s.m, key) }

func (s *store[T]) clear() { clear(s.m) }

// purge drops collected weak entries.
func (s *store[T]) purge() {
	for k, e := range s.m {
		if e.value() == nil {
			delete(s.m, k)
		}
	}
}

func (s *store[T]) keys() []string {
	s.purge()
	keys := make([]string, 0, len(s.m))
	for k := range s.m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (s *store[T]) len() int {
	s.purge()
	return len(s.m)
}

// deletePrefix removes key itself and every key starting with key+sep.
func (s *store[T]) deletePrefix(key, sep string) int {
	n := 0
	for k := range s.m {
		if k == key || strings.HasPrefix(k, key+sep) {
			delete(s.m, k)
			n++
		}
	}
	return n
}

// ImageCache maps a source key (a file path, or a path or hash plus a
// crop rectangle) to a decoded ImageRecord.
type ImageCache struct {
	s store[ImageRecord]
}

// NewImageCache returns an empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{s: newStore[ImageRecord]()}
}

// Put stores img under key. Weak entries vanish once nothing else holds img.
func (c *ImageCache) Put(key string, img *ImageRecord, strong bool) {
	c.s.put(key, img, strong)
}

// Get returns the record stored under key.
func (c *ImageCache) Get(key string) (*ImageRecord, bool) { return c.s.get(key) }

// Has reports whether key holds a live record.
func (c *ImageCache) Has(key string) bool { return c.s.has(key) }

// Delete removes key.
func (c *ImageCache) Delete(key string) { c.s.delete(key) }

// Clear removes every entry.
func (c *ImageCache) Clear() { c.s.clear() }

// Keys returns the live keys in sorted order.
func (c *ImageCache) Keys() []string { return c.s.keys() }

// Len returns the number of live entries.
func (c *ImageCache) Len() int { return c.s.len() }

// TextureCache maps texture cache names to textures, plus a secondary
// index from file path to the texture loaded from that whole file.
type TextureCache struct {
	s     store[Texture]
	files store[Texture]
}

// NewTextureCache returns an empty texture cache.
func NewTextureCache() *TextureCache {
	return &TextureCache{s: newStore[Texture](), files: newStore[Texture]()}
}

// Put stores t under its CacheName.
func (c *TextureCache) Put(t *Texture, strong bool) {
	if t == nil {
		return
	}
	c.s.put(t.CacheName(), t, strong)
}

// Get returns the texture with the given cache name.
func (c *TextureCache) Get(name string) (*Texture, bool) { return c.s.get(name) }

// GetWithConfig returns the unrotated texture for the given content hash
// and hit-box algorithm.
func (c *TextureCache) GetWithConfig(hash string, algo HitBoxAlgorithm) (*Texture, bool) {
	return c.s.get(cacheName(hash, OrderIdentity, orDefault(algo)))
}

// Has reports whether name holds a live texture.
func (c *TextureCache) Has(name string) bool { return c.s.has(name) }

// Delete removes the texture with the given cache name. File index
// entries pointing at it are left alone; use DeleteFile for those.
func (c *TextureCache) Delete(name string) { c.s.delete(name) }

// PutFile records t as the texture loaded from the whole file at path.
func (c *TextureCache) PutFile(path string, t *Texture, strong bool) {
	c.files.put(path, t, strong)
}

// GetFile returns the texture loaded from the whole file at path.
func (c *TextureCache) GetFile(path string) (*Texture, bool) { return c.files.get(path) }

// DeleteFile drops path from the file index.
func (c *TextureCache) DeleteFile(path string) { c.files.delete(path) }

// Files returns the indexed file paths in sorted order.
func (c *TextureCache) Files() []string { return c.files.keys() }

// Clear removes every texture and file index entry.
func (c *TextureCache) Clear() {
	c.s.clear()
	c.files.clear()
}

// Keys returns the live cache names in sorted order.
func (c *TextureCache) Keys() []string { return c.s.keys() }

// Len returns the number of live textures.
func (c *TextureCache) Len() int { return c.s.len() }
