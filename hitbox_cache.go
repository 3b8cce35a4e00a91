package texcache

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// HitBoxCache maps texture cache names to computed hit boxes.
type HitBoxCache struct {
	s store[HitBox]
}

// HitBoxRecord is one exported hit box.
type HitBoxRecord struct {
	Key    string       `json:"key"`
	Points [][2]float64 `json:"points"`
}

// NewHitBoxCache returns an empty hit-box cache.
func NewHitBoxCache() *HitBoxCache {
	return &HitBoxCache{s: newStore[HitBox]()}
}

// Put stores hb under key.
func (c *HitBoxCache) Put(key string, hb *HitBox, strong bool) { c.s.put(key, hb, strong) }

// Get returns the hit box stored under key.
func (c *HitBoxCache) Get(key string) (*HitBox, bool) { return c.s.get(key) }

// Has reports whether key holds a live hit box.
func (c *HitBoxCache) Has(key string) bool { return c.s.has(key) }

// Delete removes key.
func (c *HitBoxCache) Delete(key string) { c.s.delete(key) }

// Clear removes every entry.
func (c *HitBoxCache) Clear() { c.s.clear() }

// Keys returns the live keys in sorted order.
func (c *HitBoxCache) Keys() []string { return c.s.keys() }

// Len returns the number of live entries.
func (c *HitBoxCache) Len() int { return c.s.len() }

// Export returns every live entry sorted by key.
func (c *HitBoxCache) Export() []HitBoxRecord {
	keys := c.s.keys()
	out := make([]HitBoxRecord, 0, len(keys))
	for _, k := range keys {
		hb, ok := c.s.get(k)
		if !ok {
			continue
		}
		pts := make([][2]float64, len(hb.Points))
		for i, p := range hb.Points {
			pts[i] = [2]float64{p.X, p.Y}
		}
		out = append(out, HitBoxRecord{Key: k, Points: pts})
	}
	return out
}

// Import stores every record as a strong entry, replacing existing keys.
func (c *HitBoxCache) Import(records []HitBoxRecord) error {
	for _, r := range records {
		if r.Key == "" {
			return fmt.Errorf("%w: hit-box record without key", ErrInvalidConfig)
		}
	}
	for _, r := range records {
		pts := make([]Point, len(r.Points))
		for i, p := range r.Points {
			pts[i] = Point{X: p[0], Y: p[1]}
		}
		c.s.put(r.Key, &HitBox{Points: pts}, true)
	}
	return nil
}

// Write exports the cache as JSON, gzip-compressed when compressed is
// set. Output depends only on the cache contents.
func (c *HitBoxCache) Write(w io.Writer, compressed bool) error {
	data, err := json.Marshal(c.Export())
	if err != nil {
		return fmt.Errorf("texcache: encode hit boxes: %w", err)
	}
	if !compressed {
		_, err = w.Write(data)
		return err
	}
	zw := gzip.NewWriter(w)
	if _, err := zw.Write(data); err != nil {
		return err
	}
	return zw.Close()
}

// Read imports JSON written by Write. Nothing is imported if decoding
// fails.
func (c *HitBoxCache) Read(r io.Reader, compressed bool) error {
	if compressed {
		zr, err := gzip.NewReader(r)
		if err != nil {
			return fmt.Errorf("%w: hit-box cache: %w", ErrDecode, err)
		}
		defer zr.Close()
		r = zr
	}
	var records []HitBoxRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return fmt.Errorf("%w: hit-box cache: %w", ErrDecode, err)
	}
	return c.Import(records)
}

// Save writes the cache to path, gzip-compressed if path ends in ".gz".
func (c *HitBoxCache) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("texcache: save hit boxes: %w", err)
	}
	bw := bufio.NewWriter(f)
	if err := c.Write(bw, isGzipPath(path)); err != nil {
		f.Close()
		return fmt.Errorf("texcache: save hit boxes %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("texcache: save hit boxes %s: %w", path, err)
	}
	logger().Debug("saved hit boxes", "path", path, "count", c.Len())
	return f.Close()
}

// Load reads a file written by Save.
func (c *HitBoxCache) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: load hit boxes: %w", ErrDecode, err)
	}
	defer f.Close()
	if err := c.Read(bufio.NewReader(f), isGzipPath(path)); err != nil {
		return err
	}
	logger().Debug("loaded hit boxes", "path", path, "count", c.Len())
	return nil
}

func isGzipPath(path string) bool { return strings.HasSuffix(path, ".gz") }
