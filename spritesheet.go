package texcache

import (
	"cmp"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// Frame describes one named sprite inside a sprite-sheet page.
type Frame struct {
	Name string
	Page int
	// Rect is the area the sprite occupies on the page. For rotated frames
	// it is the stored, sideways rectangle.
	Rect    Rect
	Rotated bool // stored 90 degrees clockwise on the page
	Trimmed bool
	// OffsetX and OffsetY locate the trimmed sprite inside its original
	// SourceWidth × SourceHeight canvas.
	OffsetX, OffsetY          int
	SourceWidth, SourceHeight int
}

// SpriteSheet holds textures cropped from TexturePacker pages.
type SpriteSheet struct {
	Pages    []string
	frames   map[string]Frame
	textures map[string]*Texture
}

// Texture returns the texture for the named frame. Unknown names return a
// 1×1 magenta placeholder.
func (s *SpriteSheet) Texture(name string) *Texture {
	if t, ok := s.textures[name]; ok {
		return t
	}
	logger().Debug("sprite frame not found, using magenta placeholder", "name", name)
	return magentaTexture()
}

// Frame returns the layout of the named frame.
func (s *SpriteSheet) Frame(name string) (Frame, bool) {
	f, ok := s.frames[name]
	return f, ok
}

// Names returns the frame names in sorted order.
func (s *SpriteSheet) Names() []string {
	names := make([]string, 0, len(s.frames))
	for n := range s.frames {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of frames.
func (s *SpriteSheet) Len() int { return len(s.frames) }

// magenta placeholder singleton (no sync.Once, managers are single-goroutine)
var magentaTex *Texture

func magentaTexture() *Texture {
	if magentaTex == nil {
		rec, _ := NewImageRecordFromPixels([]byte{255, 0, 255, 255}, 1, 1)
		magentaTex = newTexture(rec, Bounding{}, OrderIdentity, nil)
	}
	return magentaTex
}

// LoadSpriteSheetFile reads a TexturePacker JSON file. Page images named
// in the file are resolved relative to the file's directory.
func LoadSpriteSheetFile(m *CacheManager, path string, algo HitBoxAlgorithm) (*SpriteSheet, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: sprite sheet needs a cache manager", ErrInvalidConfig)
	}
	data, err := os.ReadFile(m.resolve(path))
	if err != nil {
		return nil, fmt.Errorf("%w: sprite sheet %s: %w", ErrDecode, path, err)
	}
	pages, err := sheetPageNames(data)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	for i, p := range pages {
		if !filepath.IsAbs(p) {
			pages[i] = filepath.Join(dir, p)
		}
	}
	return LoadSpriteSheet(m, data, pages, algo)
}

// LoadSpriteSheet parses TexturePacker JSON and crops every frame out of
// the page files through m. Both the hash format (one "frames" object)
// and the array format ("textures" with per-page frames) are accepted.
// Frames stored rotated are turned back upright. When pages is nil the
// page names from the JSON are used as load paths.
func LoadSpriteSheet(m *CacheManager, jsonData []byte, pages []string, algo HitBoxAlgorithm) (*SpriteSheet, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: sprite sheet needs a cache manager", ErrInvalidConfig)
	}
	frames, err := parseSheet(jsonData)
	if err != nil {
		return nil, err
	}
	if pages == nil {
		if pages, err = sheetPageNames(jsonData); err != nil {
			return nil, err
		}
	}

	// Decode the pages and check every frame before caching anything.
	paths := make([]string, len(pages))
	srcs := make([]*ImageRecord, len(pages))
	for i, p := range pages {
		paths[i] = m.resolve(p)
		if srcs[i], err = m.source(paths[i]); err != nil {
			return nil, err
		}
	}
	for _, f := range frames {
		if f.Page >= len(pages) {
			return nil, fmt.Errorf("%w: frame %q on page %d, have %d pages", ErrInvalidConfig, f.Name, f.Page, len(pages))
		}
		if err := f.Rect.within(srcs[f.Page].Size()); err != nil {
			return nil, fmt.Errorf("frame %q: %w", f.Name, err)
		}
	}
	for i, p := range paths {
		if err := m.keepSource(p, srcs[i]); err != nil {
			return nil, err
		}
	}

	s := &SpriteSheet{
		Pages:    pages,
		frames:   make(map[string]Frame, len(frames)),
		textures: make(map[string]*Texture, len(frames)),
	}
	for _, f := range frames {
		t, err := m.LoadTexture(pages[f.Page], LoadOptions{Crop: f.Rect, HitBoxAlgorithm: algo})
		if err != nil {
			return nil, err
		}
		if f.Rotated {
			t = t.Rotate270()
		}
		s.frames[f.Name] = f
		s.textures[f.Name] = t
	}
	logger().Debug("loaded sprite sheet", "frames", len(frames), "pages", len(pages))
	return s, nil
}

// --- JSON structure types ---

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonSize struct {
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame            jsonRect `json:"frame"`
	Rotated          bool     `json:"rotated"`
	Trimmed          bool     `json:"trimmed"`
	SpriteSourceSize jsonRect `json:"spriteSourceSize"`
	SourceSize       jsonSize `json:"sourceSize"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}

type jsonSheet struct {
	Frames   json.RawMessage   `json:"frames"`
	Textures []jsonTexturePage `json:"textures"`
	Meta     struct {
		Image string `json:"image"`
	} `json:"meta"`
}

func decodeSheet(data []byte) (jsonSheet, error) {
	var sh jsonSheet
	if err := json.Unmarshal(data, &sh); err != nil {
		return sh, fmt.Errorf("%w: sprite sheet JSON: %w", ErrDecode, err)
	}
	if sh.Textures == nil && sh.Frames == nil {
		return sh, fmt.Errorf("%w: sprite sheet JSON has neither \"frames\" nor \"textures\" key", ErrDecode)
	}
	return sh, nil
}

// parseSheet returns frames sorted by name.
func parseSheet(data []byte) ([]Frame, error) {
	sh, err := decodeSheet(data)
	if err != nil {
		return nil, err
	}
	var out []Frame
	if sh.Textures != nil {
		for i, tex := range sh.Textures {
			for name, f := range tex.Frames {
				out = append(out, toFrame(name, f, i))
			}
		}
	} else {
		var frames map[string]jsonFrame
		if err := json.Unmarshal(sh.Frames, &frames); err != nil {
			return nil, fmt.Errorf("%w: sprite sheet frames: %w", ErrDecode, err)
		}
		for name, f := range frames {
			out = append(out, toFrame(name, f, 0))
		}
	}
	slices.SortFunc(out, func(a, b Frame) int { return cmp.Compare(a.Name, b.Name) })
	return out, nil
}

func sheetPageNames(data []byte) ([]string, error) {
	sh, err := decodeSheet(data)
	if err != nil {
		return nil, err
	}
	if sh.Textures != nil {
		pages := make([]string, len(sh.Textures))
		for i, tex := range sh.Textures {
			pages[i] = tex.Image
		}
		return pages, nil
	}
	if sh.Meta.Image == "" {
		return nil, fmt.Errorf("%w: sprite sheet JSON has no meta.image", ErrDecode)
	}
	return []string{sh.Meta.Image}, nil
}

// toFrame converts a TexturePacker frame. Rotated frames report their
// upright size in "frame" but occupy a sideways rectangle on the page.
func toFrame(name string, f jsonFrame, page int) Frame {
	r := Rect{X: f.Frame.X, Y: f.Frame.Y, Width: f.Frame.W, Height: f.Frame.H}
	if f.Rotated {
		r.Width, r.Height = r.Height, r.Width
	}
	return Frame{
		Name:         name,
		Page:         page,
		Rect:         r,
		Rotated:      f.Rotated,
		Trimmed:      f.Trimmed,
		OffsetX:      f.SpriteSourceSize.X,
		OffsetY:      f.SpriteSourceSize.Y,
		SourceWidth:  f.SourceSize.W,
		SourceHeight: f.SourceSize.H,
	}
}
