package texcache

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// Decoder turns a file path into a tightly packed NRGBA buffer.
type Decoder interface {
	Decode(path string) (*image.NRGBA, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(path string) (*image.NRGBA, error)

// Decode calls f(path).
func (f DecoderFunc) Decode(path string) (*image.NRGBA, error) { return f(path) }

// decoders by file extension. TGA has no magic number, so formats are
// picked by extension rather than by sniffing.
var decoders = map[string]func(io.Reader) (image.Image, error){
	".png":  png.Decode,
	".jpg":  jpeg.Decode,
	".jpeg": jpeg.Decode,
	".gif":  gif.Decode,
	".bmp":  bmp.Decode,
	".tif":  tiff.Decode,
	".tiff": tiff.Decode,
	".webp": webp.Decode,
	".tga":  tga.Decode,
}

// FileDecoder reads files from disk and decodes PNG, JPEG, GIF, BMP, TIFF,
// WebP and TGA. Files with other extensions go through image.Decode.
type FileDecoder struct{}

// Decode reads and decodes path. Errors wrap ErrDecode.
func (FileDecoder) Decode(path string) (*image.NRGBA, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrDecode, path, err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	var img image.Image
	if dec, ok := decoders[ext]; ok {
		img, err = dec(bytes.NewReader(raw))
	} else {
		img, _, err = image.Decode(bytes.NewReader(raw))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	logger().Debug("decoded image", "path", path, "w", img.Bounds().Dx(), "h", img.Bounds().Dy())
	return toNRGBA(img), nil
}
