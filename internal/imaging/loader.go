package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"sync"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder

	"github.com/ironsheep/ui-regression-mcp/internal/model"
)

// SupportedFormats lists the raster formats the loader accepts, as reported by
// image.DecodeConfig.
var SupportedFormats = []string{"jpeg", "png", "gif", "bmp", "webp", "tiff"}

// Decode turns encoded image bytes into an in-memory image.
//
// Parameters:
//   - data: Raw file contents in any of SupportedFormats.
//   - source: Label used in error messages (file path, upload name). May be empty.
//
// Returns:
//   - image.Image: The decoded image with EXIF orientation applied.
//   - error: *model.ImageLoadError if the bytes are not a supported raster
//     format, *model.InvalidGeometryError if the image has zero area.
func Decode(data []byte, source string) (image.Image, error) {
	if len(data) == 0 {
		return nil, &model.ImageLoadError{Source: source, Err: fmt.Errorf("empty input")}
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, &model.ImageLoadError{Source: source, Err: err}
	}
	if !isSupported(format) {
		return nil, &model.ImageLoadError{Source: source, Err: fmt.Errorf("unsupported format %q", format)}
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, &model.ImageLoadError{Source: source, Err: err}
	}
	if err := CheckGeometry(img); err != nil {
		return nil, err
	}
	return img, nil
}

// LoadFile reads and decodes an image file from disk.
//
// Read failures and decode failures are both reported as *model.ImageLoadError
// so callers can treat "missing" and "corrupt" inputs the same way.
func LoadFile(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &model.ImageLoadError{Source: path, Err: err}
	}
	return Decode(data, path)
}

// CheckGeometry returns *model.InvalidGeometryError for nil or zero-area images.
func CheckGeometry(img image.Image) error {
	if img == nil {
		return &model.InvalidGeometryError{}
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return &model.InvalidGeometryError{Width: b.Dx(), Height: b.Dy()}
	}
	return nil
}

// ToNRGBA returns a private NRGBA copy of img anchored at the origin.
// The engine works on these copies so caller images are never mutated.
func ToNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

func isSupported(format string) bool {
	for _, f := range SupportedFormats {
		if f == format {
			return true
		}
	}
	return false
}

// ImageCache provides thread-safe caching of loaded images to avoid redundant disk reads.
//
// The cache stores decoded image.Image objects keyed by their file path. Once an image
// is loaded, subsequent Load() calls for the same path return the cached copy without
// disk I/O. Cached images are treated as read-only by every consumer.
//
// ImageCache is safe for concurrent use by multiple goroutines.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
	}
}

// Load retrieves an image from the cache or loads it from disk if not cached.
//
// Errors are the same as LoadFile; failed loads are not cached.
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Clear removes all images from the cache, freeing the associated memory.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path.
//
// A screenshot that was re-captured under the same path must be evicted before
// it is compared again.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the decoder that recognised the file: "png", "jpeg", "gif",
	// "bmp", "webp" or "tiff".
	Format string `json:"format"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image through the cache and returns its metadata.
//
// Unlike a plain extension check, the format is the one detected from the file
// header, so a PNG saved as ".jpg" still reports "png".
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	_, format, err := image.DecodeConfig(f)
	if err != nil {
		format = "unknown"
	}

	bounds := img.Bounds()
	return &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        format,
		FileSizeBytes: stat.Size(),
	}, nil
}

// DimensionsResult contains the width and height of an image.
type DimensionsResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GetDimensions returns the dimensions of an image without additional metadata.
func GetDimensions(cache *ImageCache, path string) (*DimensionsResult, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	return &DimensionsResult{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}
