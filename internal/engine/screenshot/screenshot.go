// Package screenshot saves rendered frames as lossless WebP files.
package screenshot

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"go.uber.org/zap"

	"github.com/Faultbox/showroom/internal/config"
)

// LatestName is rewritten on every capture so scripts can find the newest
// frame without listing the directory.
const LatestName = "latest.webp"

// Capture writes screenshots into a directory.
type Capture struct {
	dir    string
	prefix string
	clock  func() time.Time
	log    *zap.Logger
}

// New creates a capture handler. clock may be nil to use time.Now.
func New(cfg config.ScreenshotConfig, clock func() time.Time, log *zap.Logger) *Capture {
	if clock == nil {
		clock = time.Now
	}
	return &Capture{
		dir:    cfg.Dir,
		prefix: "showroom",
		clock:  clock,
		log:    log,
	}
}

// Dir returns the output directory.
func (c *Capture) Dir() string {
	return c.dir
}

// Filename returns the path the next capture would be written to.
func (c *Capture) Filename() string {
	name := fmt.Sprintf("%s_%s.webp", c.prefix, c.clock().Format("2006-01-02_15-04-05.000"))
	return filepath.Join(c.dir, name)
}

// FromPixels saves bottom-up RGBA pixels as read back from OpenGL.
func (c *Capture) FromPixels(pixels []byte, width, height int) (string, error) {
	img, err := FlipRGBA(pixels, width, height)
	if err != nil {
		return "", err
	}
	return c.FromImage(img)
}

// FromImage saves img and refreshes the latest copy.
func (c *Capture) FromImage(img image.Image) (string, error) {
	if c.dir != "" {
		if err := os.MkdirAll(c.dir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := c.Filename()
	if err := writeWebP(filename, img); err != nil {
		return "", err
	}
	if err := writeWebP(filepath.Join(c.dir, LatestName), img); err != nil {
		c.log.Warn("failed to refresh latest screenshot", zap.Error(err))
	}

	c.log.Info("screenshot saved", zap.String("path", filename))
	return filename, nil
}

// FlipRGBA copies bottom-up pixel rows into a top-down image.
func FlipRGBA(pixels []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid size %dx%d", width, height)
	}
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * rowSize
		dst := y * img.Stride
		copy(img.Pix[dst:dst+rowSize], pixels[src:src+rowSize])
	}
	return img, nil
}

func writeWebP(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	if err := nativewebp.Encode(f, img, nil); err != nil {
		f.Close()
		return fmt.Errorf("encoding webp: %w", err)
	}
	return f.Close()
}
