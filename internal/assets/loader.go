// Package assets loads environment images and model manifests off the
// frame thread.
//
// Every Load call returns a buffered channel that receives exactly one
// result. Work runs on a bounded worker pool; the frame thread polls the
// channels and applies results itself, so nothing here touches the scene.
package assets

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/Faultbox/showroom/internal/config"
	"github.com/Faultbox/showroom/internal/scene"
)

// ImageResult is the outcome of an image load.
type ImageResult struct {
	Path    string
	Texture *scene.Texture
	Err     error
}

// ModelResult is the outcome of a model load. Node is a fresh instance the
// caller owns.
type ModelResult struct {
	Path string
	Node *scene.Node
	Err  error
}

// Options configures a Loader.
type Options struct {
	Workers   int
	QueueSize int
	// MaxImageSize caps environment image dimensions; 0 keeps full size.
	MaxImageSize int
}

// OptionsFromConfig converts the assets config section.
func OptionsFromConfig(cfg config.AssetsConfig) Options {
	return Options{
		Workers:      cfg.Workers,
		QueueSize:    cfg.QueueSize,
		MaxImageSize: 2048,
	}
}

// Loader reads assets from a filesystem root on a worker pool.
type Loader struct {
	fsys   fs.FS
	pool   pond.Pool
	images *Cache[*image.RGBA]
	models *Cache[*Manifest]
	opts   Options
	log    *zap.Logger
}

// NewLoader creates a loader over fsys.
func NewLoader(fsys fs.FS, opts Options, log *zap.Logger) *Loader {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	poolOpts := []pond.Option{pond.WithNonBlocking(true)}
	if opts.QueueSize > 0 {
		poolOpts = append(poolOpts, pond.WithQueueSize(opts.QueueSize))
	}
	return &Loader{
		fsys:   fsys,
		pool:   pond.NewPool(opts.Workers, poolOpts...),
		images: NewCache[*image.RGBA](),
		models: NewCache[*Manifest](),
		opts:   opts,
		log:    log,
	}
}

// NewDirLoader creates a loader rooted at a directory on disk.
func NewDirLoader(dir string, opts Options, log *zap.Logger) *Loader {
	return NewLoader(os.DirFS(dir), opts, log)
}

// LoadImage decodes an image asynchronously. Decoded pixels are cached, but
// every result carries a new Texture so GL handles are never shared.
func (l *Loader) LoadImage(name string) <-chan ImageResult {
	out := make(chan ImageResult, 1)
	err := l.pool.Go(func() {
		img, err := l.image(name)
		if err != nil {
			l.log.Warn("image load failed", zap.String("path", name), zap.Error(err))
			out <- ImageResult{Path: name, Err: err}
			return
		}
		l.log.Debug("image loaded", zap.String("path", name),
			zap.Int("width", img.Bounds().Dx()), zap.Int("height", img.Bounds().Dy()))
		out <- ImageResult{Path: name, Texture: &scene.Texture{Path: name, Image: img}}
	})
	if err != nil {
		out <- ImageResult{Path: name, Err: fmt.Errorf("queue %s: %w", name, err)}
	}
	return out
}

// LoadModel parses a model manifest asynchronously.
func (l *Loader) LoadModel(name string) <-chan ModelResult {
	out := make(chan ModelResult, 1)
	err := l.pool.Go(func() {
		node, err := l.model(name)
		if err != nil {
			l.log.Warn("model load failed", zap.String("path", name), zap.Error(err))
			out <- ModelResult{Path: name, Err: err}
			return
		}
		l.log.Debug("model loaded", zap.String("path", name), zap.Int("meshes", len(node.Meshes)))
		out <- ModelResult{Path: name, Node: node}
	})
	if err != nil {
		out <- ModelResult{Path: name, Err: fmt.Errorf("queue %s: %w", name, err)}
	}
	return out
}

// ReadFile reads a raw file under the root.
func (l *Loader) ReadFile(name string) ([]byte, error) {
	data, err := fs.ReadFile(l.fsys, clean(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return data, err
}

// Stats returns image cache statistics.
func (l *Loader) Stats() (hits, misses int) {
	return l.images.Stats()
}

// Close waits for running loads and stops the pool.
func (l *Loader) Close() {
	l.pool.StopAndWait()
	l.images.Clear()
	l.models.Clear()
}

func (l *Loader) image(name string) (*image.RGBA, error) {
	if img, ok := l.images.Get(name); ok {
		return img, nil
	}
	if !IsImage(name) {
		return nil, fmt.Errorf("%s: %w", name, ErrUnsupportedFormat)
	}
	data, err := l.ReadFile(name)
	if err != nil {
		return nil, err
	}
	img, err := DecodeImage(name, data, l.opts.MaxImageSize)
	if err != nil {
		return nil, err
	}
	l.images.Set(name, img)
	return img, nil
}

func (l *Loader) model(name string) (*scene.Node, error) {
	m, ok := l.models.Get(name)
	if !ok {
		ext := strings.ToLower(path.Ext(name))
		if ext != ".yaml" && ext != ".yml" {
			return nil, fmt.Errorf("%s: %w", name, ErrUnsupportedFormat)
		}
		data, err := l.ReadFile(name)
		if err != nil {
			return nil, err
		}
		m, err = ParseManifest(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		l.models.Set(name, m)
	}
	return m.Build()
}

func clean(name string) string {
	return strings.TrimPrefix(path.Clean("/"+name), "/")
}
