package assets

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
	"testing/fstest"
	"time"

	"golang.org/x/image/bmp"

	"github.com/Faultbox/showroom/internal/logger"
	"github.com/Faultbox/showroom/internal/scene"
)

const macanManifest = `
name: macan2017
materials:
  carpaint:
    color: "#aa1111"
    roughness: 0.4
    metalness: 0.6
    physical: true
  glass:
    transparent: true
meshes:
  - name: Body
    material: carpaint
    min: [-1, 0, -2.4]
    max: [1, 1.6, 2.4]
    cast_shadow: true
  - name: Windows
    material: glass
    min: [-0.9, 1, -1]
    max: [0.9, 1.5, 1]
`

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func encodeBMP(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode bmp: %v", err)
	}
	return buf.Bytes()
}

func newTestLoader(t *testing.T, files fstest.MapFS) *Loader {
	t.Helper()
	l := NewLoader(files, Options{Workers: 2, QueueSize: 8}, logger.Nop())
	t.Cleanup(l.Close)
	return l
}

func waitImage(t *testing.T, ch <-chan ImageResult) ImageResult {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for image")
		return ImageResult{}
	}
}

func waitModel(t *testing.T, ch <-chan ModelResult) ModelResult {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for model")
		return ModelResult{}
	}
}

func TestLoadImage(t *testing.T) {
	l := newTestLoader(t, fstest.MapFS{
		"env/sunny.png": {Data: encodePNG(t, 8, 4)},
		"env/studio.bmp": {Data: encodeBMP(t, 2, 2)},
	})

	r := waitImage(t, l.LoadImage("env/sunny.png"))
	if r.Err != nil {
		t.Fatalf("LoadImage: %v", r.Err)
	}
	if r.Texture == nil || r.Texture.Path != "env/sunny.png" {
		t.Fatalf("unexpected texture %+v", r.Texture)
	}
	if b := r.Texture.Image.Bounds(); b.Dx() != 8 || b.Dy() != 4 {
		t.Errorf("bounds = %v, want 8x4", b)
	}

	r = waitImage(t, l.LoadImage("/env/studio.bmp"))
	if r.Err != nil {
		t.Fatalf("LoadImage bmp: %v", r.Err)
	}
}

func TestLoadImageCachesPixelsNotTextures(t *testing.T) {
	l := newTestLoader(t, fstest.MapFS{
		"env/rainy.png": {Data: encodePNG(t, 2, 2)},
	})

	first := waitImage(t, l.LoadImage("env/rainy.png"))
	second := waitImage(t, l.LoadImage("env/rainy.png"))
	if first.Err != nil || second.Err != nil {
		t.Fatalf("errors: %v, %v", first.Err, second.Err)
	}
	if first.Texture == second.Texture {
		t.Error("each load should return its own texture handle")
	}
	if first.Texture.Image != second.Texture.Image {
		t.Error("decoded pixels should come from the cache")
	}
	if hits, misses := l.Stats(); hits != 1 || misses != 1 {
		t.Errorf("stats = %d hits, %d misses; want 1, 1", hits, misses)
	}
}

func TestLoadImageErrors(t *testing.T) {
	l := newTestLoader(t, fstest.MapFS{
		"env/broken.png": {Data: []byte("not a png")},
		"env/sky.hdr":    {Data: []byte("#?RADIANCE")},
	})

	tests := []struct {
		path string
		want error
	}{
		{"env/missing.png", ErrNotFound},
		{"env/sky.hdr", ErrUnsupportedFormat},
	}
	for _, tt := range tests {
		r := waitImage(t, l.LoadImage(tt.path))
		if !errors.Is(r.Err, tt.want) {
			t.Errorf("%s: err = %v, want %v", tt.path, r.Err, tt.want)
		}
		if r.Texture != nil {
			t.Errorf("%s: texture should be nil on failure", tt.path)
		}
	}

	if r := waitImage(t, l.LoadImage("env/broken.png")); r.Err == nil {
		t.Error("expected decode error")
	}
}

func TestLoadModel(t *testing.T) {
	l := newTestLoader(t, fstest.MapFS{
		"models/macan2017.yaml": {Data: []byte(macanManifest)},
	})

	r := waitModel(t, l.LoadModel("models/macan2017.yaml"))
	if r.Err != nil {
		t.Fatalf("LoadModel: %v", r.Err)
	}
	n := r.Node
	if n.Name != "macan2017" || len(n.Meshes) != 2 {
		t.Fatalf("unexpected node %s with %d meshes", n.Name, len(n.Meshes))
	}

	paint := n.Materials(scene.TagCarPaint)
	if len(paint) != 1 {
		t.Fatalf("expected 1 carpaint material, got %d", len(paint))
	}
	if paint[0].Roughness != 0.4 || !paint[0].Physical {
		t.Errorf("unexpected carpaint %+v", paint[0])
	}
	if paint[0].Color != scene.Hex(0xaa1111) {
		t.Errorf("color = %v", paint[0].Color)
	}

	box, ok := n.Bounds()
	if !ok || box.Max.Y != 1.6 || box.Min.Z != -2.4 {
		t.Errorf("bounds = %+v", box)
	}

	// A second load returns an independent instance.
	again := waitModel(t, l.LoadModel("models/macan2017.yaml"))
	if again.Node == n || again.Node.Meshes[0].Material == n.Meshes[0].Material {
		t.Error("model instances must not share nodes or materials")
	}
}

func TestLoadModelErrors(t *testing.T) {
	l := newTestLoader(t, fstest.MapFS{
		"models/empty.yaml": {Data: []byte("name: empty\n")},
		"models/car.glb":    {Data: []byte("glTF")},
	})

	if r := waitModel(t, l.LoadModel("models/car.glb")); !errors.Is(r.Err, ErrUnsupportedFormat) {
		t.Errorf("glb: err = %v", r.Err)
	}
	if r := waitModel(t, l.LoadModel("models/nope.yaml")); !errors.Is(r.Err, ErrNotFound) {
		t.Errorf("missing: err = %v", r.Err)
	}
	if r := waitModel(t, l.LoadModel("models/empty.yaml")); r.Err == nil {
		t.Error("expected error for manifest without meshes")
	}
}

func TestDecodeImageScalesDown(t *testing.T) {
	img, err := DecodeImage("big.png", encodePNG(t, 64, 16), 32)
	if err != nil {
		t.Fatalf("DecodeImage: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 8 {
		t.Errorf("bounds = %v, want 32x8", b)
	}
}

func TestDecodeImageByExtension(t *testing.T) {
	var jpg bytes.Buffer
	if err := jpeg.Encode(&jpg, image.NewRGBA(image.Rect(0, 0, 6, 3)), nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}

	tests := []struct {
		name  string
		data  []byte
		w, h  int
		isErr bool
	}{
		{"env/german_town_street_1k.png", encodePNG(t, 4, 2), 4, 2, false},
		{"env/studio.JPG", jpg.Bytes(), 6, 3, false},
		{"env/garage.bmp", encodeBMP(t, 5, 5), 5, 5, false},
		{"env/mislabeled.tga", encodePNG(t, 4, 2), 0, 0, true},
		{"env/notes.txt", []byte("hello"), 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := DecodeImage(tt.name, tt.data, 0)
			if tt.isErr {
				if err == nil {
					t.Errorf("DecodeImage(%s) expected error", tt.name)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeImage(%s): %v", tt.name, err)
			}
			if b := img.Bounds(); b.Dx() != tt.w || b.Dy() != tt.h {
				t.Errorf("bounds = %v, want %dx%d", b, tt.w, tt.h)
			}
		})
	}
}

func TestCache(t *testing.T) {
	c := NewCache[int]()
	if _, ok := c.Get("a"); ok {
		t.Error("empty cache should miss")
	}
	c.Set("a", 1)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get = %v, %v", v, ok)
	}
	if hits, misses := c.Stats(); hits != 1 || misses != 1 {
		t.Errorf("stats = %d, %d", hits, misses)
	}
	c.Clear()
	if c.Len() != 0 {
		t.Error("Clear should empty the cache")
	}
}
