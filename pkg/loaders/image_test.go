package loaders

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// writeTestPNG writes a 2x2 image: white, red / green, blue
func writeTestPNG(t *testing.T, dir string) string {
	t.Helper()
	testFile := filepath.Join(dir, "test.png")

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	img.Set(1, 0, color.RGBA{R: 255, G: 0, B: 0, A: 255})
	img.Set(0, 1, color.RGBA{R: 0, G: 255, B: 0, A: 255})
	img.Set(1, 1, color.RGBA{R: 0, G: 0, B: 255, A: 255})

	f, err := os.Create(testFile)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		t.Fatalf("Failed to encode PNG: %v", err)
	}
	f.Close()
	return testFile
}

// TestLoadImage creates a test PNG and verifies loading
func TestLoadImage(t *testing.T) {
	testFile := writeTestPNG(t, t.TempDir())

	imageData, err := LoadImage(testFile)
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}

	if imageData.Width != 2 || imageData.Height != 2 {
		t.Errorf("Expected 2x2 image, got %dx%d", imageData.Width, imageData.Height)
	}

	expected := []byte{
		255, 255, 255, 255, 0, 0,
		0, 255, 0, 0, 0, 255,
	}
	if len(imageData.Pixels) != len(expected) {
		t.Fatalf("Expected %d bytes, got %d", len(expected), len(imageData.Pixels))
	}
	for i := range expected {
		if imageData.Pixels[i] != expected[i] {
			t.Errorf("byte %d: expected %d, got %d", i, expected[i], imageData.Pixels[i])
		}
	}

	if err := ValidateImageData(imageData); err != nil {
		t.Errorf("loaded image failed validation: %v", err)
	}
}

// TestLoadImageNotFound verifies error handling for missing files
func TestLoadImageNotFound(t *testing.T) {
	_, err := LoadImage("nonexistent.png")
	if err == nil {
		t.Error("Expected error for non-existent file, got nil")
	}
}

func TestLoadImageNotAnImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadImage(path); err == nil {
		t.Error("Expected decode error, got nil")
	}
}

func TestLoadImageTexture(t *testing.T) {
	testFile := writeTestPNG(t, t.TempDir())

	tex, err := LoadImageTexture(testFile)
	if err != nil {
		t.Fatalf("LoadImageTexture failed: %v", err)
	}
	if tex.Kind != material.TextureImage {
		t.Fatalf("Expected image texture, got %v", tex.Kind)
	}

	// V=0 is the bottom row
	tests := []struct {
		name string
		uv   core.Vec2
		want core.Vec3
	}{
		{"top-left", core.NewVec2(0, 1), core.NewVec3(1, 1, 1)},
		{"top-right", core.NewVec2(1, 1), core.NewVec3(1, 0, 0)},
		{"bottom-left", core.NewVec2(0, 0), core.NewVec3(0, 1, 0)},
		{"bottom-right", core.NewVec2(1, 0), core.NewVec3(0, 0, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tex.Evaluate(tt.uv, core.Vec3{})
			if got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestValidateImageData(t *testing.T) {
	tests := []struct {
		name    string
		data    *material.ImageData
		wantErr bool
	}{
		{"nil", nil, true},
		{"zero width", &material.ImageData{Width: 0, Height: 1}, true},
		{"short buffer", &material.ImageData{Width: 2, Height: 1, Pixels: make([]byte, 5)}, true},
		{"long buffer", &material.ImageData{Width: 1, Height: 1, Pixels: make([]byte, 4)}, true},
		{"valid", &material.ImageData{Width: 2, Height: 2, Pixels: make([]byte, 12)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImageData(tt.data)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateImageData() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSavePNGRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")

	img := image.NewRGBA(image.Rect(0, 0, 3, 1))
	img.Set(0, 0, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	img.Set(1, 0, color.RGBA{R: 40, G: 50, B: 60, A: 255})
	img.Set(2, 0, color.RGBA{R: 70, G: 80, B: 90, A: 255})

	if err := SavePNG(path, img); err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}

	data, err := LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}
	expected := []byte{10, 20, 30, 40, 50, 60, 70, 80, 90}
	for i := range expected {
		if data.Pixels[i] != expected[i] {
			t.Errorf("byte %d: expected %d, got %d", i, expected[i], data.Pixels[i])
		}
	}
}

func TestSavePNGBadPath(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	err := SavePNG(filepath.Join(t.TempDir(), "missing", "out.png"), img)
	if err == nil {
		t.Error("Expected error writing into a missing directory")
	}
}
