package imagedup

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
)

func halves(size int, vertical bool) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dark := x < size/2
			if !vertical {
				dark = y < size/2
			}
			c := color.RGBA{255, 255, 255, 255}
			if dark {
				c = color.RGBA{0, 0, 0, 255}
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func saveImage(t *testing.T, path string, img image.Image) {
	t.Helper()
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("save %s: %v", path, err)
	}
}

func TestSameIdenticalBytes(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.mp4")
	b := filepath.Join(dir, "b.mp4")
	for _, p := range []string{a, b} {
		if err := os.WriteFile(p, []byte("same frames"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	same, err := New(zerolog.Nop(), 0).Same(a, b)
	if err != nil || !same {
		t.Fatalf("Same = (%v, %v), want true", same, err)
	}
}

func TestSameDifferentBytes(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.mov")
	b := filepath.Join(dir, "b.mov")
	if err := os.WriteFile(a, []byte("frames one"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte("frames two"), 0o644); err != nil {
		t.Fatal(err)
	}

	same, err := New(zerolog.Nop(), 0).Same(a, b)
	if err != nil || same {
		t.Fatalf("Same = (%v, %v), want false", same, err)
	}
}

func TestSamePerceptual(t *testing.T) {
	dir := t.TempDir()
	small := filepath.Join(dir, "small.png")
	large := filepath.Join(dir, "large.png")
	other := filepath.Join(dir, "other.png")
	saveImage(t, small, halves(16, true))
	saveImage(t, large, halves(256, true))
	saveImage(t, other, halves(256, false))

	d := New(zerolog.Nop(), 0)

	if same, err := d.Same(small, large); err != nil || !same {
		t.Fatalf("smaller copy should be a duplicate: (%v, %v)", same, err)
	}
	if same, err := d.Same(large, small); err != nil || same {
		t.Fatalf("larger copy must not be treated as a duplicate: (%v, %v)", same, err)
	}
	if same, err := d.Same(small, other); err != nil || same {
		t.Fatalf("different images reported as duplicates: (%v, %v)", same, err)
	}

	if same, err := New(zerolog.Nop(), -1).Same(small, large); err != nil || same {
		t.Fatalf("negative distance should disable perceptual matching: (%v, %v)", same, err)
	}
}

func TestSameMissingFile(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.jpg")
	if err := os.WriteFile(a, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(zerolog.Nop(), 0).Same(a, filepath.Join(dir, "missing.jpg")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
