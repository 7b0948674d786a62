package classifier

import (
	"image"
	"image/color"
	"math"
	"math/rand"
	"testing"
)

// glyph рисует условную клетку 34x34: светлый фон и тёмные штрихи,
// набор штрихов зависит от метки
func glyph(label int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, 34, 34))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	fill := func(x0, y0, x1, y1 int) {
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				img.SetGray(x, y, color.Gray{Y: 40})
			}
		}
	}
	switch label {
	case 1:
		fill(15, 6, 19, 28)
	case 3:
		fill(9, 6, 25, 9)
		fill(11, 15, 25, 18)
		fill(9, 25, 25, 28)
		fill(22, 6, 25, 28)
	case 6:
		for y := 6; y < 20; y++ {
			fill(12, y, 12+(y-6), y+1)
		}
		fill(11, 6, 13, 28)
	}
	return img
}

func noise(seed int64) *image.Gray {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewGray(image.Rect(0, 0, 34, 34))
	for i := range img.Pix {
		img.Pix[i] = uint8(rng.Intn(256))
	}
	return img
}

func newTestLibrary() *Library {
	lib := NewLibrary(DefaultThreshold)
	lib.Add(1, "1_a.png", glyph(1))
	lib.Add(3, "3_a.png", glyph(3))
	lib.Add(6, "6_a.png", glyph(6))
	return lib
}

func TestSSIM_IdenticalImagesScoreOne(t *testing.T) {
	a := glyph(3)
	if got := SSIM(a, glyph(3)); math.Abs(got-1) > 1e-9 {
		t.Fatalf("identical images: got %v want 1", got)
	}
}

func TestSSIM_MismatchedSizeIsZero(t *testing.T) {
	small := image.NewGray(image.Rect(0, 0, 10, 10))
	if got := SSIM(glyph(3), small); got != 0 {
		t.Fatalf("mismatched sizes: got %v want 0", got)
	}
}

func TestSSIM_TinyImagesUseSingleWindow(t *testing.T) {
	a := image.NewGray(image.Rect(0, 0, 3, 3))
	b := image.NewGray(image.Rect(0, 0, 3, 3))
	for i := range a.Pix {
		a.Pix[i] = uint8(i * 20)
		b.Pix[i] = uint8(i * 20)
	}
	if got := SSIM(a, b); math.Abs(got-1) > 1e-9 {
		t.Fatalf("tiny identical images: got %v want 1", got)
	}
}

func TestClassify_ExactTemplate(t *testing.T) {
	lib := newTestLibrary()

	m := lib.Classify(glyph(3))
	if !m.OK {
		t.Fatalf("expected a match, got %+v", m)
	}
	if m.Label != 3 {
		t.Fatalf("label: got %d want 3", m.Label)
	}
}

func TestClassify_NoiseIsUnidentified(t *testing.T) {
	lib := newTestLibrary()

	m := lib.Classify(noise(1))
	if m.OK {
		t.Fatalf("noise must not match, got %+v", m)
	}
	if m.Score >= lib.Threshold() {
		t.Fatalf("noise score %v above threshold", m.Score)
	}
}

func TestClassify_ResizesSample(t *testing.T) {
	lib := newTestLibrary()

	src := glyph(1)
	big := image.NewGray(image.Rect(0, 0, 68, 68))
	for y := 0; y < 68; y++ {
		for x := 0; x < 68; x++ {
			big.SetGray(x, y, src.GrayAt(x/2, y/2))
		}
	}

	m := lib.Classify(big)
	if !m.OK || m.Label != 1 {
		t.Fatalf("upscaled glyph: got %+v want label 1", m)
	}
}

func TestClassify_TieKeepsFirstRegistered(t *testing.T) {
	lib := NewLibrary(DefaultThreshold)
	lib.Add(3, "3_first.png", glyph(3))
	lib.Add(5, "5_second.png", glyph(3))

	for i := 0; i < 5; i++ {
		m := lib.Classify(glyph(3))
		if m.Label != 3 || m.Name != "3_first.png" {
			t.Fatalf("tie must resolve to first template, got %+v", m)
		}
	}
}

func TestClassify_EmptyLibrary(t *testing.T) {
	m := NewLibrary(0).Classify(glyph(1))
	if m.OK || m.Label != -1 {
		t.Fatalf("empty library: got %+v", m)
	}
}

func TestRegister_DeduplicatesSimilarSamples(t *testing.T) {
	lib := newTestLibrary()

	if lib.Register(3, "3_dup.png", glyph(3)) {
		t.Fatal("identical sample must be rejected")
	}
	if !lib.Register(0, "0_noise.png", noise(7)) {
		t.Fatal("dissimilar sample must be accepted")
	}
	if lib.Register(0, "0_noise_again.png", noise(7)) {
		t.Fatal("second copy of a registered sample must be rejected")
	}
	if lib.Len() != 4 {
		t.Fatalf("library size: got %d want 4", lib.Len())
	}
}

func TestToGray_SubImage(t *testing.T) {
	rgba := image.NewRGBA(image.Rect(0, 0, 10, 10))
	rgba.Set(5, 5, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	sub := rgba.SubImage(image.Rect(5, 5, 8, 8))

	g := ToGray(sub)
	if g.Bounds() != image.Rect(0, 0, 3, 3) {
		t.Fatalf("bounds: got %v", g.Bounds())
	}
	if g.GrayAt(0, 0).Y != 255 {
		t.Fatalf("pixel: got %d want 255", g.GrayAt(0, 0).Y)
	}
}
