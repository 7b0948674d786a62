package templates

import (
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"minebot/internal/classifier"
)

func stripes(vertical bool, shade uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			v := y
			if vertical {
				v = x
			}
			c := uint8(220)
			if (v/4)%2 == 0 {
				c = shade
			}
			img.SetGray(x, y, color.Gray{Y: c})
		}
	}
	return img
}

func writeTestPNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

func TestParseLabel(t *testing.T) {
	cases := []struct {
		name  string
		label int
		ok    bool
	}{
		{"3_grass.png", 3, true},
		{"9.png", 9, true},
		{"12_x.png", 12, true},
		{"flag.png", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		label, ok := ParseLabel(tc.name)
		if label != tc.label || ok != tc.ok {
			t.Fatalf("%q: got (%d,%v) want (%d,%v)", tc.name, label, ok, tc.label, tc.ok)
		}
	}
}

func TestLoad_OrderAndLabels(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, filepath.Join(dir, "3_b.png"), stripes(true, 30))
	writeTestPNG(t, filepath.Join(dir, "1_a.png"), stripes(false, 30))
	writeTestPNG(t, filepath.Join(dir, "readme.png"), stripes(false, 90))
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	lib, err := Load(dir, classifier.DefaultThreshold, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tpls := lib.Templates()
	if len(tpls) != 2 {
		t.Fatalf("templates: got %d want 2", len(tpls))
	}
	if tpls[0].Name != "1_a.png" || tpls[0].Label != 1 || tpls[1].Label != 3 {
		t.Fatalf("unexpected order: %+v %+v", tpls[0].Name, tpls[1].Name)
	}

	m := lib.Classify(stripes(true, 30))
	if !m.OK || m.Label != 3 {
		t.Fatalf("classify: got %+v", m)
	}
}

func TestLoad_EmptyDirectory(t *testing.T) {
	if _, err := Load(t.TempDir(), 0, nil); err == nil {
		t.Fatal("expected error for empty template directory")
	}
}

func TestStore_SaveUnique(t *testing.T) {
	lib := classifier.NewLibrary(classifier.DefaultThreshold)
	lib.Add(1, "1_a.png", stripes(false, 30))

	dir := filepath.Join(t.TempDir(), "samples")
	store, err := NewStore(dir, lib, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	saved, err := store.SaveUnique(stripes(false, 30), "known")
	if err != nil || saved {
		t.Fatalf("known template must not be saved: saved=%v err=%v", saved, err)
	}

	rng := rand.New(rand.NewSource(3))
	sample := image.NewGray(image.Rect(0, 0, 20, 20))
	for i := range sample.Pix {
		sample.Pix[i] = uint8(rng.Intn(256))
	}

	saved, err = store.SaveUnique(sample, "r1c2")
	if err != nil || !saved {
		t.Fatalf("new sample must be saved: saved=%v err=%v", saved, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "unlabeled_r1c2.png")); err != nil {
		t.Fatalf("sample file missing: %v", err)
	}

	saved, _ = store.SaveUnique(sample, "again")
	if saved {
		t.Fatal("duplicate sample must not be saved twice")
	}

	// повторное открытие хранилища подхватывает уже сохранённые образцы
	reopened, err := NewStore(dir, lib, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if saved, _ := reopened.SaveUnique(sample, "third"); saved {
		t.Fatal("sample saved before reopening must still be deduplicated")
	}
}

func TestStore_FailedWriteIsNotRemembered(t *testing.T) {
	lib := classifier.NewLibrary(classifier.DefaultThreshold)
	lib.Add(1, "1_a.png", stripes(false, 30))

	dir := filepath.Join(t.TempDir(), "samples")
	store, err := NewStore(dir, lib, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := os.RemoveAll(dir); err != nil {
		t.Fatalf("remove dir: %v", err)
	}

	rng := rand.New(rand.NewSource(11))
	sample := image.NewGray(image.Rect(0, 0, 20, 20))
	for i := range sample.Pix {
		sample.Pix[i] = uint8(rng.Intn(256))
	}
	if saved, err := store.SaveUnique(sample, "lost"); err == nil || saved {
		t.Fatalf("write into a missing directory must fail: saved=%v err=%v", saved, err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	saved, err := store.SaveUnique(sample, "retry")
	if err != nil || !saved {
		t.Fatalf("sample must be saved once the directory is back: saved=%v err=%v", saved, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "unlabeled_retry.png")); err != nil {
		t.Fatalf("sample file missing: %v", err)
	}
}
