package tracker

import (
	"image"
	"image/color"
	"image/draw"
	"sync"
	"sync/atomic"
	"testing"

	"minebot/internal/board"
	"minebot/internal/classifier"
	"minebot/internal/geometry"
)

// colorClassifier читает метку из красного канала левого верхнего пикселя клетки;
// 255 означает "не распознано"
type colorClassifier struct {
	calls int64
}

func (c *colorClassifier) Classify(sample image.Image) classifier.Match {
	atomic.AddInt64(&c.calls, 1)
	b := sample.Bounds()
	r, _, _, _ := sample.At(b.Min.X, b.Min.Y).RGBA()
	label := int(r >> 8)
	if label == 255 {
		return classifier.Match{Label: -1, Score: 0.1}
	}
	return classifier.Match{Label: label, Name: "fake", Score: 1, OK: true}
}

type memorySink struct {
	mu  sync.Mutex
	ids []string
}

func (s *memorySink) SaveUnique(sample image.Image, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = append(s.ids, id)
	return true, nil
}

func testGeometry() geometry.Geometry {
	return geometry.Geometry{
		Origin:   image.Point{X: 10, Y: 10},
		CellSize: 8,
		Spacing:  2,
		Offset:   image.Point{X: 1, Y: 1},
		Rows:     3,
		Cols:     3,
	}
}

func paintFrame(geom geometry.Geometry, labels [][]int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 60, 60))
	for r, row := range labels {
		for c, label := range row {
			draw.Draw(img, geom.CellRect(r, c), &image.Uniform{C: color.RGBA{R: uint8(label), A: 255}}, image.Point{}, draw.Src)
		}
	}
	return img
}

func TestScan_ClassifiesEveryCellWithoutPrevious(t *testing.T) {
	geom := testGeometry()
	img := paintFrame(geom, [][]int{
		{0, 1, 2},
		{6, 7, 8},
		{9, 255, 0},
	})
	fake := &colorClassifier{}
	sink := &memorySink{}

	b, misses := NewTracker(fake, 1, sink, nil).Scan(img, geom, nil)

	want, _ := board.Parse(
		"#12",
		"FAB",
		".?#",
	)
	if b.String() != want.String() {
		t.Fatalf("board mismatch:\n%s\nwant\n%s", b, want)
	}
	if len(misses) != 1 || misses[0] != (board.Coord{Row: 2, Col: 1}) {
		t.Fatalf("misses: got %v", misses)
	}
	if fake.calls != 9 {
		t.Fatalf("classifier calls: got %d want 9", fake.calls)
	}
	if len(sink.ids) != 1 {
		t.Fatalf("sink should receive the unidentified sample, got %v", sink.ids)
	}
}

func TestScan_CarriesSettledCells(t *testing.T) {
	geom := testGeometry()
	// на кадре все клетки выглядят как "3", но осевшие клетки брать с кадра нельзя
	img := paintFrame(geom, [][]int{
		{3, 3, 3},
		{3, 3, 3},
		{3, 3, 3},
	})
	prev, _ := board.Parse(
		"1F.",
		"#AB",
		"?2#",
	)
	fake := &colorClassifier{}

	b, _ := NewTracker(fake, 4, nil, nil).Scan(img, geom, prev)

	want := "1F.\n333\n323"
	if b.String() != want {
		t.Fatalf("board mismatch:\n%s\nwant\n%s", b, want)
	}
	// Unknown, два бонуса, Unidentified и ещё один Unknown
	if fake.calls != 5 {
		t.Fatalf("classifier calls: got %d want 5", fake.calls)
	}
}

func TestScan_IgnoresPreviousOfDifferentSize(t *testing.T) {
	geom := testGeometry()
	img := paintFrame(geom, [][]int{
		{1, 1, 1},
		{1, 1, 1},
		{1, 1, 1},
	})
	prev := board.New(2, 2)
	prev.Set(0, 0, board.Flagged)

	b, _ := NewTracker(&colorClassifier{}, 2, nil, nil).Scan(img, geom, prev)
	if b.Count(board.Number1) != 9 {
		t.Fatalf("expected full rescan, got\n%s", b)
	}
}

func TestScan_CellOutsideFrameIsUnidentified(t *testing.T) {
	geom := testGeometry()
	geom.Rows, geom.Cols = 9, 9
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))

	b, misses := NewTracker(&colorClassifier{}, 1, nil, nil).Scan(img, geom, nil)
	if b.At(8, 8) != board.Unidentified {
		t.Fatalf("cell outside frame: got %v", b.At(8, 8))
	}
	if len(misses) == 0 {
		t.Fatal("cells outside frame must be reported as misses")
	}
}

func TestScan_WithSSIMLibrary(t *testing.T) {
	geom := geometry.Geometry{
		Origin:   image.Point{X: 0, Y: 0},
		CellSize: 12,
		Spacing:  2,
		Rows:     1,
		Cols:     2,
	}
	closed := image.NewGray(image.Rect(0, 0, 12, 12))
	opened := image.NewGray(image.Rect(0, 0, 12, 12))
	for y := 0; y < 12; y++ {
		for x := 0; x < 12; x++ {
			closed.SetGray(x, y, color.Gray{Y: uint8(100 + 10*((x+y)%2))})
			v := uint8(230)
			if x >= 5 && x <= 6 {
				v = 20
			}
			opened.SetGray(x, y, color.Gray{Y: v})
		}
	}
	lib := classifier.NewLibrary(classifier.DefaultThreshold)
	lib.Add(0, "0_closed.png", closed)
	lib.Add(1, "1_one.png", opened)

	frame := image.NewRGBA(image.Rect(0, 0, 30, 14))
	draw.Draw(frame, geom.CellRect(0, 0), closed, image.Point{}, draw.Src)
	draw.Draw(frame, geom.CellRect(0, 1), opened, image.Point{}, draw.Src)

	b, misses := NewTracker(lib, 2, nil, nil).Scan(frame, geom, nil)
	if len(misses) != 0 {
		t.Fatalf("unexpected misses: %v", misses)
	}
	if b.String() != "#1" {
		t.Fatalf("board: got %q want %q", b.String(), "#1")
	}
}
