package geometry

import (
	"errors"
	"fmt"
	"image"

	"minebot/internal/board"
)

var (
	// ErrBoardNotFound на кадре нет пикселей-маркеров рамки поля
	ErrBoardNotFound = errors.New("board not found")
	// ErrInvalidBoardSize рамка найдена, но размер сетки не из таблицы
	ErrInvalidBoardSize = errors.New("invalid board size")
)

// Result результат калибровки: геометрия сетки и размер поля с числом мин
type Result struct {
	Geometry Geometry
	Size     board.Size
}

// Calibrator ищет сетку на кадре по цветам рамки
type Calibrator struct {
	ref   Reference
	sizes []board.Size
}

// NewCalibrator создает калибратор; пустая таблица размеров заменяется таблицей по умолчанию
func NewCalibrator(ref Reference, sizes []board.Size) *Calibrator {
	if len(sizes) == 0 {
		sizes = board.DefaultSizes
	}
	return &Calibrator{ref: ref, sizes: sizes}
}

// Calibrate находит левый верхний (первый по строкам) и правый нижний (последний)
// пиксели-маркеры, обрезает рамку и считает число строк и столбцов.
// Если передан anchor, поиск идёт только правее и ниже его левого верхнего угла.
func (c *Calibrator) Calibrate(img image.Image, anchor *image.Rectangle) (Result, error) {
	bounds := img.Bounds()
	region := bounds
	if anchor != nil {
		region = image.Rect(anchor.Min.X, anchor.Min.Y, bounds.Max.X, bounds.Max.Y).Intersect(bounds)
	}

	topLeft, bottomRight, found := c.findMarkers(img, region)
	if !found {
		return Result{}, fmt.Errorf("%w: no border pixels in %v", ErrBoardNotFound, region)
	}

	scaled := c.ref.Scale(bounds.Dx(), bounds.Dy())

	// Маркеры лежат на внутренней кромке рамки, компенсируем её толщину
	topLeft = image.Point{X: topLeft.X - scaled.TrimX, Y: topLeft.Y + scaled.TrimY}
	bottomRight = image.Point{X: bottomRight.X + scaled.TrimX, Y: bottomRight.Y - scaled.TrimY}

	pitch := scaled.CellSize + scaled.Spacing
	gridWidth := bottomRight.X - topLeft.X
	gridHeight := bottomRight.Y - topLeft.Y
	cols, rows := 0, 0
	if gridWidth > 0 && gridHeight > 0 {
		cols = gridWidth / pitch
		rows = gridHeight / pitch
	}

	size, ok := board.LookupSize(c.sizes, rows, cols)
	if !ok {
		return Result{}, fmt.Errorf("%w: %dx%d", ErrInvalidBoardSize, rows, cols)
	}

	return Result{
		Geometry: Geometry{
			Origin:   topLeft,
			CellSize: scaled.CellSize,
			Spacing:  scaled.Spacing,
			Trim:     image.Point{X: scaled.TrimX, Y: scaled.TrimY},
			Offset:   image.Point{X: scaled.Offset, Y: scaled.Offset},
			Factor:   scaled.Factor,
			Frame:    image.Point{X: bounds.Dx(), Y: bounds.Dy()},
			Rows:     rows,
			Cols:     cols,
		},
		Size: size,
	}, nil
}

func (c *Calibrator) findMarkers(img image.Image, region image.Rectangle) (topLeft, bottomRight image.Point, found bool) {
	foundTopLeft, foundBottomRight := false, false
	for y := region.Min.Y; y < region.Max.Y; y++ {
		for x := region.Min.X; x < region.Max.X; x++ {
			px := GetPixelColor(img, x, y)
			if !foundTopLeft && px == c.ref.TopLeftColor {
				topLeft = image.Point{X: x, Y: y}
				foundTopLeft = true
			}
			if px == c.ref.BottomRightColor {
				bottomRight = image.Point{X: x, Y: y}
				foundBottomRight = true
			}
		}
	}
	return topLeft, bottomRight, foundTopLeft && foundBottomRight
}
