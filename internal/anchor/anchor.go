package anchor

import (
	"fmt"
	"image"
	"image/draw"

	"gocv.io/x/gocv"

	"minebot/internal/geometry"
)

// ErrAnchorNotFound ориентир не найден на кадре с нужной уверенностью.
// Для цикла это то же, что geometry.ErrBoardNotFound.
var ErrAnchorNotFound = fmt.Errorf("%w: anchor not found", geometry.ErrBoardNotFound)

// Finder ищет на кадре заранее снятый ориентир (например, заголовок окна игры).
// Поле ищется ниже и правее найденного прямоугольника.
type Finder struct {
	templ     gocv.Mat
	size      image.Point
	threshold float32
}

// Load читает изображение ориентира в градациях серого
func Load(path string, threshold float64) (*Finder, error) {
	templ := gocv.IMRead(path, gocv.IMReadGrayScale)
	if templ.Empty() {
		templ.Close()
		return nil, fmt.Errorf("не удалось прочитать ориентир %s", path)
	}
	return &Finder{
		templ:     templ,
		size:      image.Pt(templ.Cols(), templ.Rows()),
		threshold: float32(threshold),
	}, nil
}

func (f *Finder) Close() error {
	return f.templ.Close()
}

// Find прямоугольник ориентира в координатах кадра (TM_CCOEFF_NORMED)
func (f *Finder) Find(img image.Image) (image.Rectangle, error) {
	bounds := img.Bounds()
	if bounds.Dx() < f.size.X || bounds.Dy() < f.size.Y {
		return image.Rectangle{}, fmt.Errorf("%w: кадр %v меньше ориентира %v", ErrAnchorNotFound, bounds.Size(), f.size)
	}

	rgba := toRGBA(img)
	mat, err := gocv.NewMatFromBytes(bounds.Dy(), bounds.Dx(), gocv.MatTypeCV8UC4, rgba.Pix)
	if err != nil {
		return image.Rectangle{}, fmt.Errorf("ошибка конвертации кадра: %w", err)
	}
	defer mat.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorRGBAToGray)

	result := gocv.NewMat()
	defer result.Close()
	mask := gocv.NewMat()
	defer mask.Close()
	gocv.MatchTemplate(gray, f.templ, &result, gocv.TmCcoeffNormed, mask)

	_, maxVal, _, maxLoc := gocv.MinMaxLoc(result)
	if maxVal < f.threshold {
		return image.Rectangle{}, fmt.Errorf("%w: лучшее совпадение %.2f < %.2f", ErrAnchorNotFound, maxVal, f.threshold)
	}

	min := bounds.Min.Add(maxLoc)
	return image.Rectangle{Min: min, Max: min.Add(f.size)}, nil
}

// toRGBA непрерывный буфер RGBA с началом в (0,0)
func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) && rgba.Stride == 4*b.Dx() {
		return rgba
	}
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
