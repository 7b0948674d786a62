package geometry

import (
	"image"
	"math"
)

// Reference геометрия поля в эталонном разрешении экрана.
// Все длины пересчитываются под фактический размер кадра.
type Reference struct {
	Width            int   `mapstructure:"width"`
	Height           int   `mapstructure:"height"`
	CellSize         int   `mapstructure:"cell_size"`
	Spacing          int   `mapstructure:"spacing"`
	Offset           int   `mapstructure:"offset"`
	TrimX            int   `mapstructure:"trim_x"`
	TrimY            int   `mapstructure:"trim_y"`
	TopLeftColor     Color `mapstructure:"top_left_color"`
	BottomRightColor Color `mapstructure:"bottom_right_color"`
}

// DefaultReference значения, под которые снимались шаблоны клеток (1920x1080)
func DefaultReference() Reference {
	border := Color{R: 39, G: 29, B: 17}
	return Reference{
		Width:            1920,
		Height:           1080,
		CellSize:         34,
		Spacing:          2,
		Offset:           3,
		TrimX:            5,
		TrimY:            1,
		TopLeftColor:     border,
		BottomRightColor: border,
	}
}

// Scaled эталонные длины, пересчитанные под кадр
type Scaled struct {
	Factor   float64
	CellSize int
	Spacing  int
	Offset   int
	TrimX    int
	TrimY    int
}

// Scale пересчитывает длины под кадр frameW x frameH.
// Обе оси масштабируются одним коэффициентом (минимум из двух), пропорции клеток сохраняются.
func (r Reference) Scale(frameW, frameH int) Scaled {
	factor := 1.0
	if r.Width > 0 && r.Height > 0 && frameW > 0 && frameH > 0 {
		factor = math.Min(float64(frameW)/float64(r.Width), float64(frameH)/float64(r.Height))
	}
	scale := func(v int) int {
		return int(math.Round(float64(v) * factor))
	}
	s := Scaled{
		Factor:   factor,
		CellSize: scale(r.CellSize),
		Spacing:  scale(r.Spacing),
		Offset:   scale(r.Offset),
		TrimX:    scale(r.TrimX),
		TrimY:    scale(r.TrimY),
	}
	if s.CellSize < 1 {
		s.CellSize = 1
	}
	return s
}

// Geometry положение сетки на конкретном кадре
type Geometry struct {
	Origin   image.Point // левый верхний угол сетки после обрезки рамки
	CellSize int
	Spacing  int
	Trim     image.Point // обрезка рамки поля
	Offset   image.Point // отступ области распознавания внутри клетки
	Factor   float64
	Frame    image.Point // размер кадра, под который выполнена калибровка
	Rows     int
	Cols     int
}

// Pitch шаг сетки: клетка плюс промежуток
func (g Geometry) Pitch() int {
	return g.CellSize + g.Spacing
}

// CellRect область кадра, которую сравниваем с шаблонами
func (g Geometry) CellRect(row, col int) image.Rectangle {
	x := g.Origin.X + col*g.Pitch() + g.Offset.X
	y := g.Origin.Y + row*g.Pitch() + g.Offset.Y
	return image.Rect(x, y, x+g.CellSize, y+g.CellSize)
}

// CellCenter точка клика по клетке
func (g Geometry) CellCenter(row, col int) image.Point {
	return image.Point{
		X: g.Origin.X + col*g.Pitch() + g.CellSize/2,
		Y: g.Origin.Y + row*g.Pitch() + g.CellSize/2,
	}
}

// Matches проверяет, что геометрия подходит кадру такого размера
func (g Geometry) Matches(frame image.Rectangle) bool {
	return g.Frame.X == frame.Dx() && g.Frame.Y == frame.Dy()
}
