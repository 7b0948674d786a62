package geometry

import "image"

// Color цвет пикселя-маркера в RGB
type Color struct {
	R uint8 `mapstructure:"r"`
	G uint8 `mapstructure:"g"`
	B uint8 `mapstructure:"b"`
}

// GetPixelColor получает цвет пикселя по координатам.
// Для *image.RGBA (так отдаёт кадры kbinani/screenshot) читаем Pix напрямую,
// через At() полный кадр сканируется в разы дольше.
func GetPixelColor(img image.Image, x, y int) Color {
	if rgba, ok := img.(*image.RGBA); ok {
		i := rgba.PixOffset(x, y)
		return Color{R: rgba.Pix[i], G: rgba.Pix[i+1], B: rgba.Pix[i+2]}
	}
	r, g, b, _ := img.At(x, y).RGBA()
	return Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
}
