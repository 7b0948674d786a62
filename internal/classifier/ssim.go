package classifier

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"gonum.org/v1/gonum/stat"
)

const (
	ssimWindow = 7
	ssimL      = 255.0
	ssimK1     = 0.01
	ssimK2     = 0.03
)

var (
	ssimC1 = (ssimK1 * ssimL) * (ssimK1 * ssimL)
	ssimC2 = (ssimK2 * ssimL) * (ssimK2 * ssimL)
)

// SSIM структурное сходство двух полутоновых изображений одинакового размера.
// Считается по скользящему окну 7x7 (выборочные дисперсии и ковариация),
// результат усредняется по всем окнам и ограничивается диапазоном [0,1].
func SSIM(a, b *image.Gray) float64 {
	ab, bb := a.Bounds(), b.Bounds()
	if ab.Dx() != bb.Dx() || ab.Dy() != bb.Dy() || ab.Empty() {
		return 0
	}

	winW, winH := ssimWindow, ssimWindow
	if ab.Dx() < winW {
		winW = ab.Dx()
	}
	if ab.Dy() < winH {
		winH = ab.Dy()
	}

	xs := make([]float64, winW*winH)
	ys := make([]float64, winW*winH)
	var scores []float64

	for y0 := 0; y0+winH <= ab.Dy(); y0++ {
		for x0 := 0; x0+winW <= ab.Dx(); x0++ {
			i := 0
			for y := y0; y < y0+winH; y++ {
				for x := x0; x < x0+winW; x++ {
					xs[i] = float64(a.GrayAt(ab.Min.X+x, ab.Min.Y+y).Y)
					ys[i] = float64(b.GrayAt(bb.Min.X+x, bb.Min.Y+y).Y)
					i++
				}
			}
			scores = append(scores, windowSSIM(xs, ys))
		}
	}

	score := stat.Mean(scores, nil)
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

func windowSSIM(xs, ys []float64) float64 {
	mx := stat.Mean(xs, nil)
	my := stat.Mean(ys, nil)
	vx, vy, cov := 0.0, 0.0, 0.0
	if len(xs) > 1 {
		vx = stat.Variance(xs, nil)
		vy = stat.Variance(ys, nil)
		cov = stat.Covariance(xs, ys, nil)
	}
	num := (2*mx*my + ssimC1) * (2*cov + ssimC2)
	den := (mx*mx + my*my + ssimC1) * (vx + vy + ssimC2)
	return num / den
}

// ToGray переводит изображение в оттенки серого (веса ITU-R 601, как у OpenCV)
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Rect.Min == (image.Point{}) {
		return g
	}
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return gray
}

// Resize билинейное масштабирование под размер шаблона
func Resize(img *image.Gray, w, h int) *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, w, h))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}
