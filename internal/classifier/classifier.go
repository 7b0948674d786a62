package classifier

import (
	"image"
)

const (
	// DefaultThreshold минимальное сходство, при котором шаблон считается совпавшим
	DefaultThreshold = 0.6
	// UnlabeledLabel метка образцов, ещё не размеченных вручную
	UnlabeledLabel = -1
)

// Template эталонное изображение клетки с числовой меткой
type Template struct {
	Label int
	Name  string
	Image *image.Gray
}

// Match результат сравнения образца с библиотекой
type Match struct {
	Label int
	Name  string
	Score float64
	OK    bool
}

// Library упорядоченный набор шаблонов. Порядок добавления решает ничьи:
// при равном сходстве побеждает шаблон, добавленный раньше.
type Library struct {
	threshold float64
	templates []Template
}

// NewLibrary создает пустую библиотеку; threshold <= 0 заменяется DefaultThreshold
func NewLibrary(threshold float64) *Library {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Library{threshold: threshold}
}

func (l *Library) Threshold() float64 {
	return l.threshold
}

func (l *Library) Len() int {
	return len(l.templates)
}

// Templates копия списка шаблонов в порядке добавления
func (l *Library) Templates() []Template {
	out := make([]Template, len(l.templates))
	copy(out, l.templates)
	return out
}

// Add добавляет шаблон без проверки на уникальность (загрузка из хранилища)
func (l *Library) Add(label int, name string, img image.Image) {
	l.templates = append(l.templates, Template{Label: label, Name: name, Image: ToGray(img)})
}

// Classify ищет шаблон с наибольшим сходством. Образец масштабируется под размер
// шаблона, если размеры отличаются. Совпадение засчитывается при score >= threshold.
func (l *Library) Classify(sample image.Image) Match {
	gray := ToGray(sample)
	best := Match{Label: -1}
	found := false
	for _, tpl := range l.templates {
		score := SSIM(tpl.Image, fitTo(gray, tpl.Image))
		if score > best.Score {
			best = Match{Label: tpl.Label, Name: tpl.Name, Score: score}
			found = true
		}
	}
	best.OK = found && best.Score >= l.threshold
	return best
}

// IsUnique образец не похож ни на один шаблон
func (l *Library) IsUnique(sample image.Image) bool {
	gray := ToGray(sample)
	for _, tpl := range l.templates {
		if SSIM(tpl.Image, fitTo(gray, tpl.Image)) >= l.threshold {
			return false
		}
	}
	return true
}

// Register добавляет образец, только если он не похож ни на один шаблон
func (l *Library) Register(label int, name string, sample image.Image) bool {
	if !l.IsUnique(sample) {
		return false
	}
	l.Add(label, name, sample)
	return true
}

func fitTo(sample, tpl *image.Gray) *image.Gray {
	sb, tb := sample.Bounds(), tpl.Bounds()
	if sb.Dx() == tb.Dx() && sb.Dy() == tb.Dy() {
		return sample
	}
	return Resize(sample, tb.Dx(), tb.Dy())
}
