package tracker

import (
	"fmt"
	"image"
	"time"

	"github.com/sourcegraph/conc/pool"

	"minebot/internal/board"
	"minebot/internal/classifier"
	"minebot/internal/geometry"
	"minebot/internal/logger"
)

// Classifier распознаёт изображение одной клетки
type Classifier interface {
	Classify(sample image.Image) classifier.Match
}

// SampleSink получает нераспознанные клетки (сохранение для разметки)
type SampleSink interface {
	SaveUnique(sample image.Image, id string) (bool, error)
}

// Tracker собирает доску текущего кадра. Клетки, окончательно распознанные
// на прошлом кадре, переносятся без повторного сравнения с шаблонами.
type Tracker struct {
	classifier Classifier
	workers    int
	sink       SampleSink
	log        *logger.LoggerManager
}

// NewTracker workers <= 1 означает последовательное распознавание
func NewTracker(c Classifier, workers int, sink SampleSink, log *logger.LoggerManager) *Tracker {
	if workers < 1 {
		workers = 1
	}
	return &Tracker{classifier: c, workers: workers, sink: sink, log: log}
}

// Scan возвращает доску кадра и список клеток, которые не удалось распознать.
// prev другого размера игнорируется.
func (t *Tracker) Scan(img image.Image, geom geometry.Geometry, prev *board.Board) (*board.Board, []board.Coord) {
	b := board.New(geom.Rows, geom.Cols)
	if prev != nil && (prev.Rows != geom.Rows || prev.Cols != geom.Cols) {
		prev = nil
	}

	var pending []board.Coord
	b.Each(func(c board.Coord, _ board.CellState) {
		if prev != nil && prev.At(c.Row, c.Col).IsSettled() {
			b.Set(c.Row, c.Col, prev.At(c.Row, c.Col))
			return
		}
		pending = append(pending, c)
	})

	states := make([]board.CellState, len(pending))
	if t.workers == 1 || len(pending) < 2 {
		for i, c := range pending {
			states[i] = t.classifyCell(img, geom, c)
		}
	} else {
		p := pool.New().WithMaxGoroutines(t.workers)
		for i, c := range pending {
			p.Go(func() {
				states[i] = t.classifyCell(img, geom, c)
			})
		}
		p.Wait()
	}

	var misses []board.Coord
	for i, c := range pending {
		b.Set(c.Row, c.Col, states[i])
		if states[i] == board.Unidentified {
			misses = append(misses, c)
		}
	}

	t.log.Debug("🔎 Распознано клеток: %d, перенесено с прошлого кадра: %d, не распознано: %d",
		len(pending), geom.Rows*geom.Cols-len(pending), len(misses))
	return b, misses
}

func (t *Tracker) classifyCell(img image.Image, geom geometry.Geometry, c board.Coord) board.CellState {
	rect := geom.CellRect(c.Row, c.Col)
	if !rect.In(img.Bounds()) {
		return board.Unidentified
	}
	sample := subImage(img, rect)

	match := t.classifier.Classify(sample)
	if !match.OK {
		t.saveSample(sample, c)
		return board.Unidentified
	}
	state, err := board.StateFromLabel(match.Label)
	if err != nil {
		t.log.LogError(err, "Шаблон "+match.Name)
		return board.Unidentified
	}
	return state
}

func (t *Tracker) saveSample(sample image.Image, c board.Coord) {
	if t.sink == nil {
		return
	}
	id := fmt.Sprintf("%d_r%dc%d", time.Now().UnixNano(), c.Row, c.Col)
	if _, err := t.sink.SaveUnique(sample, id); err != nil {
		t.log.LogError(err, "Ошибка сохранения образца клетки")
	}
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

func subImage(img image.Image, r image.Rectangle) image.Image {
	if s, ok := img.(subImager); ok {
		return s.SubImage(r)
	}
	gray := classifier.ToGray(img)
	return gray.SubImage(r.Sub(img.Bounds().Min))
}
