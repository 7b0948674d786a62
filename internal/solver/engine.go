package solver

import "minebot/internal/board"

// DefaultMaxPasses ограничение на число проходов до неподвижной точки
const DefaultMaxPasses = 64

// Discoveries накопленные выводы по доске
type Discoveries struct {
	Safe      *CoordSet // безопасные обычные клетки
	BonusSafe *CoordSet // безопасные клетки с бонусом
	Mines     *CoordSet // все найденные мины, до проверки подтверждения

	Flags       []board.Coord // мины, прошедшие проверку подтверждения
	Unconfirmed []board.Coord // мины без независимого подтверждения, флаг не ставим

	Passes int
}

func newDiscoveries() *Discoveries {
	return &Discoveries{
		Safe:      NewCoordSet(),
		BonusSafe: NewCoordSet(),
		Mines:     NewCoordSet(),
	}
}

// Empty ничего не найдено
func (d *Discoveries) Empty() bool {
	return d.Safe.Len() == 0 && d.BonusSafe.Len() == 0 && d.Mines.Len() == 0
}

// Engine логический вывод по числам на открытых клетках.
//
// Каждый проход заново читает исходную доску: найденные мины на доске не
// отмечаются, поэтому выводы, которые требуют уже поставленного флага,
// движок не находит. Повторные проходы сходятся, потому что дают те же множества.
type Engine struct {
	MaxPasses int
	// OnPass вызывается после каждого прохода с накопленными множествами
	OnPass func(pass int, d *Discoveries)
}

// Deduce повторяет проход правил до тех пор, пока проход добавляет новые клетки
func (e *Engine) Deduce(b *board.Board) *Discoveries {
	maxPasses := e.MaxPasses
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}

	d := newDiscoveries()
	for d.Passes < maxPasses {
		d.Passes++
		changed := rulePass(b, d)
		if e.OnPass != nil {
			e.OnPass(d.Passes, d)
		}
		if !changed {
			break
		}
	}

	for _, c := range d.Mines.Items() {
		if confirmed(b, c) {
			d.Flags = append(d.Flags, c)
		} else {
			d.Unconfirmed = append(d.Unconfirmed, c)
		}
	}
	return d
}

// rulePass один проход по всем клеткам с числом. Возвращает true, если что-то добавилось.
func rulePass(b *board.Board, d *Discoveries) bool {
	changed := false
	b.Each(func(c board.Coord, state board.CellState) {
		if !state.IsNumber() {
			return
		}
		count := state.Count()

		flagged := 0
		var unresolved []board.Coord
		for _, n := range b.Neighbors(c) {
			ns := b.At(n.Row, n.Col)
			switch {
			case ns == board.Flagged:
				flagged++
			case ns.IsUnresolved():
				unresolved = append(unresolved, n)
			}
		}

		switch {
		case flagged == count:
			for _, n := range unresolved {
				if d.Safe.Has(n) || d.BonusSafe.Has(n) {
					continue
				}
				if b.At(n.Row, n.Col).IsBonus() {
					d.BonusSafe.Add(n)
				} else {
					d.Safe.Add(n)
				}
				changed = true
			}
		case count-flagged == len(unresolved):
			for _, n := range unresolved {
				if d.Mines.Add(n) {
					changed = true
				}
			}
		}
	})
	return changed
}

// confirmed у мины есть флаг по соседству либо два открытых числа рядом:
// одно из чисел всегда то, из которого мина выведена, второе её подтверждает.
func confirmed(b *board.Board, c board.Coord) bool {
	numbers := 0
	for _, n := range b.Neighbors(c) {
		ns := b.At(n.Row, n.Col)
		if ns == board.Flagged {
			return true
		}
		if ns.IsNumber() {
			numbers++
		}
	}
	return numbers >= 2
}
