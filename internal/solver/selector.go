package solver

import (
	"context"
	"errors"

	"minebot/internal/board"
)

// ErrNoMove на доске не осталось закрытых клеток: игра окончена или тупик
var ErrNoMove = errors.New("no move available")

// Select превращает выводы в упорядоченный список ходов.
// Приоритет: флаги, затем бонусные безопасные клетки, затем обычные безопасные,
// иначе одна догадка не на выведенную мину. nil означает, что ходить некуда.
func Select(b *board.Board, d *Discoveries) []board.Move {
	if len(d.Flags) > 0 {
		return movesFor(board.Flag, d.Flags)
	}
	if d.BonusSafe.Len() > 0 {
		return movesFor(board.Click, d.BonusSafe.Items())
	}
	if d.Safe.Len() > 0 {
		var clicks []board.Coord
		for _, c := range d.Safe.Items() {
			if b.At(c.Row, c.Col).IsUnresolved() {
				clicks = append(clicks, c)
			}
		}
		if len(clicks) > 0 {
			return movesFor(board.Click, clicks)
		}
	}

	if c, ok := GuessCell(b, d.Mines); ok {
		return []board.Move{{Kind: board.Guess, Row: c.Row, Col: c.Col}}
	}
	return nil
}

// GuessCell клетка для хода наугад: сначала бонус A, потом бонус B,
// потом закрытая клетка рядом с числом, потом любая закрытая (первая по строкам).
// Клетки из mines пропускаются на всех уровнях; mines может быть nil.
func GuessCell(b *board.Board, mines *CoordSet) (board.Coord, bool) {
	tiers := []func(c board.Coord, s board.CellState) bool{
		func(_ board.Coord, s board.CellState) bool { return s == board.BonusPendingA },
		func(_ board.Coord, s board.CellState) bool { return s == board.BonusPendingB },
		func(c board.Coord, s board.CellState) bool { return s == board.Unknown && nextToNumber(b, c) },
		func(_ board.Coord, s board.CellState) bool { return s == board.Unknown },
	}
	for _, match := range tiers {
		var found board.Coord
		ok := false
		b.Each(func(c board.Coord, s board.CellState) {
			if !ok && !mines.Has(c) && match(c, s) {
				found, ok = c, true
			}
		})
		if ok {
			return found, true
		}
	}
	return board.Coord{}, false
}

// SafeGuess догадка по доске без готовых выводов: сначала локальный вывод,
// чтобы не открыть клетку, которая уже доказана миной
func SafeGuess(b *board.Board) (board.Coord, bool) {
	var e Engine
	return GuessCell(b, e.Deduce(b).Mines)
}

func nextToNumber(b *board.Board, c board.Coord) bool {
	for _, n := range b.Neighbors(c) {
		if b.At(n.Row, n.Col).IsNumber() {
			return true
		}
	}
	return false
}

func movesFor(kind board.MoveKind, cells []board.Coord) []board.Move {
	moves := make([]board.Move, 0, len(cells))
	for _, c := range cells {
		moves = append(moves, board.Move{Kind: kind, Row: c.Row, Col: c.Col})
	}
	return moves
}

// Local решатель на этой машине: полный вывод заново на каждом цикле
type Local struct {
	Engine Engine
}

func (l *Local) Name() string {
	return "local"
}

// Solve ходы для доски; mines не используется локальным выводом
func (l *Local) Solve(_ context.Context, b *board.Board, _ int) ([]board.Move, error) {
	moves := Select(b, l.Engine.Deduce(b))
	if len(moves) == 0 {
		return nil, ErrNoMove
	}
	return moves, nil
}
