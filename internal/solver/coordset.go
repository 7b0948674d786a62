package solver

import "minebot/internal/board"

// CoordSet множество клеток с сохранением порядка добавления
type CoordSet struct {
	index map[board.Coord]struct{}
	order []board.Coord
}

func NewCoordSet() *CoordSet {
	return &CoordSet{index: make(map[board.Coord]struct{})}
}

// Add возвращает true, если клетки ещё не было в множестве
func (s *CoordSet) Add(c board.Coord) bool {
	if _, ok := s.index[c]; ok {
		return false
	}
	s.index[c] = struct{}{}
	s.order = append(s.order, c)
	return true
}

// Has для nil-множества всегда false
func (s *CoordSet) Has(c board.Coord) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[c]
	return ok
}

func (s *CoordSet) Len() int {
	return len(s.order)
}

// Items клетки в порядке добавления
func (s *CoordSet) Items() []board.Coord {
	out := make([]board.Coord, len(s.order))
	copy(out, s.order)
	return out
}
