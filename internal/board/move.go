package board

import "fmt"

type MoveKind int

const (
	Click MoveKind = iota
	Flag
	Guess
)

func (k MoveKind) String() string {
	switch k {
	case Click:
		return "click"
	case Flag:
		return "flag"
	case Guess:
		return "guess"
	}
	return fmt.Sprintf("MoveKind(%d)", int(k))
}

// Move действие над клеткой, которое выполняет актуатор
type Move struct {
	Kind MoveKind
	Row  int
	Col  int
}

func (m Move) Coord() Coord {
	return Coord{Row: m.Row, Col: m.Col}
}

func (m Move) String() string {
	return fmt.Sprintf("%s(%d,%d)", m.Kind, m.Row, m.Col)
}
