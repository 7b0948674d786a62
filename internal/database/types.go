package database

import (
	"strings"

	"minebot/internal/board"
)

// CycleRecord один отработанный цикл: что увидели и что сделали
type CycleRecord struct {
	ID        int
	Board     string
	Rows      int
	Cols      int
	Mines     int
	Moves     string
	Solver    string
	CreatedAt string
}

// NewCycleRecord собирает запись из доски и выполненных ходов
func NewCycleRecord(b *board.Board, mines int, moves []board.Move, solver string) CycleRecord {
	return CycleRecord{
		Board:  b.String(),
		Rows:   b.Rows,
		Cols:   b.Cols,
		Mines:  mines,
		Moves:  FormatMoves(moves),
		Solver: solver,
	}
}

// FormatMoves ходы одной строкой через пробел: "flag(3,3) click(0,2)"
func FormatMoves(moves []board.Move) string {
	parts := make([]string, 0, len(moves))
	for _, m := range moves {
		parts = append(parts, m.String())
	}
	return strings.Join(parts, " ")
}

type Status struct {
	ID            int
	CurrentStatus string
	UpdatedAt     string
}

type Action struct {
	ID        int
	Action    string
	Executed  bool
	CreatedAt string
}

// Значения статуса, которые пишет бот
const (
	StatusRunning = "running"
	StatusStopped = "stopped"
	StatusIdle    = "idle"
)

// ActionStop действие, по которому бот останавливается
const ActionStop = "stop"

// Sample нераспознанная клетка из базы
type Sample struct {
	ID        int
	SampleID  string
	ImageData []byte
	CreatedAt string
}
