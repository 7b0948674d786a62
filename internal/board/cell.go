package board

import "fmt"

// CellState состояние одной клетки поля
type CellState int

const (
	Unknown CellState = iota
	Number1
	Number2
	Number3
	Number4
	Number5
	Flagged
	BonusPendingA
	BonusPendingB
	SafeRevealed
	Unidentified
)

// Метки шаблонов, которыми файлы в папке шаблонов помечают состояние клетки
const (
	LabelUnknown      = 0
	LabelFlagged      = 6
	LabelBonusA       = 7
	LabelBonusB       = 8
	LabelSafeRevealed = 9
	LabelUnidentified = -1
)

// StateFromLabel переводит числовую метку шаблона в состояние клетки
func StateFromLabel(label int) (CellState, error) {
	switch label {
	case LabelUnknown:
		return Unknown, nil
	case 1:
		return Number1, nil
	case 2:
		return Number2, nil
	case 3:
		return Number3, nil
	case 4:
		return Number4, nil
	case 5:
		return Number5, nil
	case LabelFlagged:
		return Flagged, nil
	case LabelBonusA:
		return BonusPendingA, nil
	case LabelBonusB:
		return BonusPendingB, nil
	case LabelSafeRevealed:
		return SafeRevealed, nil
	}
	return Unidentified, fmt.Errorf("неизвестная метка шаблона: %d", label)
}

// Label обратное преобразование в метку шаблона
func (s CellState) Label() int {
	switch s {
	case Unknown:
		return LabelUnknown
	case Number1, Number2, Number3, Number4, Number5:
		return s.Count()
	case Flagged:
		return LabelFlagged
	case BonusPendingA:
		return LabelBonusA
	case BonusPendingB:
		return LabelBonusB
	case SafeRevealed:
		return LabelSafeRevealed
	}
	return LabelUnidentified
}

// IsNumber клетка открыта и показывает число соседних мин
func (s CellState) IsNumber() bool {
	switch s {
	case Number1, Number2, Number3, Number4, Number5:
		return true
	}
	return false
}

// Count число соседних мин для открытой клетки, 0 для остальных
func (s CellState) Count() int {
	switch s {
	case Number1:
		return 1
	case Number2:
		return 2
	case Number3:
		return 3
	case Number4:
		return 4
	case Number5:
		return 5
	}
	return 0
}

// IsBonus закрытая клетка с бонусом
func (s CellState) IsBonus() bool {
	return s == BonusPendingA || s == BonusPendingB
}

// IsUnresolved закрытая клетка, по которой ещё можно сделать ход
func (s CellState) IsUnresolved() bool {
	return s == Unknown || s.IsBonus()
}

// IsSettled состояние окончательное, повторно клетку распознавать не нужно.
// Unidentified не оседает: такую клетку распознаём заново на следующем кадре.
func (s CellState) IsSettled() bool {
	switch s {
	case Unknown, BonusPendingA, BonusPendingB, Unidentified:
		return false
	}
	return true
}

func (s CellState) String() string {
	switch s {
	case Unknown:
		return "unknown"
	case Number1, Number2, Number3, Number4, Number5:
		return fmt.Sprintf("number(%d)", s.Count())
	case Flagged:
		return "flagged"
	case BonusPendingA:
		return "bonus_a"
	case BonusPendingB:
		return "bonus_b"
	case SafeRevealed:
		return "safe"
	case Unidentified:
		return "unidentified"
	}
	return fmt.Sprintf("CellState(%d)", int(s))
}

// Symbol один символ для текстового представления доски
func (s CellState) Symbol() byte {
	switch s {
	case Unknown:
		return '#'
	case Number1, Number2, Number3, Number4, Number5:
		return byte('0' + s.Count())
	case Flagged:
		return 'F'
	case BonusPendingA:
		return 'A'
	case BonusPendingB:
		return 'B'
	case SafeRevealed:
		return '.'
	}
	return '?'
}

// StateFromSymbol обратное к Symbol, используется тестами и утилитами
func StateFromSymbol(c byte) (CellState, error) {
	switch c {
	case '#':
		return Unknown, nil
	case '1', '2', '3', '4', '5':
		return StateFromLabel(int(c - '0'))
	case 'F':
		return Flagged, nil
	case 'A':
		return BonusPendingA, nil
	case 'B':
		return BonusPendingB, nil
	case '.':
		return SafeRevealed, nil
	case '?':
		return Unidentified, nil
	}
	return Unidentified, fmt.Errorf("неизвестный символ клетки: %q", c)
}
