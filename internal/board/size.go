package board

// Size поддерживаемый размер поля и число мин на нём
type Size struct {
	Rows  int `mapstructure:"rows"`
	Cols  int `mapstructure:"cols"`
	Mines int `mapstructure:"mines"`
}

// DefaultSizes таблица размеров игры. Размер и число мин хранятся в одной записи,
// чтобы калибровка и подсчёт мин не расходились.
var DefaultSizes = []Size{
	{Rows: 9, Cols: 9, Mines: 10},
	{Rows: 11, Cols: 12, Mines: 21},
	{Rows: 13, Cols: 15, Mines: 33},
	{Rows: 14, Cols: 18, Mines: 45},
	{Rows: 16, Cols: 20, Mines: 64},
}

// LookupSize ищет размер rows x cols в таблице
func LookupSize(table []Size, rows, cols int) (Size, bool) {
	for _, s := range table {
		if s.Rows == rows && s.Cols == cols {
			return s, true
		}
	}
	return Size{}, false
}
