package click_manager

import (
	"fmt"
	"image"
	"time"

	"minebot/internal/board"
	"minebot/internal/geometry"
	"minebot/internal/logger"
)

// Mouse устройство ввода (Arduino)
type Mouse interface {
	Click(x, y int) error
	RightClick(x, y int) error
	Move(x, y int) error
	PressKey(key string) error
}

// ParkPoint куда уводится курсор перед снимком, чтобы не закрывать поле
var ParkPoint = image.Point{X: 10, Y: 10}

// ClickManager переводит ходы в клики по экрану
type ClickManager struct {
	device  Mouse
	marginX int
	marginY int
	delay   time.Duration
	logger  *logger.LoggerManager
}

// NewClickManager marginX/marginY положение захваченной области на экране
func NewClickManager(device Mouse, marginX, marginY int, delay time.Duration, loggerManager *logger.LoggerManager) *ClickManager {
	return &ClickManager{
		device:  device,
		marginX: marginX,
		marginY: marginY,
		delay:   delay,
		logger:  loggerManager,
	}
}

// ScreenPoint центр клетки в экранных координатах
func (m *ClickManager) ScreenPoint(geom geometry.Geometry, row, col int) image.Point {
	p := geom.CellCenter(row, col)
	return image.Point{X: m.marginX + p.X, Y: m.marginY + p.Y}
}

// Execute Click и Guess это левый клик по центру клетки, Flag это правый клик
func (m *ClickManager) Execute(move board.Move, geom geometry.Geometry) error {
	p := m.ScreenPoint(geom, move.Row, move.Col)

	var err error
	switch move.Kind {
	case board.Click, board.Guess:
		err = m.device.Click(p.X, p.Y)
	case board.Flag:
		err = m.device.RightClick(p.X, p.Y)
	default:
		return fmt.Errorf("неизвестный тип хода: %v", move.Kind)
	}
	if err != nil {
		return fmt.Errorf("ход %v в точке %v: %w", move, p, err)
	}

	m.logger.Debug("🖱️ %v -> (%d, %d)", move, p.X, p.Y)
	m.pause()
	return nil
}

// ParkCursor уводит курсор с поля
func (m *ClickManager) ParkCursor() error {
	if err := m.device.Move(ParkPoint.X, ParkPoint.Y); err != nil {
		return fmt.Errorf("не удалось убрать курсор: %w", err)
	}
	return nil
}

func (m *ClickManager) PressKey(key string) error {
	if err := m.device.PressKey(key); err != nil {
		return fmt.Errorf("не удалось нажать %q: %w", key, err)
	}
	m.pause()
	return nil
}

func (m *ClickManager) pause() {
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
}
