package interrupt

import (
	"context"
	"sync"

	"minebot/internal/logger"
)

// State состояние скрипта
type State int

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Controller жизненный цикл скрипта: Idle -> Start -> Running -> Stop/Done -> Idle.
// Горячие клавиши и удалённая остановка только вызывают Start/Stop.
type Controller struct {
	mu        sync.Mutex
	state     State
	cancel    context.CancelFunc
	startChan chan struct{}
	logger    *logger.LoggerManager
}

func NewController(loggerManager *logger.LoggerManager) *Controller {
	return &Controller{
		startChan: make(chan struct{}, 1),
		logger:    loggerManager,
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start переводит Idle в Running. ok=false, если скрипт уже запущен.
// Возвращённый контекст отменяется вызовом Stop или отменой parent.
func (c *Controller) Start(parent context.Context) (context.Context, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Running {
		return nil, false
	}
	ctx, cancel := context.WithCancel(parent)
	c.state = Running
	c.cancel = cancel
	c.logger.Info("▶️ Скрипт запущен")
	return ctx, true
}

// Stop отменяет контекст запущенного скрипта. Возвращает false, если скрипт не запущен.
func (c *Controller) Stop() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Running {
		return false
	}
	c.cancel()
	c.logger.Info("⏹️ Получен сигнал остановки")
	return true
}

// Done вызывается, когда цикл вернулся; Controller снова в Idle
func (c *Controller) Done() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.state = Idle
}

// RequestStart запрос на запуск (горячая клавиша); повторные запросы схлопываются
func (c *Controller) RequestStart() {
	select {
	case c.startChan <- struct{}{}:
	default:
	}
}

// StartRequests канал запросов на запуск
func (c *Controller) StartRequests() <-chan struct{} {
	return c.startChan
}
