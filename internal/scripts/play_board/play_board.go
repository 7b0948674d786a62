package play_board

import (
	"context"
	"errors"
	"image"
	"time"

	"minebot/internal/board"
	"minebot/internal/database"
	"minebot/internal/geometry"
	"minebot/internal/logger"
	"minebot/internal/solver"
)

// ErrNoMoves ходов нет даже после повторных попыток: закрытыми остались только мины или ничего
var ErrNoMoves = errors.New("no moves left")

type Capturer interface {
	Capture() (*image.RGBA, error)
}

type Calibrator interface {
	Calibrate(img image.Image, anchor *image.Rectangle) (geometry.Result, error)
}

// AnchorFinder ищет ориентир, ниже и правее которого лежит поле
type AnchorFinder interface {
	Find(img image.Image) (image.Rectangle, error)
}

type Scanner interface {
	Scan(img image.Image, geom geometry.Geometry, prev *board.Board) (*board.Board, []board.Coord)
}

// Solver локальный вывод или удалённый решатель
type Solver interface {
	Name() string
	Solve(ctx context.Context, b *board.Board, mines int) ([]board.Move, error)
}

type Actuator interface {
	Execute(move board.Move, geom geometry.Geometry) error
	ParkCursor() error
	PressKey(key string) error
}

// StopChecker внешний сигнал остановки (действие "stop" в базе)
type StopChecker interface {
	CheckStop() (bool, error)
}

type Recorder interface {
	SaveCycle(rec database.CycleRecord) (int, error)
}

type FrameSaver interface {
	SaveImage(img image.Image, prefix string) (string, error)
}

// Deps зависимости цикла; Anchor, Stop, Recorder и Frames необязательны
type Deps struct {
	Capturer   Capturer
	Calibrator Calibrator
	Anchor     AnchorFinder
	Scanner    Scanner
	Solver     Solver
	Actuator   Actuator
	Stop       StopChecker
	Recorder   Recorder
	Frames     FrameSaver
}

type Options struct {
	// MaxFailedCycles сколько циклов подряд без уверенного хода допускается до хода наугад
	MaxFailedCycles int
	// GuessKey клавиша, которая нажимается перед ходом наугад; пустая строка, чтобы не нажимать
	GuessKey string
	// RetryDelay пауза после неудачного цикла
	RetryDelay time.Duration
}

// Runner основной цикл: снимок, калибровка, распознавание, вывод, ходы
type Runner struct {
	deps   Deps
	opts   Options
	logger *logger.LoggerManager

	geom   *geometry.Result
	prev   *board.Board
	failed int
}

func New(deps Deps, opts Options, loggerManager *logger.LoggerManager) *Runner {
	if opts.MaxFailedCycles < 0 {
		opts.MaxFailedCycles = 0
	}
	return &Runner{deps: deps, opts: opts, logger: loggerManager}
}

// Run крутит циклы до отмены ctx (nil), сигнала остановки (nil) или ошибки.
// ErrNoMoves означает, что ходить больше некуда.
func (r *Runner) Run(ctx context.Context) error {
	r.reset()
	for cycle := 1; ; cycle++ {
		if ctx.Err() != nil {
			r.logger.Info("⏹️ Остановка по запросу пользователя")
			return nil
		}
		if r.stopRequested() {
			r.logger.Info("⏹️ Прерывание по действию 'stop' из базы данных")
			return nil
		}

		done, err := r.cycle(ctx, cycle)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

func (r *Runner) stopRequested() bool {
	if r.deps.Stop == nil {
		return false
	}
	stop, err := r.deps.Stop.CheckStop()
	if err != nil {
		r.logger.LogError(err, "Ошибка проверки действий в базе данных")
		return false
	}
	return stop
}

func (r *Runner) reset() {
	r.geom = nil
	r.prev = nil
	r.failed = 0
}

// cycle один проход. done=true, если цикл прерван отменой ctx.
func (r *Runner) cycle(ctx context.Context, n int) (bool, error) {
	if err := r.deps.Actuator.ParkCursor(); err != nil {
		return false, err
	}

	img, err := r.deps.Capturer.Capture()
	if err != nil {
		r.logger.LogError(err, "Ошибка при захвате скриншота")
		r.invalidate()
		return r.pause(ctx), nil
	}

	if r.geom == nil || !r.geom.Geometry.Matches(img.Bounds()) {
		res, err := r.calibrate(img)
		if err != nil {
			r.logger.Warn("🔍 Поле не найдено: %v", err)
			r.saveFrame(img, "not_found")
			r.invalidate()
			return r.pause(ctx), nil
		}
		r.geom = &res
		r.prev = nil
		r.logger.Info("📐 Поле %dx%d, мин %d, клетка %d px, масштаб %.2f",
			res.Size.Rows, res.Size.Cols, res.Size.Mines, res.Geometry.CellSize, res.Geometry.Factor)
	}
	// геометрия этого кадра; r.geom может быть сброшен ниже
	res := *r.geom

	b, misses := r.deps.Scanner.Scan(img, res.Geometry, r.prev)
	if len(misses) > 0 {
		r.logger.Debug("❓ Нераспознанные клетки: %v", misses)
	}
	r.logger.Debug("Цикл %d, доска:\n%s", n, b)

	moves, err := r.deps.Solver.Solve(ctx, b, res.Size.Mines)
	if ctx.Err() != nil {
		return true, nil
	}
	if err != nil && !errors.Is(err, solver.ErrNoMove) {
		r.logger.Warn("⚠️ Решатель %s не дал ход: %v", r.deps.Solver.Name(), err)
		moves = nil
		r.invalidate()
	}

	if len(moves) > 0 && moves[0].Kind != board.Guess {
		r.failed = 0
		r.prev = b
		return r.act(ctx, res, b, moves)
	}

	if r.failed < r.opts.MaxFailedCycles+1 {
		// перепроверяем поле с нуля, прежде чем ходить наугад
		r.failed++
		r.prev = nil
		r.logger.Info("🔁 Нет уверенного хода, повтор %d/%d", r.failed, r.opts.MaxFailedCycles+1)
		return r.pause(ctx), nil
	}

	guess, ok := r.forcedGuess(b, moves)
	if !ok {
		r.logger.Info("🏁 Закрытых клеток, кроме мин, не осталось")
		return false, ErrNoMoves
	}
	r.failed = 0
	r.prev = b
	r.logger.Info("🎲 Ход наугад: %v", guess)
	if r.opts.GuessKey != "" {
		if err := r.deps.Actuator.PressKey(r.opts.GuessKey); err != nil {
			return false, err
		}
	}
	return r.act(ctx, res, b, []board.Move{guess})
}

func (r *Runner) forcedGuess(b *board.Board, moves []board.Move) (board.Move, bool) {
	if len(moves) > 0 {
		return moves[0], true
	}
	c, ok := solver.SafeGuess(b)
	if !ok {
		return board.Move{}, false
	}
	return board.Move{Kind: board.Guess, Row: c.Row, Col: c.Col}, true
}

func (r *Runner) calibrate(img image.Image) (geometry.Result, error) {
	var rect *image.Rectangle
	if r.deps.Anchor != nil {
		found, err := r.deps.Anchor.Find(img)
		if err != nil {
			return geometry.Result{}, err
		}
		rect = &found
	}
	return r.deps.Calibrator.Calibrate(img, rect)
}

// act выполняет ходы по порядку, проверяя отмену перед каждым
func (r *Runner) act(ctx context.Context, res geometry.Result, b *board.Board, moves []board.Move) (bool, error) {
	executed := make([]board.Move, 0, len(moves))
	defer func() {
		if len(executed) > 0 {
			r.record(res.Size.Mines, b, executed)
		}
	}()

	for _, m := range moves {
		if ctx.Err() != nil {
			r.logger.Info("⏹️ Прерывание посреди хода, выполнено %d из %d", len(executed), len(moves))
			return true, nil
		}
		if err := r.deps.Actuator.Execute(m, res.Geometry); err != nil {
			return false, err
		}
		executed = append(executed, m)
	}
	r.logger.Info("✅ %s: %s", r.deps.Solver.Name(), database.FormatMoves(executed))
	return false, nil
}

func (r *Runner) record(mines int, b *board.Board, moves []board.Move) {
	if r.deps.Recorder == nil {
		return
	}
	rec := database.NewCycleRecord(b, mines, moves, r.deps.Solver.Name())
	if _, err := r.deps.Recorder.SaveCycle(rec); err != nil {
		r.logger.LogError(err, "Ошибка при сохранении цикла в базу")
	}
}

// invalidate сбрасывает геометрию и доску: следующий кадр распознаётся с нуля
func (r *Runner) invalidate() {
	r.geom = nil
	r.prev = nil
}

func (r *Runner) saveFrame(img image.Image, prefix string) {
	if r.deps.Frames == nil {
		return
	}
	if _, err := r.deps.Frames.SaveImage(img, prefix); err != nil {
		r.logger.LogError(err, "Ошибка сохранения изображения")
	}
}

// pause ждёт RetryDelay; true, если за это время ctx отменён
func (r *Runner) pause(ctx context.Context) bool {
	if r.opts.RetryDelay <= 0 {
		return ctx.Err() != nil
	}
	t := time.NewTimer(r.opts.RetryDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return true
	case <-t.C:
		return false
	}
}
