package main

import (
	"context"
	"errors"
	"image"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"github.com/tarm/serial"

	"minebot/internal/anchor"
	"minebot/internal/arduino"
	"minebot/internal/click_manager"
	"minebot/internal/config"
	"minebot/internal/database"
	"minebot/internal/geometry"
	"minebot/internal/interrupt"
	"minebot/internal/logger"
	"minebot/internal/remote"
	playBoard "minebot/internal/scripts/play_board"
	"minebot/internal/screenshot"
	"minebot/internal/solver"
	"minebot/internal/templates"
	"minebot/internal/tracker"
)

// sampleSink сохраняет новый образец на диск и, если включено, в базу
type sampleSink struct {
	store     *templates.Store
	dbManager *database.DatabaseManager
}

func (s *sampleSink) SaveUnique(sample image.Image, id string) (bool, error) {
	saved, err := s.store.SaveUnique(sample, id)
	if err != nil || !saved {
		return saved, err
	}
	if s.dbManager != nil {
		s.dbManager.SaveSample(id, sample)
	}
	return true, nil
}

func main() {
	configPath := pflag.StringP("config", "c", "", "путь к config.yaml")
	pflag.Parse()

	// init конфигурации
	c, err := config.InitConfig(*configPath)
	if err != nil {
		log.Fatalf("Error reading config: %v", err)
	}

	// Инициализация логгера
	loggerManager, err := logger.NewLoggerManager(c.LogFilePath, c.Debug)
	if err != nil {
		log.Fatal("Error initializing logger: ", err)
	}
	defer loggerManager.Close()

	loggerManager.Info("🚀 Запуск minebot")

	root, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Шаблоны клеток
	library, err := templates.Load(c.TemplatesDir, c.SSIMThreshold, loggerManager)
	if err != nil {
		loggerManager.LogError(err, "Ошибка загрузки шаблонов")
		return
	}

	// Подключение к базе данных MySQL
	var dbManager *database.DatabaseManager
	if c.Database.Enabled {
		db, err := database.Open(c.Database.DSN)
		if err != nil {
			loggerManager.LogError(err, "Error connecting to database")
			return
		}
		defer db.Close()
		loggerManager.Info("✅ Успешное подключение к базе данных")

		dbManager = database.NewDatabaseManager(db, c.Database.SaveToDB == 1, loggerManager)
		if err := dbManager.EnsureSchema(); err != nil {
			loggerManager.LogError(err, "Ошибка подготовки таблиц")
			return
		}
		defer dbManager.WaitForAsyncOperations()
	}

	// Инициализация порта с использованием значений из конфигурации
	portObj, err := arduino.InitializePort(c.Port, c.BaudRate)
	if err != nil {
		loggerManager.LogError(err, "Error opening arduino port")
		return
	}
	defer func(port *serial.Port) {
		if err := port.Close(); err != nil {
			loggerManager.LogError(err, "Error closing port")
		}
	}(portObj)

	screenshotManager, err := screenshot.NewScreenshotManager(c.Display, c.CaptureRegion.Rect(), c.FramesDir, loggerManager)
	if err != nil {
		loggerManager.LogError(err, "Ошибка инициализации захвата экрана")
		return
	}
	offset := screenshotManager.Offset()
	clickManager := click_manager.NewClickManager(arduino.New(portObj), offset.X, offset.Y, c.ActionDelay(), loggerManager)

	var sink tracker.SampleSink
	if c.SaveSamples {
		store, err := templates.NewStore(c.SamplesDir, library, loggerManager)
		if err != nil {
			loggerManager.LogError(err, "Ошибка инициализации папки образцов")
			return
		}
		sink = &sampleSink{store: store, dbManager: dbManager}
	}

	var slv playBoard.Solver = &solver.Local{Engine: solver.Engine{MaxPasses: c.MaxPasses}}
	if c.Remote.Enabled {
		slv = remote.NewClient(c.Remote.URL, c.Remote.Timeout, nil)
		loggerManager.Info("🌐 Удалённый решатель: %s", c.Remote.URL)
	}

	deps := playBoard.Deps{
		Capturer:   screenshotManager,
		Calibrator: geometry.NewCalibrator(c.Reference, c.BoardSizes),
		Scanner:    tracker.NewTracker(library, c.ClassifyWorkers, sink, loggerManager),
		Solver:     slv,
		Actuator:   clickManager,
	}
	if c.Anchor.Image != "" {
		finder, err := anchor.Load(c.Anchor.Image, c.Anchor.Threshold)
		if err != nil {
			loggerManager.LogError(err, "Ошибка загрузки ориентира")
			return
		}
		defer finder.Close()
		deps.Anchor = finder
	}
	if dbManager != nil {
		deps.Stop = dbManager
		deps.Recorder = dbManager
	}
	if c.SaveFailedFrames {
		deps.Frames = screenshotManager
	}

	runner := playBoard.New(deps, playBoard.Options{
		MaxFailedCycles: c.MaxFailedCycles,
		GuessKey:        c.GuessKey,
		RetryDelay:      c.ActionDelay(),
	}, loggerManager)

	// Инициализация менеджера прерываний
	controller := interrupt.NewController(loggerManager)
	loggerManager.Info("⏸️ Программа готова к работе. Нажмите Shift+Enter для запуска, Q для прерывания")

	// запускаем мониторинг горячих клавиш
	controller.StartMonitoring()

	for {
		select {
		case <-root.Done():
			loggerManager.Info("👋 Завершение работы")
			return
		case <-controller.StartRequests():
		}

		ctx, ok := controller.Start(root)
		if !ok {
			continue
		}
		updateStatus(dbManager, database.StatusRunning, loggerManager)

		err := runner.Run(ctx)
		controller.Done()

		switch {
		case errors.Is(err, playBoard.ErrNoMoves):
			loggerManager.Info("🏁 Ходов больше нет, поле закончено")
		case err != nil:
			loggerManager.LogError(err, "Цикл остановлен с ошибкой")
		}
		updateStatus(dbManager, database.StatusIdle, loggerManager)
		loggerManager.Info("✅ Цикл завершен. Нажмите Shift+Enter для повторного запуска")
	}
}

func updateStatus(dbManager *database.DatabaseManager, status string, loggerManager *logger.LoggerManager) {
	if dbManager == nil {
		return
	}
	if err := dbManager.UpdateStatus(status); err != nil {
		loggerManager.LogError(err, "Ошибка обновления статуса")
	}
}
