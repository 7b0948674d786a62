package database

import (
	"database/sql"
	"errors"
	"fmt"
	"image"
	"sync"

	_ "github.com/go-sql-driver/mysql"

	"minebot/internal/logger"
	"minebot/internal/screenshot"
)

// DatabaseManager содержит функции для работы с базой данных
type DatabaseManager struct {
	db       *sql.DB
	logger   *logger.LoggerManager
	saveToDB bool
	wg       sync.WaitGroup // для ожидания завершения асинхронных операций
}

// Open подключается к MySQL и проверяет соединение
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}
	return db, nil
}

// NewDatabaseManager saveToDB выключает запись истории, но не удалённую остановку
func NewDatabaseManager(db *sql.DB, saveToDB bool, loggerManager *logger.LoggerManager) *DatabaseManager {
	return &DatabaseManager{
		db:       db,
		logger:   loggerManager,
		saveToDB: saveToDB,
	}
}

// EnsureSchema создаёт недостающие таблицы
func (h *DatabaseManager) EnsureSchema() error {
	for _, stmt := range Schema {
		if _, err := h.db.Exec(stmt); err != nil {
			return fmt.Errorf("ошибка создания таблицы: %w", err)
		}
	}
	return nil
}

// SaveCycle сохраняет цикл в историю
func (h *DatabaseManager) SaveCycle(rec CycleRecord) (int, error) {
	if !h.saveToDB {
		return 0, nil
	}
	result, err := h.db.Exec(
		`INSERT INTO cycles (board_text, board_rows, board_cols, mines, moves, solver) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.Board, rec.Rows, rec.Cols, rec.Mines, rec.Moves, rec.Solver,
	)
	if err != nil {
		return 0, fmt.Errorf("ошибка вставки данных: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("ошибка получения ID записи: %w", err)
	}
	h.logger.Debug("💾 Цикл сохранен с ID: %d", id)
	return int(id), nil
}

// SaveSample асинхронно сохраняет нераспознанную клетку
func (h *DatabaseManager) SaveSample(sampleID string, img image.Image) {
	if !h.saveToDB {
		return
	}
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		data, err := screenshot.ImageToBytes(img)
		if err != nil {
			h.logger.LogError(err, "Ошибка конвертации изображения")
			return
		}
		if _, err := h.db.Exec(`INSERT INTO unidentified_samples (sample_id, image_data) VALUES (?, ?)`, sampleID, data); err != nil {
			h.logger.LogError(err, "Ошибка асинхронного сохранения образца")
			return
		}
		h.logger.Debug("✅ Образец %s сохранен в БД", sampleID)
	}()
}

// WaitForAsyncOperations ожидает завершения всех асинхронных операций сохранения
func (h *DatabaseManager) WaitForAsyncOperations() {
	h.logger.Info("⏳ Ожидаем завершения асинхронных операций сохранения...")
	h.wg.Wait()
	h.logger.Info("✅ Все асинхронные операции сохранения завершены")
}

// GetLatestUnexecutedAction последнее невыполненное действие; пустая строка, если его нет
func (h *DatabaseManager) GetLatestUnexecutedAction() (string, int, error) {
	var (
		id     int
		action string
	)
	err := h.db.QueryRow(`SELECT id, action FROM actions WHERE executed = FALSE ORDER BY id DESC LIMIT 1`).Scan(&id, &action)
	if errors.Is(err, sql.ErrNoRows) {
		return "", 0, nil
	}
	if err != nil {
		return "", 0, fmt.Errorf("ошибка чтения действий: %w", err)
	}
	return action, id, nil
}

func (h *DatabaseManager) MarkActionAsExecuted(id int) error {
	_, err := h.db.Exec(`UPDATE actions SET executed = TRUE WHERE id = ?`, id)
	return err
}

func (h *DatabaseManager) AddAction(action string) error {
	_, err := h.db.Exec(`INSERT INTO actions (action) VALUES (?)`, action)
	return err
}

func (h *DatabaseManager) UpdateStatus(status string) error {
	_, err := h.db.Exec(`INSERT INTO status (current_status) VALUES (?)`, status)
	return err
}

// CheckStop проверяет наличие действия "stop" в базе данных.
// Найденное действие помечается выполненным, статус меняется на stopped.
func (h *DatabaseManager) CheckStop() (bool, error) {
	action, actionID, err := h.GetLatestUnexecutedAction()
	if err != nil {
		return false, err
	}
	if action != ActionStop {
		return false, nil
	}

	h.logger.Info("🛑 Обнаружено действие 'stop' в базе данных (ID: %d)", actionID)
	if err := h.MarkActionAsExecuted(actionID); err != nil {
		h.logger.LogError(err, "Ошибка пометки действия как выполненного")
	}
	if err := h.UpdateStatus(StatusStopped); err != nil {
		h.logger.LogError(err, "Ошибка обновления статуса на stopped")
	}
	return true, nil
}

// LatestStatus текущий статус и последние действия
func (h *DatabaseManager) LatestStatus(limit int) (Status, []Action, error) {
	var status Status
	err := h.db.QueryRow(`SELECT id, current_status, updated_at FROM status ORDER BY id DESC LIMIT 1`).
		Scan(&status.ID, &status.CurrentStatus, &status.UpdatedAt)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return Status{}, nil, err
	}

	rows, err := h.db.Query(`SELECT id, action, executed, created_at FROM actions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return status, nil, err
	}
	defer rows.Close()

	var actions []Action
	for rows.Next() {
		var a Action
		if err := rows.Scan(&a.ID, &a.Action, &a.Executed, &a.CreatedAt); err != nil {
			return status, actions, err
		}
		actions = append(actions, a)
	}
	return status, actions, rows.Err()
}

// RecentCycles последние циклы, новые первыми
func (h *DatabaseManager) RecentCycles(limit int) ([]CycleRecord, error) {
	rows, err := h.db.Query(
		`SELECT id, board_text, board_rows, board_cols, mines, moves, solver, created_at FROM cycles ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cycles []CycleRecord
	for rows.Next() {
		var c CycleRecord
		var moves sql.NullString
		if err := rows.Scan(&c.ID, &c.Board, &c.Rows, &c.Cols, &c.Mines, &moves, &c.Solver, &c.CreatedAt); err != nil {
			return cycles, err
		}
		c.Moves = moves.String
		cycles = append(cycles, c)
	}
	return cycles, rows.Err()
}

// RecentSamples последние нераспознанные клетки
func (h *DatabaseManager) RecentSamples(limit int) ([]Sample, error) {
	rows, err := h.db.Query(`SELECT id, sample_id, image_data, created_at FROM unidentified_samples ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []Sample
	for rows.Next() {
		var s Sample
		if err := rows.Scan(&s.ID, &s.SampleID, &s.ImageData, &s.CreatedAt); err != nil {
			return samples, err
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}
