package screenshot

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/kbinani/screenshot"

	"minebot/internal/logger"
)

// ScreenshotManager снимает экран (весь дисплей или заданную область)
type ScreenshotManager struct {
	display int
	region  image.Rectangle
	saveDir string
	logger  *logger.LoggerManager
}

// NewScreenshotManager пустой region означает весь дисплей display
func NewScreenshotManager(display int, region image.Rectangle, saveDir string, loggerManager *logger.LoggerManager) (*ScreenshotManager, error) {
	if region.Empty() {
		if n := screenshot.NumActiveDisplays(); display < 0 || display >= n {
			return nil, fmt.Errorf("дисплей %d не найден, активных дисплеев: %d", display, n)
		}
	}
	return &ScreenshotManager{
		display: display,
		region:  region,
		saveDir: saveDir,
		logger:  loggerManager,
	}, nil
}

// Bounds область экрана, которую захватывает Capture
func (m *ScreenshotManager) Bounds() image.Rectangle {
	if !m.region.Empty() {
		return m.region
	}
	return screenshot.GetDisplayBounds(m.display)
}

// Offset экранные координаты левого верхнего угла кадра
func (m *ScreenshotManager) Offset() image.Point {
	return m.Bounds().Min
}

// Capture захватывает кадр в память; координаты кадра начинаются с (0,0)
func (m *ScreenshotManager) Capture() (*image.RGBA, error) {
	img, err := screenshot.CaptureRect(m.Bounds())
	if err != nil {
		return nil, fmt.Errorf("failed to capture screenshot: %w", err)
	}
	return img, nil
}

// SaveImage сохраняет кадр в PNG для отладки и возвращает путь к файлу
func (m *ScreenshotManager) SaveImage(img image.Image, prefix string) (string, error) {
	if err := os.MkdirAll(m.saveDir, 0755); err != nil {
		return "", fmt.Errorf("ошибка создания папки %s: %w", m.saveDir, err)
	}

	path := filepath.Join(m.saveDir, fmt.Sprintf("%s_%d.png", prefix, time.Now().UnixNano()))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("ошибка создания файла: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("ошибка сохранения изображения: %w", err)
	}
	m.logger.Info("📸 Кадр сохранен: %s", path)
	return path, nil
}

// ImageToBytes кодирует изображение в PNG
func ImageToBytes(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("ошибка кодирования изображения: %w", err)
	}
	return buf.Bytes(), nil
}
