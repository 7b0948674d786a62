package templates

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"minebot/internal/classifier"
	"minebot/internal/logger"
)

// ParseLabel метка шаблона: ведущие цифры имени файла ("3_grass.png" -> 3)
func ParseLabel(name string) (int, bool) {
	end := 0
	for end < len(name) && name[end] >= '0' && name[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	label, err := strconv.Atoi(name[:end])
	if err != nil {
		return 0, false
	}
	return label, true
}

// Load читает все *.png из dir в библиотеку. Порядок файлов лексикографический,
// он же порядок разрешения ничьих при распознавании.
func Load(dir string, threshold float64, log *logger.LoggerManager) (*classifier.Library, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения папки шаблонов %s: %w", dir, err)
	}

	lib := classifier.NewLibrary(threshold)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(name), ".png") {
			continue
		}
		label, ok := ParseLabel(name)
		if !ok {
			log.Warn("⚠️ Шаблон %s без числовой метки, пропускаем", name)
			continue
		}
		img, err := readPNG(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		lib.Add(label, name, img)
	}

	if lib.Len() == 0 {
		return nil, fmt.Errorf("в папке %s нет шаблонов", dir)
	}
	log.Info("🧩 Загружено шаблонов: %d из %s", lib.Len(), dir)
	return lib, nil
}

func writePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ошибка создания файла образца: %w", err)
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		os.Remove(path)
		return fmt.Errorf("ошибка сохранения образца: %w", err)
	}
	return file.Close()
}

func readPNG(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия шаблона: %w", err)
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("ошибка декодирования %s: %w", path, err)
	}
	return img, nil
}

// Store сохраняет нераспознанные клетки для последующей ручной разметки.
// Сохраняется только образец, не похожий ни на шаблоны, ни на уже сохранённые образцы.
type Store struct {
	dir       string
	templates *classifier.Library
	mu        sync.Mutex
	saved     *classifier.Library
	log       *logger.LoggerManager
}

// NewStore создает хранилище образцов; уже лежащие в dir файлы учитываются при дедупликации
func NewStore(dir string, templates *classifier.Library, log *logger.LoggerManager) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("ошибка создания папки образцов: %w", err)
	}

	saved := classifier.NewLibrary(templates.Threshold())
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения папки образцов: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".png") {
			continue
		}
		img, err := readPNG(filepath.Join(dir, entry.Name()))
		if err != nil {
			log.LogError(err, "Пропускаем повреждённый образец")
			continue
		}
		saved.Add(classifier.UnlabeledLabel, entry.Name(), img)
	}

	return &Store{dir: dir, templates: templates, saved: saved, log: log}, nil
}

// SaveUnique сохраняет образец как unlabeled_<id>.png. Возвращает true, если файл записан.
func (s *Store) SaveUnique(sample image.Image, id string) (bool, error) {
	gray := classifier.ToGray(sample)
	if !s.templates.IsUnique(gray) {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.saved.IsUnique(gray) {
		return false, nil
	}

	// в множество сохранённых образец попадает только после успешной записи файла
	name := fmt.Sprintf("unlabeled_%s.png", id)
	path := filepath.Join(s.dir, name)
	if err := writePNG(path, gray); err != nil {
		return false, err
	}
	s.saved.Add(classifier.UnlabeledLabel, name, gray)
	s.log.Info("💾 Новый образец клетки сохранён: %s", path)
	return true, nil
}
