package config

import (
	"errors"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/spf13/viper"

	"minebot/internal/board"
	"minebot/internal/geometry"
)

// Структура для координат с размером
type CoordinatesWithSize struct {
	X      int `mapstructure:"x"`
	Y      int `mapstructure:"y"`
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// Rect пустой прямоугольник, если ширина или высота не заданы
func (c CoordinatesWithSize) Rect() image.Rectangle {
	if c.Width <= 0 || c.Height <= 0 {
		return image.Rectangle{}
	}
	return image.Rect(c.X, c.Y, c.X+c.Width, c.Y+c.Height)
}

// Внешний решатель
type Remote struct {
	Enabled bool          `mapstructure:"enabled"`
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// История циклов и удалённая остановка через MySQL
type Database struct {
	Enabled  bool   `mapstructure:"enabled"`
	DSN      string `mapstructure:"dsn"`
	SaveToDB int    `mapstructure:"save_to_db"`
}

// Ориентир на экране, ниже и правее которого ищется поле
type Anchor struct {
	Image     string  `mapstructure:"image"`
	Threshold float64 `mapstructure:"threshold"`
}

// Основная структура конфигурации
type Config struct {
	Port        string `mapstructure:"port"`
	BaudRate    int    `mapstructure:"baud_rate"`
	LogFilePath string `mapstructure:"log_file_path"`
	Debug       bool   `mapstructure:"debug"`

	Display       int                 `mapstructure:"display"`
	CaptureRegion CoordinatesWithSize `mapstructure:"capture_region"`

	Reference  geometry.Reference `mapstructure:"reference"`
	BoardSizes []board.Size       `mapstructure:"board_sizes"`

	SSIMThreshold   float64 `mapstructure:"ssim_threshold"`
	TemplatesDir    string  `mapstructure:"templates_dir"`
	SamplesDir      string  `mapstructure:"samples_dir"`
	SaveSamples     bool    `mapstructure:"save_samples"`
	ClassifyWorkers int     `mapstructure:"classify_workers"`

	MaxPasses        int    `mapstructure:"max_passes"`
	MaxFailedCycles  int    `mapstructure:"max_failed_cycles"`
	GuessKey         string `mapstructure:"guess_key"`
	ActionDelayMs    int    `mapstructure:"action_delay_ms"`
	SaveFailedFrames bool   `mapstructure:"save_failed_frames"`
	FramesDir        string `mapstructure:"frames_dir"`

	Remote   Remote   `mapstructure:"remote"`
	Database Database `mapstructure:"database"`
	Anchor   Anchor   `mapstructure:"anchor"`
}

// ActionDelay пауза между действиями внутри одного цикла
func (c Config) ActionDelay() time.Duration {
	return time.Duration(c.ActionDelayMs) * time.Millisecond
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "COM7")
	v.SetDefault("baud_rate", 9600)
	v.SetDefault("log_file_path", "minebot.log")
	v.SetDefault("debug", false)

	v.SetDefault("display", 0)
	v.SetDefault("capture_region.x", 0)
	v.SetDefault("capture_region.y", 0)
	v.SetDefault("capture_region.width", 0)
	v.SetDefault("capture_region.height", 0)

	ref := geometry.DefaultReference()
	v.SetDefault("reference.width", ref.Width)
	v.SetDefault("reference.height", ref.Height)
	v.SetDefault("reference.cell_size", ref.CellSize)
	v.SetDefault("reference.spacing", ref.Spacing)
	v.SetDefault("reference.offset", ref.Offset)
	v.SetDefault("reference.trim_x", ref.TrimX)
	v.SetDefault("reference.trim_y", ref.TrimY)
	for key, c := range map[string]geometry.Color{
		"top_left_color":     ref.TopLeftColor,
		"bottom_right_color": ref.BottomRightColor,
	} {
		v.SetDefault("reference."+key+".r", c.R)
		v.SetDefault("reference."+key+".g", c.G)
		v.SetDefault("reference."+key+".b", c.B)
	}

	sizes := make([]map[string]interface{}, 0, len(board.DefaultSizes))
	for _, s := range board.DefaultSizes {
		sizes = append(sizes, map[string]interface{}{"rows": s.Rows, "cols": s.Cols, "mines": s.Mines})
	}
	v.SetDefault("board_sizes", sizes)

	v.SetDefault("ssim_threshold", 0.6)
	v.SetDefault("templates_dir", "templates")
	v.SetDefault("samples_dir", "samples")
	v.SetDefault("save_samples", true)
	v.SetDefault("classify_workers", 4)

	v.SetDefault("max_passes", 64)
	v.SetDefault("max_failed_cycles", 3)
	v.SetDefault("guess_key", "1")
	v.SetDefault("action_delay_ms", 50)
	v.SetDefault("save_failed_frames", false)
	v.SetDefault("frames_dir", "frames")

	v.SetDefault("remote.enabled", false)
	v.SetDefault("remote.url", "http://localhost:8080/solve")
	v.SetDefault("remote.timeout", "5s")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.dsn", "root:root@tcp(localhost:3306)/minebot?parseTime=true")
	v.SetDefault("database.save_to_db", 0)

	v.SetDefault("anchor.image", "")
	v.SetDefault("anchor.threshold", 0.8)
}

// InitConfig читает config.yaml из рабочей директории (или файл path),
// поверх него переменные окружения MINEBOT_*. Без файла работают значения по умолчанию.
func InitConfig(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("MINEBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config") // Имя конфигурационного файла без расширения
		v.AddConfigPath(".")      // Путь к файлу конфигурации
		v.SetConfigType("yaml")   // Формат файла
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return cfg, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unable to decode into struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate проверяет значения, без которых цикл не запустится
func (c Config) Validate() error {
	if c.SSIMThreshold <= 0 || c.SSIMThreshold > 1 {
		return fmt.Errorf("ssim_threshold должен быть в (0, 1], получено %v", c.SSIMThreshold)
	}
	if len(c.BoardSizes) == 0 {
		return errors.New("board_sizes пуст")
	}
	for _, s := range c.BoardSizes {
		if s.Rows <= 0 || s.Cols <= 0 || s.Mines <= 0 {
			return fmt.Errorf("некорректный размер поля: %+v", s)
		}
	}
	if c.Reference.CellSize <= 0 || c.Reference.Width <= 0 || c.Reference.Height <= 0 {
		return fmt.Errorf("некорректная эталонная геометрия: %+v", c.Reference)
	}
	if c.ClassifyWorkers < 1 {
		return fmt.Errorf("classify_workers должен быть >= 1, получено %d", c.ClassifyWorkers)
	}
	if c.MaxFailedCycles < 0 {
		return fmt.Errorf("max_failed_cycles не может быть отрицательным: %d", c.MaxFailedCycles)
	}
	if c.Remote.Enabled && c.Remote.URL == "" {
		return errors.New("remote.enabled без remote.url")
	}
	if c.Database.Enabled && c.Database.DSN == "" {
		return errors.New("database.enabled без database.dsn")
	}
	return nil
}
