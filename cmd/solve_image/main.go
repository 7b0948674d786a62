package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/pflag"

	"minebot/internal/config"
	"minebot/internal/database"
	"minebot/internal/geometry"
	"minebot/internal/logger"
	"minebot/internal/solver"
	"minebot/internal/templates"
	"minebot/internal/tracker"
)

// Офлайн-прогон одного снимка: калибровка, распознавание и вывод без кликов
func main() {
	configPath := pflag.StringP("config", "c", "", "путь к config.yaml")
	copyBoard := pflag.Bool("copy", false, "скопировать доску в буфер обмена")
	verbose := pflag.BoolP("verbose", "v", false, "печатать каждый проход вывода")
	pflag.Parse()

	if pflag.NArg() != 1 {
		fmt.Println("Использование: solve_image [-c config.yaml] [--copy] [-v] <снимок.png>")
		os.Exit(2)
	}

	c, err := config.InitConfig(*configPath)
	if err != nil {
		log.Fatalf("Ошибка чтения конфигурации: %v", err)
	}
	loggerManager := logger.NewWriterLogger(os.Stderr, *verbose)

	img, err := readImage(pflag.Arg(0))
	if err != nil {
		log.Fatalf("Ошибка чтения снимка: %v", err)
	}

	library, err := templates.Load(c.TemplatesDir, c.SSIMThreshold, loggerManager)
	if err != nil {
		log.Fatalf("Ошибка загрузки шаблонов: %v", err)
	}

	res, err := geometry.NewCalibrator(c.Reference, c.BoardSizes).Calibrate(img, nil)
	if err != nil {
		log.Fatalf("Ошибка калибровки: %v", err)
	}
	fmt.Printf("Поле %dx%d, мин %d, клетка %d px, начало %v\n",
		res.Size.Rows, res.Size.Cols, res.Size.Mines, res.Geometry.CellSize, res.Geometry.Origin)

	b, misses := tracker.NewTracker(library, c.ClassifyWorkers, nil, loggerManager).Scan(img, res.Geometry, nil)
	fmt.Println(b)
	if len(misses) > 0 {
		fmt.Printf("Нераспознано клеток: %d %v\n", len(misses), misses)
	}

	engine := solver.Engine{MaxPasses: c.MaxPasses}
	if *verbose {
		engine.OnPass = func(pass int, d *solver.Discoveries) {
			loggerManager.Debug("проход %d: безопасных %d, бонусных %d, мин %d",
				pass, d.Safe.Len(), d.BonusSafe.Len(), d.Mines.Len())
		}
	}
	local := &solver.Local{Engine: engine}
	moves, err := local.Solve(context.Background(), b, res.Size.Mines)
	switch {
	case errors.Is(err, solver.ErrNoMove):
		fmt.Println("Ходов нет")
	case err != nil:
		log.Fatalf("Ошибка вывода: %v", err)
	default:
		fmt.Println("Ходы:", database.FormatMoves(moves))
	}

	if *copyBoard {
		if err := clipboard.WriteAll(b.String()); err != nil {
			log.Fatalf("Ошибка копирования в буфер обмена: %v", err)
		}
		fmt.Println("📋 Доска скопирована в буфер обмена")
	}
}

func readImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}
