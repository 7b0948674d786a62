package main

import (
	"fmt"
	"log"

	"github.com/spf13/pflag"

	"minebot/internal/config"
	"minebot/internal/database"
)

func usage() {
	fmt.Println("Использование: status_manager [-c config.yaml] <команда> [аргументы]")
	fmt.Println("Команды:")
	fmt.Println("  status <новый_статус> - обновить статус")
	fmt.Println("  action <действие> - добавить действие (stop останавливает бота)")
	fmt.Println("  stop - то же, что action stop")
	fmt.Println("  show - показать текущий статус и последние действия")
	fmt.Println("  cycles [N] - показать последние N циклов (по умолчанию 5)")
}

func main() {
	configPath := pflag.StringP("config", "c", "", "путь к config.yaml")
	pflag.Parse()
	args := pflag.Args()

	if len(args) < 1 {
		usage()
		return
	}

	c, err := config.InitConfig(*configPath)
	if err != nil {
		log.Fatalf("Ошибка чтения конфигурации: %v", err)
	}

	// Подключаемся к базе данных
	db, err := database.Open(c.Database.DSN)
	if err != nil {
		log.Fatalf("Ошибка подключения к базе данных: %v", err)
	}
	defer db.Close()
	dbManager := database.NewDatabaseManager(db, false, nil)

	command := args[0]

	switch command {
	case "status":
		if len(args) < 2 {
			fmt.Println("Ошибка: укажите новый статус")
			return
		}
		if err := dbManager.UpdateStatus(args[1]); err != nil {
			log.Fatalf("Ошибка обновления статуса: %v", err)
		}
		fmt.Printf("Статус обновлен на: %s\n", args[1])

	case "action", "stop":
		action := database.ActionStop
		if command == "action" {
			if len(args) < 2 {
				fmt.Println("Ошибка: укажите действие")
				return
			}
			action = args[1]
		}
		if err := dbManager.AddAction(action); err != nil {
			log.Fatalf("Ошибка добавления действия: %v", err)
		}
		fmt.Printf("Действие добавлено: %s\n", action)

	case "show":
		status, actions, err := dbManager.LatestStatus(10)
		if err != nil {
			log.Fatalf("Ошибка получения данных: %v", err)
		}
		fmt.Printf("Текущий статус: %s (обновлен: %s)\n", status.CurrentStatus, status.UpdatedAt)
		fmt.Println("Последние действия:")
		for _, action := range actions {
			mark := "⏳"
			if action.Executed {
				mark = "✅"
			}
			fmt.Printf("  - %s %s (%s)\n", action.Action, mark, action.CreatedAt)
		}

	case "cycles":
		limit := 5
		if len(args) > 1 {
			if _, err := fmt.Sscanf(args[1], "%d", &limit); err != nil || limit <= 0 {
				fmt.Println("Ошибка: N должно быть положительным числом")
				return
			}
		}
		cycles, err := dbManager.RecentCycles(limit)
		if err != nil {
			log.Fatalf("Ошибка получения циклов: %v", err)
		}
		for _, cycle := range cycles {
			fmt.Printf("#%d %s %dx%d мин %d [%s]\n%s\n-> %s\n\n",
				cycle.ID, cycle.CreatedAt, cycle.Rows, cycle.Cols, cycle.Mines, cycle.Solver, cycle.Board, cycle.Moves)
		}

	default:
		fmt.Printf("Неизвестная команда: %s\n", command)
		usage()
	}
}
